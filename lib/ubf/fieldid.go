// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package ubf

import "fmt"

// Type is the primitive type of a field, encoded in the high bits of
// its identifier. The numeric values are part of the wire contract and
// must not be reordered.
type Type uint8

const (
	// TypeShort is a 16-bit signed integer.
	TypeShort Type = 0
	// TypeLong is a 64-bit signed integer.
	TypeLong Type = 1
	// TypeChar is a single byte.
	TypeChar Type = 2
	// TypeFloat is a 32-bit IEEE 754 value.
	TypeFloat Type = 3
	// TypeDouble is a 64-bit IEEE 754 value.
	TypeDouble Type = 4
	// TypeString is UTF-8 text.
	TypeString Type = 5
	// TypeCarray is an opaque byte array.
	TypeCarray Type = 6

	typeCount = 7
)

var typeNames = [typeCount]string{
	"short", "long", "char", "float", "double", "string", "carray",
}

// String returns the dictionary spelling of the type ("short", "long",
// "char", "float", "double", "string", "carray").
func (t Type) String() string {
	if t >= typeCount {
		return fmt.Sprintf("type(%d)", uint8(t))
	}
	return typeNames[t]
}

// Valid reports whether t is one of the seven defined types.
func (t Type) Valid() bool { return t < typeCount }

// FieldID identifies one field slot within a buffer. The top bits hold
// the field's [Type] and the low 25 bits hold its dictionary number, so
// the type of a field is recoverable from the identifier alone.
type FieldID uint32

// BadFieldID is the zero identifier. No dictionary assigns it; buffer
// accessors reject it.
const BadFieldID FieldID = 0

// typeShift positions the type tag above the 25-bit number space,
// matching the classic FML32/UBF identifier layout.
const (
	typeShift   = 25
	numberMask  = 1<<typeShift - 1
	maxFieldNum = numberMask
)

// MakeFieldID composes an identifier from a type tag and a dictionary
// number. The number must be in 1..2^25-1; out-of-range input yields
// [BadFieldID].
func MakeFieldID(t Type, number uint32) FieldID {
	if !t.Valid() || number == 0 || number > maxFieldNum {
		return BadFieldID
	}
	return FieldID(uint32(t)<<typeShift | number)
}

// Type returns the primitive type embedded in the identifier.
func (id FieldID) Type() Type { return Type(uint32(id) >> typeShift) }

// Number returns the dictionary sequence number embedded in the
// identifier.
func (id FieldID) Number() uint32 { return uint32(id) & numberMask }

// Valid reports whether the identifier carries a defined type and a
// nonzero number.
func (id FieldID) Valid() bool {
	return id.Type().Valid() && id.Number() != 0
}

// String renders the identifier as "type:number" for diagnostics.
func (id FieldID) String() string {
	return fmt.Sprintf("%s:%d", id.Type(), id.Number())
}
