// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package ubf

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// AddString appends a new occurrence of a string-typed field. The
// identifier's embedded type must be string; anything else is a
// [TypeError].
func (b *Buffer) AddString(id FieldID, value string) error {
	return b.add(id, "add string", TypeString, []byte(value))
}

// AddBytes appends a new occurrence of a carray-typed field.
func (b *Buffer) AddBytes(id FieldID, value []byte) error {
	return b.add(id, "add bytes", TypeCarray, value)
}

// AddLong appends a new occurrence of an integer field. The identifier
// may be long, short, or char typed; for the narrower types the value
// is range-checked and a value that does not fit is a [TypeError].
func (b *Buffer) AddLong(id FieldID, value int64) error {
	encoded, err := encodeLong(id, "add long", value)
	if err != nil {
		return err
	}
	return b.add(id, "add long", id.Type(), encoded)
}

// AddDouble appends a new occurrence of a floating-point field. The
// identifier may be double or float typed; float fields store the
// value narrowed to 32 bits.
func (b *Buffer) AddDouble(id FieldID, value float64) error {
	encoded, err := encodeDouble(id, "add double", value)
	if err != nil {
		return err
	}
	return b.add(id, "add double", id.Type(), encoded)
}

// ChangeString overwrites occurrence occ of a string field in place.
// When occ equals the current occurrence count the value is appended;
// a larger occ is a [FieldNotFoundError] (no null padding).
func (b *Buffer) ChangeString(id FieldID, occ int, value string) error {
	return b.change(id, occ, "change string", TypeString, []byte(value))
}

// ChangeBytes is [Buffer.ChangeString] for carray fields.
func (b *Buffer) ChangeBytes(id FieldID, occ int, value []byte) error {
	return b.change(id, occ, "change bytes", TypeCarray, value)
}

// ChangeLong overwrites occurrence occ of an integer field, with the
// same append-at-count semantics as [Buffer.ChangeString].
func (b *Buffer) ChangeLong(id FieldID, occ int, value int64) error {
	encoded, err := encodeLong(id, "change long", value)
	if err != nil {
		return err
	}
	return b.change(id, occ, "change long", id.Type(), encoded)
}

// ChangeDouble overwrites occurrence occ of a floating-point field,
// with the same append-at-count semantics as [Buffer.ChangeString].
func (b *Buffer) ChangeDouble(id FieldID, occ int, value float64) error {
	encoded, err := encodeDouble(id, "change double", value)
	if err != nil {
		return err
	}
	return b.change(id, occ, "change double", id.Type(), encoded)
}

// GetString reads occurrence occ as text. Numeric fields are formatted
// (integers in decimal, floats in shortest round-trip form); string
// and carray fields are returned as stored. An absent occurrence is a
// [FieldNotFoundError].
func (b *Buffer) GetString(id FieldID, occ int) (string, error) {
	value, err := b.get(id, occ, "get string")
	if err != nil {
		return "", err
	}
	switch id.Type() {
	case TypeString, TypeCarray:
		return string(value), nil
	case TypeChar:
		return string(rune(value[0])), nil
	case TypeShort, TypeLong:
		return strconv.FormatInt(decodeInt(id.Type(), value), 10), nil
	case TypeFloat:
		return strconv.FormatFloat(decodeFloat(TypeFloat, value), 'f', -1, 32), nil
	default: // TypeDouble
		return strconv.FormatFloat(decodeFloat(TypeDouble, value), 'f', -1, 64), nil
	}
}

// GetLong reads occurrence occ as an integer. Floating-point fields
// are truncated; string and carray fields are parsed as decimal text,
// and a failed parse is a [TypeError].
func (b *Buffer) GetLong(id FieldID, occ int) (int64, error) {
	value, err := b.get(id, occ, "get long")
	if err != nil {
		return 0, err
	}
	switch id.Type() {
	case TypeShort, TypeLong, TypeChar:
		return decodeInt(id.Type(), value), nil
	case TypeFloat, TypeDouble:
		return int64(decodeFloat(id.Type(), value)), nil
	default: // TypeString, TypeCarray
		parsed, perr := strconv.ParseInt(string(value), 10, 64)
		if perr != nil {
			return 0, &TypeError{Field: id, Op: "get long", Cause: perr}
		}
		return parsed, nil
	}
}

// GetDouble reads occurrence occ as a float64. Integer fields are
// widened; string and carray fields are parsed, and a failed parse is
// a [TypeError].
func (b *Buffer) GetDouble(id FieldID, occ int) (float64, error) {
	value, err := b.get(id, occ, "get double")
	if err != nil {
		return 0, err
	}
	switch id.Type() {
	case TypeShort, TypeLong, TypeChar:
		return float64(decodeInt(id.Type(), value)), nil
	case TypeFloat, TypeDouble:
		return decodeFloat(id.Type(), value), nil
	default: // TypeString, TypeCarray
		parsed, perr := strconv.ParseFloat(string(value), 64)
		if perr != nil {
			return 0, &TypeError{Field: id, Op: "get double", Cause: perr}
		}
		return parsed, nil
	}
}

// GetBytes reads occurrence occ of a string or carray field as a copy
// of the stored bytes. Numeric fields do not convert to byte arrays.
func (b *Buffer) GetBytes(id FieldID, occ int) ([]byte, error) {
	if t := id.Type(); t != TypeString && t != TypeCarray {
		return nil, &TypeError{Field: id, Op: "get bytes"}
	}
	value, err := b.get(id, occ, "get bytes")
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Has reports whether occurrence occ of the field is present. It never
// fails: absence (including a released buffer) is an ordinary state.
func (b *Buffer) Has(id FieldID, occ int) bool {
	if b.data == nil {
		return false
	}
	_, _, found := b.find(id, occ)
	return found
}

// Occurrences returns the number of stored occurrences of the field.
func (b *Buffer) Occurrences(id FieldID) int {
	if b.data == nil {
		return 0
	}
	count := 0
	for off := headerSize; off < b.used; {
		entryID, entryLen := b.entryAt(off)
		if entryID > id {
			break
		}
		if entryID == id {
			count++
		}
		off += entryOverhead + entryLen
	}
	return count
}

// Delete removes occurrence occ of the field, shifting later
// occurrences of the same identifier down by one. A missing occurrence
// is a [FieldNotFoundError].
func (b *Buffer) Delete(id FieldID, occ int) error {
	if err := b.live("delete"); err != nil {
		return err
	}
	off, length, found := b.find(id, occ)
	if !found {
		return &FieldNotFoundError{Field: id, Occurrence: occ}
	}
	b.remove(off, length)
	return nil
}

// add validates the identifier against the adding accessor and splices
// a new occurrence. want is the type required for direct (non-numeric)
// adds; numeric adds pass the identifier's own type after their own
// validation in encodeLong/encodeDouble.
func (b *Buffer) add(id FieldID, op string, want Type, value []byte) error {
	if err := b.live(op); err != nil {
		return err
	}
	if !id.Valid() {
		return &TypeError{Field: id, Op: op, Cause: fmt.Errorf("invalid field id")}
	}
	if id.Type() != want {
		return &TypeError{Field: id, Op: op}
	}
	return b.insert(id, value)
}

func (b *Buffer) change(id FieldID, occ int, op string, want Type, value []byte) error {
	if err := b.live(op); err != nil {
		return err
	}
	if !id.Valid() {
		return &TypeError{Field: id, Op: op, Cause: fmt.Errorf("invalid field id")}
	}
	if id.Type() != want {
		return &TypeError{Field: id, Op: op}
	}
	if occ < 0 {
		return &FieldNotFoundError{Field: id, Occurrence: occ}
	}
	if off, oldLen, found := b.find(id, occ); found {
		return b.replace(off, oldLen, value)
	}
	if occ == b.Occurrences(id) {
		return b.insert(id, value)
	}
	return &FieldNotFoundError{Field: id, Occurrence: occ}
}

func (b *Buffer) get(id FieldID, occ int, op string) ([]byte, error) {
	if err := b.live(op); err != nil {
		return nil, err
	}
	off, length, found := b.find(id, occ)
	if !found {
		return nil, &FieldNotFoundError{Field: id, Occurrence: occ}
	}
	return b.data[off+entryOverhead : off+entryOverhead+length], nil
}

// encodeLong encodes an integer for the identifier's type, range
// checking the narrower kinds. Long and char accept AddLong/ChangeLong
// alongside short so one accessor serves the whole integer family.
func encodeLong(id FieldID, op string, value int64) ([]byte, error) {
	switch id.Type() {
	case TypeLong:
		out := make([]byte, 8)
		binary.LittleEndian.PutUint64(out, uint64(value))
		return out, nil
	case TypeShort:
		if value < math.MinInt16 || value > math.MaxInt16 {
			return nil, &TypeError{Field: id, Op: op, Cause: fmt.Errorf("value %d does not fit a short", value)}
		}
		out := make([]byte, 2)
		binary.LittleEndian.PutUint16(out, uint16(int16(value)))
		return out, nil
	case TypeChar:
		if value < 0 || value > math.MaxUint8 {
			return nil, &TypeError{Field: id, Op: op, Cause: fmt.Errorf("value %d does not fit a char", value)}
		}
		return []byte{byte(value)}, nil
	default:
		return nil, &TypeError{Field: id, Op: op}
	}
}

func encodeDouble(id FieldID, op string, value float64) ([]byte, error) {
	switch id.Type() {
	case TypeDouble:
		out := make([]byte, 8)
		binary.LittleEndian.PutUint64(out, math.Float64bits(value))
		return out, nil
	case TypeFloat:
		out := make([]byte, 4)
		binary.LittleEndian.PutUint32(out, math.Float32bits(float32(value)))
		return out, nil
	default:
		return nil, &TypeError{Field: id, Op: op}
	}
}

// decodeInt decodes a stored short, long, or char value. The stored
// widths are fixed by the wire contract, so a wrong length means a
// corrupted buffer and panics via the slice bounds check.
func decodeInt(t Type, value []byte) int64 {
	switch t {
	case TypeShort:
		return int64(int16(binary.LittleEndian.Uint16(value)))
	case TypeChar:
		return int64(value[0])
	default: // TypeLong
		return int64(binary.LittleEndian.Uint64(value))
	}
}

func decodeFloat(t Type, value []byte) float64 {
	if t == TypeFloat {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(value)))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(value))
}
