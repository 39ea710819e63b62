// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package ubf

import (
	"github.com/openubf/ubf/lib/codec"
)

// DataField is the reserved carray field that carries whole-value
// encodings produced by [Marshal]. The number sits at the top of the
// dictionary space so generated dictionaries never collide with it.
var DataField = MakeFieldID(TypeCarray, maxFieldNum)

// Marshal encodes an arbitrary value with the project's deterministic
// CBOR encoding and stores the result in [DataField] of a fresh
// buffer. It is the fallback path for values that carry no per-field
// mapping; nested structs, arrays, and optional (pointer + omitempty)
// fields all round-trip through [Unmarshal].
func Marshal(value any) (*Buffer, error) {
	encoded, err := codec.Marshal(value)
	if err != nil {
		return nil, &ConversionError{
			Struct:  "marshal",
			FieldID: DataField,
			Err:     &TypeError{Field: DataField, Op: "encode value", Cause: err},
		}
	}
	buf, err := New(headerSize + entryOverhead + len(encoded))
	if err != nil {
		return nil, &ConversionError{Struct: "marshal", FieldID: DataField, Err: err}
	}
	if err := buf.AddBytes(DataField, encoded); err != nil {
		buf.Release()
		return nil, &ConversionError{Struct: "marshal", FieldID: DataField, Err: err}
	}
	return buf, nil
}

// Unmarshal reads the [DataField] payload of buf and decodes it into
// target, which must be a non-nil pointer. A buffer without the data
// field fails with an error matching [ErrFieldNotFound]; a payload
// that does not match target's shape fails with one matching
// [ErrTypeMismatch]. The target is not partially populated on error
// beyond what the decoder had written before failing; callers must
// treat target as undefined after an error.
func Unmarshal(buf *Buffer, target any) error {
	encoded, err := buf.GetBytes(DataField, 0)
	if err != nil {
		return &ConversionError{Struct: "unmarshal", FieldID: DataField, Err: err}
	}
	if err := codec.Unmarshal(encoded, target); err != nil {
		return &ConversionError{
			Struct:  "unmarshal",
			FieldID: DataField,
			Err:     &TypeError{Field: DataField, Op: "decode value", Cause: err},
		}
	}
	return nil
}

// IsGeneric reports whether buf carries a generic whole-value payload
// rather than (or in addition to) individually mapped fields.
func IsGeneric(buf *Buffer) bool {
	return buf.Has(DataField, 0)
}
