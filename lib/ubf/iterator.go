// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package ubf

import (
	"fmt"
	"io"
)

// FieldOcc is one position produced by an [Iterator]: a field
// identifier and the zero-based occurrence index at that position.
type FieldOcc struct {
	Field      FieldID
	Occurrence int
}

// Iterator walks the (field, occurrence) pairs of a buffer in storage
// order: ascending field identifier, occurrences in insertion order.
//
// The iterator is lazy and finite, and cannot be restarted; construct
// a new one to walk again. It reads the buffer it was created from
// directly, so the buffer must not be mutated or released while
// iterating. Iterators are for read-only introspection (printing,
// projection, debugging) only.
type Iterator struct {
	buf  *Buffer
	off  int
	last FieldID
	occ  int
}

// Iterator returns a cursor positioned before the first field.
func (b *Buffer) Iterator() *Iterator {
	return &Iterator{buf: b, off: headerSize}
}

// Next advances to the next stored value. It returns false when the
// buffer is exhausted (or was released).
func (it *Iterator) Next() (FieldOcc, bool) {
	if it.buf.data == nil || it.off >= it.buf.used {
		return FieldOcc{}, false
	}
	id, length := it.buf.entryAt(it.off)
	it.off += entryOverhead + length
	if id == it.last {
		it.occ++
	} else {
		it.last = id
		it.occ = 0
	}
	return FieldOcc{Field: id, Occurrence: it.occ}, true
}

// FieldNamer resolves field identifiers to symbolic names for
// printing. lib/fieldtab's Table implements it; Print falls back to
// the numeric identifier when the namer is nil or reports an error.
type FieldNamer interface {
	Name(id FieldID) (string, error)
}

// Print writes one "name\tvalue" line per stored value, in storage
// order. String values print as-is, numeric values in their decimal
// form, carray values as hex. This is the introspection analog of the
// classic Bprint.
func (b *Buffer) Print(w io.Writer, names FieldNamer) error {
	if err := b.live("print"); err != nil {
		return err
	}
	it := b.Iterator()
	for {
		pos, ok := it.Next()
		if !ok {
			return nil
		}
		label := pos.Field.String()
		if names != nil {
			if resolved, err := names.Name(pos.Field); err == nil {
				label = resolved
			}
		}
		var rendered string
		if pos.Field.Type() == TypeCarray {
			raw, err := b.GetBytes(pos.Field, pos.Occurrence)
			if err != nil {
				return err
			}
			rendered = fmt.Sprintf("%x", raw)
		} else {
			value, err := b.GetString(pos.Field, pos.Occurrence)
			if err != nil {
				return err
			}
			rendered = value
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", label, rendered); err != nil {
			return fmt.Errorf("print buffer: %w", err)
		}
	}
}
