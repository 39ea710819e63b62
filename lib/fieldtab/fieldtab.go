// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package fieldtab

import (
	"errors"
	"fmt"
	"sort"

	"github.com/openubf/ubf/lib/ubf"
)

// ErrUnknownField matches lookup failures for names and identifiers
// absent from a table.
var ErrUnknownField = errors.New("unknown field")

// Field is one dictionary entry.
type Field struct {
	Name string
	ID   ubf.FieldID
}

// Table is an immutable field dictionary. Construct with [New] or one
// of the file loaders; lookups are safe for concurrent use.
type Table struct {
	byName map[string]ubf.FieldID
	byID   map[ubf.FieldID]string
}

// New builds a table from dictionary entries. Empty names, invalid
// identifiers, and duplicate names or identifiers are rejected.
func New(fields []Field) (*Table, error) {
	t := &Table{
		byName: make(map[string]ubf.FieldID, len(fields)),
		byID:   make(map[ubf.FieldID]string, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field with id %s has empty name", f.ID)
		}
		if !f.ID.Valid() {
			return nil, fmt.Errorf("field %s has invalid id %#x", f.Name, uint32(f.ID))
		}
		if existing, dup := t.byName[f.Name]; dup {
			return nil, fmt.Errorf("field name %s assigned to both %s and %s", f.Name, existing, f.ID)
		}
		if existing, dup := t.byID[f.ID]; dup {
			return nil, fmt.Errorf("field id %s assigned to both %s and %s", f.ID, existing, f.Name)
		}
		t.byName[f.Name] = f.ID
		t.byID[f.ID] = f.Name
	}
	return t, nil
}

// ID resolves a symbolic field name to its identifier.
func (t *Table) ID(name string) (ubf.FieldID, error) {
	id, ok := t.byName[name]
	if !ok {
		return ubf.BadFieldID, fmt.Errorf("%w: name %q", ErrUnknownField, name)
	}
	return id, nil
}

// Name resolves an identifier to its symbolic name.
func (t *Table) Name(id ubf.FieldID) (string, error) {
	name, ok := t.byID[id]
	if !ok {
		return "", fmt.Errorf("%w: id %s", ErrUnknownField, id)
	}
	return name, nil
}

// Type returns the primitive type of a dictionary field. The type is
// derivable from the identifier alone; the named operation exists for
// symmetry with ID and Name and additionally confirms the identifier
// is actually in the dictionary.
func (t *Table) Type(id ubf.FieldID) (ubf.Type, error) {
	if _, ok := t.byID[id]; !ok {
		return 0, fmt.Errorf("%w: id %s", ErrUnknownField, id)
	}
	return id.Type(), nil
}

// Len returns the number of dictionary entries.
func (t *Table) Len() int { return len(t.byID) }

// Fields returns the dictionary entries sorted by identifier. The
// slice is freshly allocated; mutating it does not affect the table.
func (t *Table) Fields() []Field {
	fields := make([]Field, 0, len(t.byID))
	for id, name := range t.byID {
		fields = append(fields, Field{Name: name, ID: id})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].ID < fields[j].ID })
	return fields
}
