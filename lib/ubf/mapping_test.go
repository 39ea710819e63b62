// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package ubf_test

import (
	"errors"
	"testing"

	"github.com/openubf/ubf/lib/ubf"
)

// The conversion methods below mirror ubfgen output for these types
// (see cmd/ubfgen); the tests pin the runtime semantics the generated
// code relies on.

const (
	fldName   ubf.FieldID = 5<<25 | 1002 // string
	fldStatus ubf.FieldID = 5<<25 | 1004 // string
	fldFlag   ubf.FieldID = 1<<25 | 1005 // long
	fldID     ubf.FieldID = 1<<25 | 1012 // long
	fldAmount ubf.FieldID = 4<<25 | 1021 // double
	fldStreet ubf.FieldID = 5<<25 | 1031 // string
	fldCity   ubf.FieldID = 5<<25 | 1032 // string
)

type transaction struct {
	Name   string  `ubf:"1002"`
	ID     int64   `ubf:"1012"`
	Amount float64 `ubf:"1021"`
	Status string  `ubf:"1004,default=pending"`
}

func (s *transaction) FromBuffer(buf *ubf.Buffer) error {
	v0, err := buf.GetString(fldName, 0)
	if err != nil {
		return &ubf.ConversionError{Struct: "transaction", Field: "Name", FieldID: fldName, Err: err}
	}
	v1, err := buf.GetLong(fldID, 0)
	if err != nil {
		return &ubf.ConversionError{Struct: "transaction", Field: "ID", FieldID: fldID, Err: err}
	}
	v2, err := buf.GetDouble(fldAmount, 0)
	if err != nil {
		return &ubf.ConversionError{Struct: "transaction", Field: "Amount", FieldID: fldAmount, Err: err}
	}
	v3, err := buf.GetString(fldStatus, 0)
	if err != nil {
		if !errors.Is(err, ubf.ErrFieldNotFound) {
			return &ubf.ConversionError{Struct: "transaction", Field: "Status", FieldID: fldStatus, Err: err}
		}
		v3 = "pending"
	}
	s.Name = v0
	s.ID = v1
	s.Amount = v2
	s.Status = v3
	return nil
}

func (s *transaction) ToBuffer() (*ubf.Buffer, error) {
	buf, err := ubf.New(ubf.DefaultMappingCapacity)
	if err != nil {
		return nil, err
	}
	if err := s.UpdateBuffer(buf); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

func (s *transaction) UpdateBuffer(buf *ubf.Buffer) error {
	if err := buf.AddString(fldName, s.Name); err != nil {
		return &ubf.ConversionError{Struct: "transaction", Field: "Name", FieldID: fldName, Err: err}
	}
	if err := buf.AddLong(fldID, s.ID); err != nil {
		return &ubf.ConversionError{Struct: "transaction", Field: "ID", FieldID: fldID, Err: err}
	}
	if err := buf.AddDouble(fldAmount, s.Amount); err != nil {
		return &ubf.ConversionError{Struct: "transaction", Field: "Amount", FieldID: fldAmount, Err: err}
	}
	if err := buf.AddString(fldStatus, s.Status); err != nil {
		return &ubf.ConversionError{Struct: "transaction", Field: "Status", FieldID: fldStatus, Err: err}
	}
	return nil
}

// account exercises the boolean presence encoding and a nested mapped
// struct sharing the parent's buffer.
type accountAddress struct {
	Street string `ubf:"1031"`
	City   string `ubf:"1032"`
}

func (s *accountAddress) FromBuffer(buf *ubf.Buffer) error {
	v0, err := buf.GetString(fldStreet, 0)
	if err != nil {
		return &ubf.ConversionError{Struct: "accountAddress", Field: "Street", FieldID: fldStreet, Err: err}
	}
	v1, err := buf.GetString(fldCity, 0)
	if err != nil {
		return &ubf.ConversionError{Struct: "accountAddress", Field: "City", FieldID: fldCity, Err: err}
	}
	s.Street = v0
	s.City = v1
	return nil
}

func (s *accountAddress) ToBuffer() (*ubf.Buffer, error) {
	buf, err := ubf.New(ubf.DefaultMappingCapacity)
	if err != nil {
		return nil, err
	}
	if err := s.UpdateBuffer(buf); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

func (s *accountAddress) UpdateBuffer(buf *ubf.Buffer) error {
	if err := buf.AddString(fldStreet, s.Street); err != nil {
		return &ubf.ConversionError{Struct: "accountAddress", Field: "Street", FieldID: fldStreet, Err: err}
	}
	if err := buf.AddString(fldCity, s.City); err != nil {
		return &ubf.ConversionError{Struct: "accountAddress", Field: "City", FieldID: fldCity, Err: err}
	}
	return nil
}

type account struct {
	Name    string         `ubf:"1002"`
	Active  bool           `ubf:"1005"`
	Address accountAddress `ubf:"nested"`
}

func (s *account) FromBuffer(buf *ubf.Buffer) error {
	v0, err := buf.GetString(fldName, 0)
	if err != nil {
		return &ubf.ConversionError{Struct: "account", Field: "Name", FieldID: fldName, Err: err}
	}
	v1 := buf.Has(fldFlag, 0)
	var v2 accountAddress
	if err := v2.FromBuffer(buf); err != nil {
		return err
	}
	s.Name = v0
	s.Active = v1
	s.Address = v2
	return nil
}

func (s *account) ToBuffer() (*ubf.Buffer, error) {
	buf, err := ubf.New(ubf.DefaultMappingCapacity)
	if err != nil {
		return nil, err
	}
	if err := s.UpdateBuffer(buf); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

func (s *account) UpdateBuffer(buf *ubf.Buffer) error {
	if err := buf.AddString(fldName, s.Name); err != nil {
		return &ubf.ConversionError{Struct: "account", Field: "Name", FieldID: fldName, Err: err}
	}
	if s.Active {
		if err := buf.AddLong(fldFlag, 1); err != nil {
			return &ubf.ConversionError{Struct: "account", Field: "Active", FieldID: fldFlag, Err: err}
		}
	}
	if err := s.Address.UpdateBuffer(buf); err != nil {
		return err
	}
	return nil
}

func TestMappingRoundTrip(t *testing.T) {
	original := transaction{Name: "Payment", ID: 12345, Amount: 999.99, Status: "completed"}

	buf, err := original.ToBuffer()
	if err != nil {
		t.Fatalf("ToBuffer: %v", err)
	}
	defer buf.Release()

	var restored transaction
	if err := restored.FromBuffer(buf); err != nil {
		t.Fatalf("FromBuffer: %v", err)
	}
	if restored != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", restored, original)
	}
}

func TestMappingDefaultApplied(t *testing.T) {
	buf, err := ubf.New(256)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer buf.Release()

	// Status (1004) deliberately absent.
	if err := buf.AddString(fldName, "Payment"); err != nil {
		t.Fatal(err)
	}
	if err := buf.AddLong(fldID, 12345); err != nil {
		t.Fatal(err)
	}
	if err := buf.AddDouble(fldAmount, 999.99); err != nil {
		t.Fatal(err)
	}

	var restored transaction
	if err := restored.FromBuffer(buf); err != nil {
		t.Fatalf("FromBuffer: %v", err)
	}
	if restored.Status != "pending" {
		t.Errorf("Status = %q, want default %q", restored.Status, "pending")
	}
}

func TestMappingMissingRequiredField(t *testing.T) {
	buf, err := ubf.New(256)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer buf.Release()
	if err := buf.AddString(fldName, "Payment"); err != nil {
		t.Fatal(err)
	}

	restored := transaction{Status: "sentinel"}
	err = restored.FromBuffer(buf)
	if !errors.Is(err, ubf.ErrFieldNotFound) {
		t.Fatalf("got %v, want ErrFieldNotFound", err)
	}

	var conversion *ubf.ConversionError
	if !errors.As(err, &conversion) {
		t.Fatalf("error is %T, want *ubf.ConversionError", err)
	}
	if conversion.Struct != "transaction" || conversion.Field != "ID" || conversion.FieldID != fldID {
		t.Errorf("error context = %s.%s (%s)", conversion.Struct, conversion.Field, conversion.FieldID)
	}

	// All-or-nothing: the receiver is untouched after a failure.
	if restored.Name != "" || restored.Status != "sentinel" {
		t.Errorf("partially populated struct after error: %+v", restored)
	}
}

func TestMappingBooleanPresence(t *testing.T) {
	for _, active := range []bool{true, false} {
		original := account{
			Name:    "Test User",
			Active:  active,
			Address: accountAddress{Street: "123 Main St", City: "New York"},
		}

		buf, err := original.ToBuffer()
		if err != nil {
			t.Fatalf("ToBuffer: %v", err)
		}

		if buf.Has(fldFlag, 0) != active {
			t.Errorf("active=%v: flag presence = %v", active, buf.Has(fldFlag, 0))
		}

		var restored account
		if err := restored.FromBuffer(buf); err != nil {
			t.Fatalf("FromBuffer: %v", err)
		}
		if restored != original {
			t.Errorf("roundtrip mismatch: got %+v, want %+v", restored, original)
		}
		buf.Release()
	}
}

func TestMappingNestedSharesNamespace(t *testing.T) {
	original := account{
		Name:    "Test User",
		Active:  true,
		Address: accountAddress{Street: "123 Main St", City: "New York"},
	}

	buf, err := original.ToBuffer()
	if err != nil {
		t.Fatalf("ToBuffer: %v", err)
	}
	defer buf.Release()

	// The nested struct's fields live directly in the parent buffer.
	street, err := buf.GetString(fldStreet, 0)
	if err != nil || street != "123 Main St" {
		t.Errorf("nested field in parent buffer: %q, %v", street, err)
	}

	// A mapped struct survives the wire like any other buffer.
	restored, err := ubf.FromBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	defer restored.Release()

	var decoded account
	if err := decoded.FromBuffer(restored); err != nil {
		t.Fatalf("FromBuffer after wire: %v", err)
	}
	if decoded != original {
		t.Errorf("wire roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}
