// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package fieldtab

import (
	"errors"
	"strings"
	"testing"

	"github.com/openubf/ubf/lib/testutil"
	"github.com/openubf/ubf/lib/ubf"
)

func TestTableLookups(t *testing.T) {
	nameID := ubf.MakeFieldID(ubf.TypeString, 1002)
	countID := ubf.MakeFieldID(ubf.TypeLong, 1007)
	table, err := New([]Field{
		{Name: "T_NAME_FLD", ID: nameID},
		{Name: "T_COUNT_FLD", ID: countID},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	id, err := table.ID("T_NAME_FLD")
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if id != nameID {
		t.Errorf("ID(T_NAME_FLD) = %s, want %s", id, nameID)
	}

	name, err := table.Name(countID)
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name != "T_COUNT_FLD" {
		t.Errorf("Name(%s) = %q, want T_COUNT_FLD", countID, name)
	}

	fieldType, err := table.Type(nameID)
	if err != nil {
		t.Fatalf("Type: %v", err)
	}
	if fieldType != ubf.TypeString {
		t.Errorf("Type(%s) = %s, want string", nameID, fieldType)
	}
}

func TestTableUnknownLookups(t *testing.T) {
	table, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := table.ID("NOPE"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("ID miss: got %v, want ErrUnknownField", err)
	}
	if _, err := table.Name(ubf.MakeFieldID(ubf.TypeLong, 9)); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Name miss: got %v, want ErrUnknownField", err)
	}
	if _, err := table.Type(ubf.MakeFieldID(ubf.TypeLong, 9)); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Type miss: got %v, want ErrUnknownField", err)
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	a := ubf.MakeFieldID(ubf.TypeString, 1)
	b := ubf.MakeFieldID(ubf.TypeString, 2)

	if _, err := New([]Field{{Name: "X", ID: a}, {Name: "X", ID: b}}); err == nil {
		t.Error("duplicate name accepted")
	}
	if _, err := New([]Field{{Name: "X", ID: a}, {Name: "Y", ID: a}}); err == nil {
		t.Error("duplicate id accepted")
	}
	if _, err := New([]Field{{Name: "", ID: a}}); err == nil {
		t.Error("empty name accepted")
	}
	if _, err := New([]Field{{Name: "X", ID: ubf.BadFieldID}}); err == nil {
		t.Error("invalid id accepted")
	}
}

const fdFixture = `# transaction dictionary
$/* passthrough for other generators */
*base 1000
T_NAME_FLD      2       string  -       customer name
T_STATUS_FLD    4       string  -
T_ID_FLD        12      long    -
T_PRICE_FLD     21      double  -
`

func TestParseFD(t *testing.T) {
	table, err := ParseFD(strings.NewReader(fdFixture))
	if err != nil {
		t.Fatalf("ParseFD: %v", err)
	}
	if table.Len() != 4 {
		t.Fatalf("parsed %d fields, want 4", table.Len())
	}

	id, err := table.ID("T_NAME_FLD")
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if want := ubf.MakeFieldID(ubf.TypeString, 1002); id != want {
		t.Errorf("T_NAME_FLD = %s, want %s (base applied)", id, want)
	}

	id, err = table.ID("T_PRICE_FLD")
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if id.Type() != ubf.TypeDouble || id.Number() != 1021 {
		t.Errorf("T_PRICE_FLD = %s, want double:1021", id)
	}
}

func TestParseFDErrors(t *testing.T) {
	cases := map[string]string{
		"missing columns": "T_NAME_FLD 2\n",
		"bad number":      "T_NAME_FLD two string\n",
		"bad type":        "T_NAME_FLD 2 blob\n",
		"bare base":       "*base\n",
	}
	for label, source := range cases {
		if _, err := ParseFD(strings.NewReader(source)); err == nil {
			t.Errorf("%s: parse accepted %q", label, source)
		}
	}
}

const jsoncFixture = `{
    // transaction dictionary
    "base": 1000,
    "fields": [
        {"name": "T_NAME_FLD", "number": 2, "type": "string"},
        {"name": "T_ID_FLD", "number": 12, "type": "long"},
    ]
}`

func TestParseJSONC(t *testing.T) {
	table, err := ParseJSONC([]byte(jsoncFixture))
	if err != nil {
		t.Fatalf("ParseJSONC: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("parsed %d fields, want 2", table.Len())
	}
	id, err := table.ID("T_ID_FLD")
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if want := ubf.MakeFieldID(ubf.TypeLong, 1012); id != want {
		t.Errorf("T_ID_FLD = %s, want %s", id, want)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	fdPath := testutil.WriteFile(t, dir, "fields.fd", fdFixture)
	table, err := LoadFile(fdPath)
	if err != nil {
		t.Fatalf("LoadFile(.fd): %v", err)
	}
	if table.Len() != 4 {
		t.Errorf("fd table has %d fields, want 4", table.Len())
	}

	jsoncPath := testutil.WriteFile(t, dir, "fields.jsonc", jsoncFixture)
	table, err = LoadFile(jsoncPath)
	if err != nil {
		t.Fatalf("LoadFile(.jsonc): %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("jsonc table has %d fields, want 2", table.Len())
	}

	if _, err := LoadFile(testutil.WriteFile(t, dir, "fields.txt", "")); err == nil {
		t.Error("unsupported extension accepted")
	}
	if _, err := LoadFile(dir + "/does-not-exist.fd"); err == nil {
		t.Error("missing file accepted")
	}
}

func TestFieldsSorted(t *testing.T) {
	table, err := ParseFD(strings.NewReader(fdFixture))
	if err != nil {
		t.Fatalf("ParseFD: %v", err)
	}
	fields := table.Fields()
	for i := 1; i < len(fields); i++ {
		if fields[i-1].ID >= fields[i].ID {
			t.Errorf("Fields() not sorted: %s before %s", fields[i-1].ID, fields[i].ID)
		}
	}
}
