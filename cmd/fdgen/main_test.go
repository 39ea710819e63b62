// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"go/parser"
	"go/token"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/openubf/ubf/lib/testutil"
)

const fdFixture = `*base 1000
# customer fields
T_NAME_FLD    2    string    -    customer name
T_ID_FLD      12   long      -
T_AMOUNT_FLD  21   double    -
`

const jsoncFixture = `{
	// order fields share the customer numbering space
	"base": 2000,
	"fields": [
		{"name": "T_ORDER_FLD", "number": 1, "type": "string"},
	]
}`

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCompile(t *testing.T) {
	dir := t.TempDir()
	fd := testutil.WriteFile(t, dir, "customer.fd", fdFixture)
	jsonc := testutil.WriteFile(t, dir, "orders.jsonc", jsoncFixture)

	code, err := compile("fields", []string{fd, jsonc}, false, discard())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := parser.ParseFile(token.NewFileSet(), "fields.go", code, 0); err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, code)
	}

	for _, want := range []string{
		"// Code generated by fdgen. DO NOT EDIT.",
		"package fields",
		`import "github.com/openubf/ubf/lib/ubf"`,
		"// Field identifiers from customer.fd.",
		"T_NAME_FLD",
		"0x0a0003ea", // string 1002
		"// string:1002",
		"T_ID_FLD",
		"0x020003f4", // long 1012
		"// Field identifiers from orders.jsonc.",
		"T_ORDER_FLD",
		"0x0a0007d1", // string 2001
	} {
		if !strings.Contains(string(code), want) {
			t.Errorf("generated code missing %q\n%s", want, code)
		}
	}
}

func TestCompileWithTable(t *testing.T) {
	dir := t.TempDir()
	fd := testutil.WriteFile(t, dir, "customer.fd", fdFixture)

	code, err := compile("fields", []string{fd}, true, discard())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := parser.ParseFile(token.NewFileSet(), "fields.go", code, 0); err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, code)
	}
	for _, want := range []string{
		`"github.com/openubf/ubf/lib/fieldtab"`,
		"func Table() (*fieldtab.Table, error) {",
		`{Name: "T_NAME_FLD", ID: T_NAME_FLD},`,
	} {
		if !strings.Contains(string(code), want) {
			t.Errorf("generated code missing %q\n%s", want, code)
		}
	}
}

func TestCompileRejectsCrossFileDuplicates(t *testing.T) {
	dir := t.TempDir()
	first := testutil.WriteFile(t, dir, "a.fd", "T_NAME_FLD 2 string\n")
	second := testutil.WriteFile(t, dir, "b.fd", "T_NAME_FLD 3 string\n")

	_, err := compile("fields", []string{first, second}, false, discard())
	if err == nil || !strings.Contains(err.Error(), "merging dictionaries") {
		t.Errorf("error = %v, want duplicate rejection", err)
	}
}

func TestCompileRejectsBadDictionary(t *testing.T) {
	dir := t.TempDir()
	bad := testutil.WriteFile(t, dir, "bad.fd", "T_NAME_FLD 2 decimal\n")

	_, err := compile("fields", []string{bad}, false, discard())
	if err == nil || !strings.Contains(err.Error(), "unknown field type") {
		t.Errorf("error = %v, want unknown type rejection", err)
	}
}
