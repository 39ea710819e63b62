// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package fieldtab

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/openubf/ubf/lib/ubf"
)

// typeByName maps dictionary type spellings to type tags.
var typeByName = map[string]ubf.Type{
	"short":  ubf.TypeShort,
	"long":   ubf.TypeLong,
	"char":   ubf.TypeChar,
	"float":  ubf.TypeFloat,
	"double": ubf.TypeDouble,
	"string": ubf.TypeString,
	"carray": ubf.TypeCarray,
}

// ParseFD reads the classic field-table text format:
//
//	*base 1000
//	# transaction fields
//	T_NAME_FLD    2    string    -    customer name
//	T_ID_FLD      12   long      -
//
// The first three columns (name, number relative to the current base,
// type) are significant; anything after the type is a comment. Lines
// starting with "#" are comments and lines starting with "$" are
// passthrough directives for other generators; both are skipped.
func ParseFD(r io.Reader) (*Table, error) {
	var fields []Field
	base := uint32(0)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "$") {
			continue
		}
		columns := strings.Fields(line)
		if columns[0] == "*base" {
			if len(columns) < 2 {
				return nil, fmt.Errorf("line %d: *base requires a number", lineNo)
			}
			parsed, err := strconv.ParseUint(columns[1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: *base %q: %w", lineNo, columns[1], err)
			}
			base = uint32(parsed)
			continue
		}
		if len(columns) < 3 {
			return nil, fmt.Errorf("line %d: want NAME NUMBER TYPE, got %q", lineNo, line)
		}
		number, err := strconv.ParseUint(columns[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: field number %q: %w", lineNo, columns[1], err)
		}
		fieldType, ok := typeByName[columns[2]]
		if !ok {
			return nil, fmt.Errorf("line %d: unknown field type %q", lineNo, columns[2])
		}
		id := ubf.MakeFieldID(fieldType, base+uint32(number))
		if id == ubf.BadFieldID {
			return nil, fmt.Errorf("line %d: field number %d out of range", lineNo, base+uint32(number))
		}
		fields = append(fields, Field{Name: columns[0], ID: id})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading field table: %w", err)
	}
	return New(fields)
}

// jsoncDictionary is the authored JSONC dictionary shape.
type jsoncDictionary struct {
	Base   uint32 `json:"base"`
	Fields []struct {
		Name   string `json:"name"`
		Number uint32 `json:"number"`
		Type   string `json:"type"`
	} `json:"fields"`
}

// ParseJSONC reads a dictionary authored as JSONC (JSON extended with
// comments and trailing commas):
//
//	{
//	    "base": 1000,
//	    "fields": [
//	        {"name": "T_NAME_FLD", "number": 2, "type": "string"},
//	    ]
//	}
//
// Field numbers are relative to the optional base.
func ParseJSONC(data []byte) (*Table, error) {
	var dict jsoncDictionary
	if err := json.Unmarshal(jsonc.ToJSON(data), &dict); err != nil {
		return nil, fmt.Errorf("parsing dictionary: %w", err)
	}
	fields := make([]Field, 0, len(dict.Fields))
	for _, entry := range dict.Fields {
		fieldType, ok := typeByName[entry.Type]
		if !ok {
			return nil, fmt.Errorf("field %s: unknown type %q", entry.Name, entry.Type)
		}
		id := ubf.MakeFieldID(fieldType, dict.Base+entry.Number)
		if id == ubf.BadFieldID {
			return nil, fmt.Errorf("field %s: number %d out of range", entry.Name, dict.Base+entry.Number)
		}
		fields = append(fields, Field{Name: entry.Name, ID: id})
	}
	return New(fields)
}

// LoadFile reads a dictionary file, picking the parser from the
// extension: .fd (and .fld) for the text format, .json and .jsonc for
// the JSONC format.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	switch ext := filepath.Ext(path); ext {
	case ".fd", ".fld":
		table, err := ParseFD(strings.NewReader(string(data)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return table, nil
	case ".json", ".jsonc":
		table, err := ParseJSONC(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return table, nil
	default:
		return nil, fmt.Errorf("%s: unsupported dictionary extension %q", path, ext)
	}
}
