// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const ubfImportPath = "github.com/openubf/ubf/lib/ubf"

// emit renders the generated source for the marked structs of pkgName
// and returns it gofmt-formatted.
func emit(pkgName string, structs []structSpec) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by ubfgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkgName)
	writeImports(&b, structs)

	for _, s := range structs {
		writeConsts(&b, s)
		fmt.Fprintf(&b, "var _ ubf.Mapper = (*%s)(nil)\n\n", s.Name)
		writeFromBuffer(&b, s)
		writeToBuffer(&b, s)
		writeUpdateBuffer(&b, s)
	}

	formatted, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}
	return formatted, nil
}

func writeImports(b *strings.Builder, structs []structSpec) {
	needErrors := false
	extra := make(map[string]string)
	for _, s := range structs {
		for _, f := range s.Fields {
			if f.HasDefault {
				needErrors = true
			}
		}
		for qualifier, path := range s.Imports {
			extra[qualifier] = path
		}
	}

	fmt.Fprintf(b, "import (\n")
	if needErrors {
		fmt.Fprintf(b, "\t%q\n\n", "errors")
	}
	paths := []string{ubfImportPath}
	for _, path := range extra {
		if path != ubfImportPath {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintf(b, "\t%q\n", path)
	}
	fmt.Fprintf(b, ")\n\n")
}

// writeConsts declares identifiers for the struct's bare-number field
// references. Constant references are used verbatim and need no
// declaration here.
func writeConsts(b *strings.Builder, s structSpec) {
	var derived []fieldSpec
	for _, f := range s.Fields {
		if f.RefComment != "" {
			derived = append(derived, f)
		}
	}
	if len(derived) == 0 {
		return
	}
	fmt.Fprintf(b, "// Field identifiers for %s.\n", s.Name)
	fmt.Fprintf(b, "const (\n")
	for _, f := range derived {
		fmt.Fprintf(b, "\t%s = %s // %s\n", constName(s, f), f.Ref, f.RefComment)
	}
	fmt.Fprintf(b, ")\n\n")
}

// refExpr is the expression the generated methods use to name a
// field's identifier.
func refExpr(s structSpec, f fieldSpec) string {
	if f.RefComment != "" {
		return constName(s, f)
	}
	return f.Ref
}

func constName(s structSpec, f fieldSpec) string {
	return "fld" + exported(s.Name) + f.Name
}

func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

func writeFromBuffer(b *strings.Builder, s structSpec) {
	fmt.Fprintf(b, "func (s *%s) FromBuffer(buf *ubf.Buffer) error {\n", s.Name)
	for i, f := range s.Fields {
		local := fmt.Sprintf("v%d", i)
		switch f.Kind {
		case kindBool:
			fmt.Fprintf(b, "\t%s := buf.Has(%s, 0)\n", local, refExpr(s, f))
		case kindNested:
			fmt.Fprintf(b, "\tvar %s %s\n", local, f.GoType)
			fmt.Fprintf(b, "\tif err := %s.FromBuffer(buf); err != nil {\n", local)
			fmt.Fprintf(b, "\t\treturn err\n")
			fmt.Fprintf(b, "\t}\n")
		default:
			fmt.Fprintf(b, "\t%s, err := buf.%s(%s, 0)\n", local, getMethod(f.Kind), refExpr(s, f))
			fmt.Fprintf(b, "\tif err != nil {\n")
			if f.HasDefault {
				fmt.Fprintf(b, "\t\tif !errors.Is(err, ubf.ErrFieldNotFound) {\n")
				fmt.Fprintf(b, "\t\t\treturn %s\n", conversionError(s, f))
				fmt.Fprintf(b, "\t\t}\n")
				fmt.Fprintf(b, "\t\t%s = %s\n", local, defaultLiteral(f))
			} else {
				fmt.Fprintf(b, "\t\treturn %s\n", conversionError(s, f))
			}
			fmt.Fprintf(b, "\t}\n")
		}
	}
	for i, f := range s.Fields {
		fmt.Fprintf(b, "\ts.%s = %s\n", f.Name, narrowed(f, fmt.Sprintf("v%d", i)))
	}
	fmt.Fprintf(b, "\treturn nil\n")
	fmt.Fprintf(b, "}\n\n")
}

func writeToBuffer(b *strings.Builder, s structSpec) {
	fmt.Fprintf(b, "func (s *%s) ToBuffer() (*ubf.Buffer, error) {\n", s.Name)
	fmt.Fprintf(b, "\tbuf, err := ubf.New(ubf.DefaultMappingCapacity)\n")
	fmt.Fprintf(b, "\tif err != nil {\n")
	fmt.Fprintf(b, "\t\treturn nil, err\n")
	fmt.Fprintf(b, "\t}\n")
	fmt.Fprintf(b, "\tif err := s.UpdateBuffer(buf); err != nil {\n")
	fmt.Fprintf(b, "\t\tbuf.Release()\n")
	fmt.Fprintf(b, "\t\treturn nil, err\n")
	fmt.Fprintf(b, "\t}\n")
	fmt.Fprintf(b, "\treturn buf, nil\n")
	fmt.Fprintf(b, "}\n\n")
}

func writeUpdateBuffer(b *strings.Builder, s structSpec) {
	fmt.Fprintf(b, "func (s *%s) UpdateBuffer(buf *ubf.Buffer) error {\n", s.Name)
	for _, f := range s.Fields {
		switch f.Kind {
		case kindBool:
			fmt.Fprintf(b, "\tif s.%s {\n", f.Name)
			fmt.Fprintf(b, "\t\tif err := buf.AddLong(%s, 1); err != nil {\n", refExpr(s, f))
			fmt.Fprintf(b, "\t\t\treturn %s\n", conversionError(s, f))
			fmt.Fprintf(b, "\t\t}\n")
			fmt.Fprintf(b, "\t}\n")
		case kindNested:
			fmt.Fprintf(b, "\tif err := s.%s.UpdateBuffer(buf); err != nil {\n", f.Name)
			fmt.Fprintf(b, "\t\treturn err\n")
			fmt.Fprintf(b, "\t}\n")
		default:
			fmt.Fprintf(b, "\tif err := buf.%s(%s, %s); err != nil {\n",
				addMethod(f.Kind), refExpr(s, f), widened(f))
			fmt.Fprintf(b, "\t\treturn %s\n", conversionError(s, f))
			fmt.Fprintf(b, "\t}\n")
		}
	}
	fmt.Fprintf(b, "\treturn nil\n")
	fmt.Fprintf(b, "}\n\n")
}

func conversionError(s structSpec, f fieldSpec) string {
	return fmt.Sprintf("&ubf.ConversionError{Struct: %q, Field: %q, FieldID: %s, Err: err}",
		s.Name, f.Name, refExpr(s, f))
}

func getMethod(kind fieldKind) string {
	switch kind {
	case kindString:
		return "GetString"
	case kindFloat:
		return "GetDouble"
	default:
		return "GetLong"
	}
}

func addMethod(kind fieldKind) string {
	switch kind {
	case kindString:
		return "AddString"
	case kindFloat:
		return "AddDouble"
	default:
		return "AddLong"
	}
}

// narrowed converts an accessor result back to the field's declared
// type on assignment. GetLong yields int64 and GetDouble float64.
func narrowed(f fieldSpec, expr string) string {
	switch {
	case f.Kind == kindInt && f.GoType != "int64":
		return fmt.Sprintf("%s(%s)", f.GoType, expr)
	case f.Kind == kindFloat && f.GoType != "float64":
		return fmt.Sprintf("%s(%s)", f.GoType, expr)
	default:
		return expr
	}
}

// widened is the field value as the accessor's argument type.
func widened(f fieldSpec) string {
	expr := "s." + f.Name
	switch {
	case f.Kind == kindInt && f.GoType != "int64":
		return fmt.Sprintf("int64(%s)", expr)
	case f.Kind == kindFloat && f.GoType != "float64":
		return fmt.Sprintf("float64(%s)", expr)
	default:
		return expr
	}
}

func defaultLiteral(f fieldSpec) string {
	if f.Kind == kindString {
		return strconv.Quote(f.Default)
	}
	return f.Default
}
