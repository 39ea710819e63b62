// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/openubf/ubf/lib/ubf"
)

// generateMarker on a type declaration's comment opts the struct into
// generation.
const generateMarker = "ubf:generate"

// fieldKind classifies a mapped field by its native Go type, which
// selects the accessor family the generated code calls.
type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindFloat
	kindBool
	kindNested
)

// fieldSpec is one mapped struct field.
type fieldSpec struct {
	Name       string    // Go field name
	GoType     string    // native type spelling, for narrowing casts
	Kind       fieldKind
	Ref        string // identifier expression emitted into the code
	RefComment string // "string 1002" annotation for derived ids, "" for verbatim refs
	Default    string // raw default text
	HasDefault bool
}

// structSpec is one marked struct.
type structSpec struct {
	Name    string
	Fields  []fieldSpec
	Imports map[string]string // qualifier → import path needed by verbatim refs
	pos     token.Pos
}

var (
	numberPattern    = regexp.MustCompile(`^[0-9]+$`)
	identPattern     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	qualifiedPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\.[A-Za-z_][A-Za-z0-9_]*$`)
)

// scanPackage parses the non-test Go files of dir (skipping a previous
// generator output file) and returns the package name and the marked
// structs in source order.
func scanPackage(dir, output, tagKey string) (string, []structSpec, error) {
	fset := token.NewFileSet()
	packages, err := parser.ParseDir(fset, dir, func(info fs.FileInfo) bool {
		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			name != output
	}, parser.ParseComments)
	if err != nil {
		return "", nil, fmt.Errorf("parsing %s: %w", dir, err)
	}

	var pkg *ast.Package
	var pkgName string
	for name, parsed := range packages {
		if strings.HasSuffix(name, "_test") {
			continue
		}
		if pkg != nil {
			return "", nil, fmt.Errorf("%s contains multiple packages (%s, %s)", dir, pkgName, name)
		}
		pkg, pkgName = parsed, name
	}
	if pkg == nil {
		return "", nil, fmt.Errorf("no Go package found in %s", dir)
	}

	var structs []structSpec
	for _, file := range pkg.Files {
		imports := fileImports(file)
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}
			for _, spec := range genDecl.Specs {
				typeSpec := spec.(*ast.TypeSpec)
				if !marked(genDecl, typeSpec) {
					continue
				}
				structType, ok := typeSpec.Type.(*ast.StructType)
				if !ok {
					return "", nil, fmt.Errorf("%s: %s marker on non-struct type", typeSpec.Name.Name, generateMarker)
				}
				parsed, err := parseStruct(typeSpec.Name.Name, structType, imports, tagKey)
				if err != nil {
					return "", nil, err
				}
				parsed.pos = typeSpec.Pos()
				structs = append(structs, parsed)
			}
		}
	}

	// Map iteration over pkg.Files is unordered; restore source order
	// so output is deterministic.
	sort.Slice(structs, func(i, j int) bool { return structs[i].pos < structs[j].pos })
	return pkgName, structs, nil
}

func marked(genDecl *ast.GenDecl, typeSpec *ast.TypeSpec) bool {
	for _, group := range []*ast.CommentGroup{genDecl.Doc, typeSpec.Doc, typeSpec.Comment} {
		if group == nil {
			continue
		}
		for _, comment := range group.List {
			if strings.Contains(comment.Text, generateMarker) {
				return true
			}
		}
	}
	return false
}

// fileImports maps the qualifier of each import in file to its path.
func fileImports(file *ast.File) map[string]string {
	imports := make(map[string]string)
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		qualifier := path[strings.LastIndex(path, "/")+1:]
		if spec.Name != nil {
			qualifier = spec.Name.Name
		}
		imports[qualifier] = path
	}
	return imports
}

func parseStruct(name string, structType *ast.StructType, imports map[string]string, tagKey string) (structSpec, error) {
	spec := structSpec{Name: name, Imports: make(map[string]string)}
	for _, field := range structType.Fields.List {
		if len(field.Names) == 0 {
			return spec, fmt.Errorf("%s: embedded fields are not mappable", name)
		}
		var tag string
		if field.Tag != nil {
			unquoted, err := strconv.Unquote(field.Tag.Value)
			if err != nil {
				return spec, fmt.Errorf("%s: malformed struct tag %s", name, field.Tag.Value)
			}
			tag = reflect.StructTag(unquoted).Get(tagKey)
		}
		for _, fieldName := range field.Names {
			parsed, skip, err := parseField(name, fieldName.Name, field.Type, tag, imports, &spec)
			if err != nil {
				return spec, err
			}
			if !skip {
				spec.Fields = append(spec.Fields, parsed)
			}
		}
	}
	if len(spec.Fields) == 0 {
		return spec, fmt.Errorf("%s: no mapped fields", name)
	}
	return spec, nil
}

func parseField(structName, fieldName string, typeExpr ast.Expr, tag string, imports map[string]string, spec *structSpec) (fieldSpec, bool, error) {
	fail := func(format string, args ...any) (fieldSpec, bool, error) {
		return fieldSpec{}, false, fmt.Errorf("%s.%s: %s", structName, fieldName, fmt.Sprintf(format, args...))
	}

	if tag == "" {
		return fail("missing ubf tag (use `ubf:\"-\"` to leave a field unmapped)")
	}
	if tag == "-" {
		return fieldSpec{}, true, nil
	}

	ref, options, _ := strings.Cut(tag, ",")
	parsed := fieldSpec{Name: fieldName}

	if options != "" {
		key, value, found := strings.Cut(options, "=")
		if !found || key != "default" {
			return fail("unknown tag option %q", options)
		}
		parsed.Default = value
		parsed.HasDefault = true
	}

	kind, goType, qualifier, err := classifyType(typeExpr)
	if err != nil {
		return fail("%v", err)
	}
	parsed.Kind = kind
	parsed.GoType = goType

	if kind == kindNested {
		if ref != "nested" {
			return fail("nested struct fields must be tagged `ubf:\"nested\"`, got %q", ref)
		}
		if parsed.HasDefault {
			return fail("nested struct fields cannot carry a default")
		}
		if qualifier != "" {
			path, known := imports[qualifier]
			if !known {
				return fail("nested type %s refers to unimported package %q", goType, qualifier)
			}
			spec.Imports[qualifier] = path
		}
		return parsed, false, nil
	}

	if kind == kindBool && parsed.HasDefault {
		return fail("boolean fields are presence-encoded and cannot carry a default")
	}

	switch {
	case numberPattern.MatchString(ref):
		number, err := strconv.ParseUint(ref, 10, 32)
		if err != nil {
			return fail("field number %q: %v", ref, err)
		}
		id := ubf.MakeFieldID(derivedType(kind), uint32(number))
		if id == ubf.BadFieldID {
			return fail("field number %d out of range", number)
		}
		parsed.Ref = fmt.Sprintf("ubf.FieldID(%#010x)", uint32(id))
		parsed.RefComment = fmt.Sprintf("%s %d", derivedType(kind), number)
	case identPattern.MatchString(ref):
		parsed.Ref = ref
	case qualifiedPattern.MatchString(ref):
		qualifier, _, _ := strings.Cut(ref, ".")
		path, known := imports[qualifier]
		if !known {
			return fail("field reference %s refers to unimported package %q", ref, qualifier)
		}
		spec.Imports[qualifier] = path
		parsed.Ref = ref
	default:
		return fail("field reference %q is neither a number nor a constant", ref)
	}

	if parsed.HasDefault {
		switch kind {
		case kindInt:
			if _, err := strconv.ParseInt(parsed.Default, 10, 64); err != nil {
				return fail("default %q is not an integer", parsed.Default)
			}
		case kindFloat:
			if _, err := strconv.ParseFloat(parsed.Default, 64); err != nil {
				return fail("default %q is not a number", parsed.Default)
			}
		}
	}
	return parsed, false, nil
}

// derivedType picks the identifier type tag for a bare-number
// reference from the field's native kind. Booleans use long because
// presence encoding writes a long 1.
func derivedType(kind fieldKind) ubf.Type {
	switch kind {
	case kindString:
		return ubf.TypeString
	case kindFloat:
		return ubf.TypeDouble
	default:
		return ubf.TypeLong
	}
}

// classifyType maps an AST type expression to a field kind. Only named
// types are accepted: scalars map to accessor families, anything else
// is assumed to be a nested mapped struct. Composite types (slices,
// maps, pointers) have no field mapping; use the generic codec for
// those payloads.
func classifyType(expr ast.Expr) (fieldKind, string, string, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		switch t.Name {
		case "string":
			return kindString, t.Name, "", nil
		case "int", "int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "rune", "byte":
			return kindInt, t.Name, "", nil
		case "float32", "float64":
			return kindFloat, t.Name, "", nil
		case "bool":
			return kindBool, t.Name, "", nil
		case "uint", "uint64", "uintptr":
			return 0, "", "", fmt.Errorf("type %s cannot round-trip through a long field", t.Name)
		}
		return kindNested, t.Name, "", nil
	case *ast.SelectorExpr:
		qualifier, ok := t.X.(*ast.Ident)
		if !ok {
			return 0, "", "", fmt.Errorf("unsupported field type")
		}
		return kindNested, qualifier.Name + "." + t.Sel.Name, qualifier.Name, nil
	default:
		return 0, "", "", fmt.Errorf("unsupported field type (composite types go through the generic codec)")
	}
}
