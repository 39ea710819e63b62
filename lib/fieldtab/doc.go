// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

// Package fieldtab provides the field dictionary consumed by typed
// buffers: the static mapping between a field's symbolic name, its
// numeric identifier, and its primitive type.
//
// A [Table] is immutable once constructed. Buffers never consult it —
// the type tag travels inside every identifier — but tooling does:
// ubfdump resolves identifiers to names when printing, and fdgen
// compiles a dictionary into Go constants so application code refers
// to fields by name at compile time.
//
// Two on-disk dictionary formats are supported:
//
//   - The classic field-table text format ([ParseFD]): one field per
//     line ("NAME relative-number type"), a "*base N" directive that
//     offsets subsequent numbers, "#" comments, and "$" passthrough
//     lines.
//   - JSONC ([ParseJSONC]): a JSON object with optional comments and
//     trailing commas, for dictionaries maintained alongside other
//     authored configuration.
//
// [LoadFile] picks the parser from the file extension.
package fieldtab
