// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

// ubfgen generates buffer conversion methods for annotated struct
// types. It is the compile-time mapping mechanism of the repository:
// run under go:generate, it scans a package for struct types marked
// with a "//ubf:generate" comment, reads the `ubf` tag on each field,
// and emits FromBuffer, ToBuffer, and UpdateBuffer methods satisfying
// ubf.Mapper. No reflection is involved at runtime.
//
// Field tags take one of the following forms:
//
//	Name   string  `ubf:"1002"`                 // dictionary number; type tag derived from the Go type
//	Name   string  `ubf:"fields.T_NAME_FLD"`    // constant reference, used verbatim
//	Addr   Address `ubf:"nested"`               // nested mapped struct, shares this buffer
//	Note   string  `ubf:"-"`                    // not mapped
//	Status string  `ubf:"1004,default=pending"` // value applied when the field is absent
//
// Every field of a marked struct must carry a tag; a missing tag is a
// generation error, so unmapped fields cannot slip through silently.
// Bare numbers get their type tag from the native type: string fields
// become string-typed identifiers, integer and boolean fields
// long-typed, floating-point fields double-typed.
//
// Defaults apply on absence during FromBuffer and are supported for
// string, integer, and floating-point fields. Booleans reject
// default= because they are encoded by presence (written as long 1
// only when true); see the ubf.Mapper documentation for the
// information loss this implies.
//
// Usage:
//
//	//go:generate ubfgen --dir . --output ubf_gen.go
//
// An optional YAML config file (--config) carries the same settings
// for builds that prefer configuration over flags; explicit flags win.
package main
