// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

// fdgen compiles field dictionary files into Go constant declarations
// so application code can reference fields by name with no runtime
// table lookup:
//
//	fdgen --package fields --output fields/fields.go customer.fd orders.jsonc
//
// Each input file becomes one const block in the output. Names must be
// unique across all inputs. The generated identifiers carry their type
// tag, so a constant is usable directly with the buffer accessors.
// With --table, the output additionally carries a Table constructor
// that rebuilds the merged dictionary for runtime name resolution
// (printing, dumping).
package main

import (
	"fmt"
	"go/format"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/openubf/ubf/lib/fieldtab"
	"github.com/openubf/ubf/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		pkgName   string
		output    string
		withTable bool
		verbose   bool
	)

	flagSet := pflag.NewFlagSet("fdgen", pflag.ContinueOnError)
	flagSet.StringVar(&pkgName, "package", "fields", "package name for the generated file")
	flagSet.StringVar(&output, "output", "", "output file (default stdout)")
	flagSet.BoolVar(&withTable, "table", false, "also emit a Table constructor for runtime name resolution")
	flagSet.BoolVar(&verbose, "verbose", false, "log each compiled dictionary")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("fdgen")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flagSet.NArg() == 0 {
		return fmt.Errorf("no dictionary files given")
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	code, err := compile(pkgName, flagSet.Args(), withTable, logger)
	if err != nil {
		return err
	}

	if output == "" {
		_, err := os.Stdout.Write(code)
		return err
	}
	if err := os.WriteFile(output, code, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	logger.Info("wrote field constants", "file", output)
	return nil
}

// compile loads every dictionary and renders one generated source
// file. All inputs are merged into a single table first so duplicate
// names or identifiers across files are rejected.
func compile(pkgName string, paths []string, withTable bool, logger *slog.Logger) ([]byte, error) {
	var merged []fieldtab.Field
	tables := make([]*fieldtab.Table, 0, len(paths))
	for _, path := range paths {
		table, err := fieldtab.LoadFile(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("compiled dictionary", "file", path, "fields", table.Len())
		tables = append(tables, table)
		merged = append(merged, table.Fields()...)
	}
	if _, err := fieldtab.New(merged); err != nil {
		return nil, fmt.Errorf("merging dictionaries: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by fdgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkgName)
	if withTable {
		fmt.Fprintf(&b, "import (\n")
		fmt.Fprintf(&b, "\t%q\n", "github.com/openubf/ubf/lib/fieldtab")
		fmt.Fprintf(&b, "\t%q\n", "github.com/openubf/ubf/lib/ubf")
		fmt.Fprintf(&b, ")\n\n")
	} else {
		fmt.Fprintf(&b, "import %q\n\n", "github.com/openubf/ubf/lib/ubf")
	}
	for i, table := range tables {
		fmt.Fprintf(&b, "// Field identifiers from %s.\n", filepath.Base(paths[i]))
		fmt.Fprintf(&b, "const (\n")
		for _, f := range table.Fields() {
			fmt.Fprintf(&b, "\t%s ubf.FieldID = %#010x // %s\n", f.Name, uint32(f.ID), f.ID)
		}
		fmt.Fprintf(&b, ")\n\n")
	}
	if withTable {
		fmt.Fprintf(&b, "// Table returns the merged dictionary for runtime name resolution.\n")
		fmt.Fprintf(&b, "func Table() (*fieldtab.Table, error) {\n")
		fmt.Fprintf(&b, "\treturn fieldtab.New([]fieldtab.Field{\n")
		for _, table := range tables {
			for _, f := range table.Fields() {
				fmt.Fprintf(&b, "\t\t{Name: %q, ID: %s},\n", f.Name, f.Name)
			}
		}
		fmt.Fprintf(&b, "\t})\n")
		fmt.Fprintf(&b, "}\n\n")
	}

	formatted, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}
	return formatted, nil
}
