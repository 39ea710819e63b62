// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

// ubfdump prints the contents of a serialized buffer for debugging:
//
//	ubfdump --table customer.fd trace/request.ubf
//	xxd -p capture.bin | ubfdump --hex
//
// Output is one "name<TAB>value" line per stored value in storage
// order. With --table, field identifiers resolve to their dictionary
// names; without it they print as "type:number". With --cbor, a
// generic codec payload is rendered in RFC 8949 diagnostic notation
// instead of hex.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/openubf/ubf/lib/codec"
	"github.com/openubf/ubf/lib/fieldtab"
	"github.com/openubf/ubf/lib/ubf"
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
		tablePath string
		hexInput  bool
		diagCBOR  bool
	)

	flagSet := pflag.NewFlagSet("ubfdump", pflag.ContinueOnError)
	flagSet.StringVar(&tablePath, "table", "", "field dictionary for symbolic names (.fd, .fld, .json, .jsonc)")
	flagSet.BoolVar(&hexInput, "hex", false, "input is hex text instead of raw bytes")
	flagSet.BoolVar(&diagCBOR, "cbor", false, "render a generic codec payload in diagnostic notation")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("ubfdump")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 1 {
		return fmt.Errorf("at most one input file, got %d", flagSet.NArg())
	}

	input := io.Reader(os.Stdin)
	if flagSet.NArg() == 1 {
		file, err := os.Open(flagSet.Arg(0))
		if err != nil {
			return err
		}
		defer file.Close()
		input = file
	}

	var names ubf.FieldNamer
	if tablePath != "" {
		table, err := fieldtab.LoadFile(tablePath)
		if err != nil {
			return err
		}
		names = table
	}

	data, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if hexInput {
		data, err = decodeHex(data)
		if err != nil {
			return err
		}
	}
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected a serialized buffer")
	}

	buf, err := ubf.FromBytes(data)
	if err != nil {
		return err
	}
	defer buf.Release()

	return dump(os.Stdout, buf, names, diagCBOR)
}

// decodeHex accepts the output of tools like "xxd -p": hex digits with
// arbitrary interleaved whitespace.
func decodeHex(data []byte) ([]byte, error) {
	compact := strings.Join(strings.Fields(string(data)), "")
	decoded, err := hex.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("decoding hex input: %w", err)
	}
	return decoded, nil
}

// dump writes one line per stored value. It follows the buffer's own
// Print rendering except that the generic codec payload can be
// expanded into diagnostic notation.
func dump(w io.Writer, buf *ubf.Buffer, names ubf.FieldNamer, diagCBOR bool) error {
	if !diagCBOR || !ubf.IsGeneric(buf) {
		return buf.Print(w, names)
	}

	it := buf.Iterator()
	for {
		pos, ok := it.Next()
		if !ok {
			return nil
		}
		label := pos.Field.String()
		if names != nil {
			if resolved, err := names.Name(pos.Field); err == nil {
				label = resolved
			}
		}
		var rendered string
		switch {
		case pos.Field == ubf.DataField:
			raw, err := buf.GetBytes(pos.Field, pos.Occurrence)
			if err != nil {
				return err
			}
			rendered, err = codec.Diagnose(raw)
			if err != nil {
				return fmt.Errorf("diagnosing codec payload: %w", err)
			}
		case pos.Field.Type() == ubf.TypeCarray:
			raw, err := buf.GetBytes(pos.Field, pos.Occurrence)
			if err != nil {
				return err
			}
			rendered = fmt.Sprintf("%x", raw)
		default:
			value, err := buf.GetString(pos.Field, pos.Occurrence)
			if err != nil {
				return err
			}
			rendered = value
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", label, rendered); err != nil {
			return err
		}
	}
}
