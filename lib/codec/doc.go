// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the repository's standard CBOR encoding
// configuration.
//
// The typed buffer (lib/ubf) stores individually mapped fields in its
// own wire format; values without a per-field mapping travel as a
// single whole-value payload in the reserved data field. This package
// supplies the encoding for that payload, and for any other structured
// blob the surrounding system wants to move through a carray field.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items. The same logical value always encodes to identical bytes,
// which keeps buffer payloads comparable across processes. The decoder
// accepts standard CBOR and ignores unknown fields, so readers and
// writers can evolve independently.
//
// Field naming on payload types uses `cbor` struct tags (or `json`
// tags, which fxamacker/cbor reads as a fallback when no cbor tag is
// present). Optional fields are pointer-typed with omitempty so that
// absence survives a round trip.
package codec
