// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

// Package ubf implements a typed, self-describing record buffer: an
// ordered multiset of (field identifier, occurrence) → value entries
// with a stable wire encoding, suitable for carrying structured data
// across a transport that only understands opaque byte vectors.
//
// # Field identifiers
//
// A [FieldID] is a 32-bit value that carries its primitive type in the
// high bits and a sequence number in the low bits (see [MakeFieldID]).
// Identifiers are assigned externally, by a field dictionary compiled
// with fdgen (see lib/fieldtab); the buffer only decodes the embedded
// type tag to pick the right representation. The identifier space of a
// buffer is flat: there is no sub-scoping, and every producer writing
// into the same buffer shares one namespace.
//
// # Occurrences
//
// The same identifier may be stored any number of times. Occurrences
// are array-like: insertion order is preserved, indices are zero-based,
// and occurrence 0 is the conventional slot for single-valued fields.
// Deleting an occurrence shifts later occurrences of that identifier
// down by one.
//
// # Ownership and concurrency
//
// A [Buffer] owns its backing memory exclusively and has no internal
// locking. It is never safe to share one buffer between goroutines;
// hand it over completely (typically as wire bytes via [Buffer.Bytes]
// and [FromBytes]) instead. Independent buffers are safe to use
// concurrently because they share no state. [Buffer.Release] returns
// the backing memory to the allocator; using a released buffer is an
// error, not a crash.
//
// # Errors
//
// Missing fields, type mismatches, and allocation failures are ordinary
// recoverable conditions reported through the error taxonomy in this
// package ([FieldNotFoundError], [TypeError], [AllocationError],
// [ConversionError]). Accessors never panic on misuse; a panic
// indicates a corrupted buffer invariant, which is a bug.
//
// # Struct mapping
//
// The ubfgen tool (cmd/ubfgen) generates [Mapper] implementations for
// annotated struct types, converting between native structs and buffer
// fields without reflection. Values with no per-field mapping can use
// [Marshal] and [Unmarshal], which store a whole-value encoding in the
// reserved [DataField].
package ubf
