// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package ubf

// Mapper is the interface satisfied by struct types with generated
// buffer mappings (see cmd/ubfgen). The three methods convert between
// the native struct and a buffer's fields:
//
//   - FromBuffer decodes occurrence 0 of each mapped field into the
//     receiver. Decoding is all-or-nothing: on error the receiver is
//     left untouched.
//   - ToBuffer allocates a fresh buffer and writes the struct into it.
//   - UpdateBuffer writes the struct's fields into an existing buffer,
//     appending occurrences.
//
// Nested mapped structs read and write their parent's buffer directly:
// the identifier namespace of a buffer is flat, so two types mapping
// the same identifier for different purposes collide. Keep identifier
// assignments unique across every type that can share a buffer.
//
// Boolean fields are encoded by presence: a true value is written as a
// long 1, a false value is not written at all, and any present
// occurrence reads back as true. An explicit stored false is therefore
// indistinguishable from "never set"; map an integer field where that
// distinction matters.
type Mapper interface {
	FromBuffer(buf *Buffer) error
	ToBuffer() (*Buffer, error)
	UpdateBuffer(buf *Buffer) error
}

// DefaultMappingCapacity is the initial capacity of buffers allocated
// by generated ToBuffer methods. Generous on purpose: the buffer grows
// on demand, the capacity only tunes how soon.
const DefaultMappingCapacity = 2048
