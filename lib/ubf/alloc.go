// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package ubf

// Allocator is the collaborator that owns backing memory for buffers.
// The default implementation allocates from the Go heap; a transport
// runtime that manages its own buffer pools can supply its own.
//
// Allocate and Resize return a slice whose length equals the requested
// capacity. Release returns memory to the allocator; after Release the
// slice must not be used again. Implementations must be safe for
// concurrent use by independent buffers.
type Allocator interface {
	// Allocate obtains a zeroed region of the given capacity. The
	// kind tag names the buffer type being allocated (always
	// [BufferKind] for this package) so pooled allocators can
	// segregate by use.
	Allocate(capacity int, kind string) ([]byte, error)

	// Resize grows or shrinks a previously allocated region,
	// preserving its contents up to min(len(data), capacity).
	Resize(data []byte, capacity int) ([]byte, error)

	// Release returns a region to the allocator.
	Release(data []byte)
}

// BufferKind is the kind tag passed to [Allocator.Allocate] for typed
// record buffers.
const BufferKind = "UBF"

// heapAllocator is the default Allocator backed by the Go heap. It is
// stateless; the garbage collector does the actual reclamation.
type heapAllocator struct{}

func (heapAllocator) Allocate(capacity int, kind string) ([]byte, error) {
	if capacity < 0 {
		return nil, &AllocationError{Op: "allocate: negative capacity"}
	}
	return make([]byte, capacity), nil
}

func (heapAllocator) Resize(data []byte, capacity int) ([]byte, error) {
	if capacity < 0 {
		return nil, &AllocationError{Op: "resize: negative capacity"}
	}
	if capacity <= cap(data) {
		return data[:capacity], nil
	}
	grown := make([]byte, capacity)
	copy(grown, data)
	return grown, nil
}

func (heapAllocator) Release(data []byte) {}

// DefaultAllocator returns the heap-backed allocator used by [New].
func DefaultAllocator() Allocator { return heapAllocator{} }
