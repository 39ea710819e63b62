// Copyright 2026 The OpenUBF Authors
// SPDX-License-Identifier: Apache-2.0

package ubf

import (
	"encoding/binary"
	"fmt"
)

// Wire layout, all little-endian:
//
//	[0:4)   magic "UBF1"
//	[4:8)   format version
//	[8:12)  capacity (total size of the region, header included)
//	[12:16) used (bytes occupied by header + entries)
//	[16:)   entries: field id uint32, value length uint32, value bytes
//
// Entries are kept sorted by field identifier; occurrences of one
// identifier stay in insertion order. The encoding of two buffers with
// identical contents built through different call sequences is not
// guaranteed byte-identical (grow history affects capacity); compare
// buffers through the accessor API, not by raw bytes.
const (
	wireMagic   = 0x31464255 // "UBF1"
	wireVersion = 1

	headerSize    = 16
	entryOverhead = 8
)

// Buffer is a growable, self-describing record store. The zero value
// is not usable; construct with [New], [NewWith], or [FromBytes].
//
// A buffer is exclusively owned by one caller at a time and performs
// no internal locking. See the package documentation for the ownership
// and error model.
type Buffer struct {
	alloc Allocator
	data  []byte // backing region, len(data) == Size()
	used  int    // header + entries, <= len(data)
}

// New allocates a fresh, empty buffer from the default heap allocator.
// The capacity is advisory: the buffer grows on demand during Add and
// Change calls.
func New(capacity int) (*Buffer, error) {
	return NewWith(DefaultAllocator(), capacity)
}

// NewWith allocates a fresh, empty buffer from the given allocator.
func NewWith(alloc Allocator, capacity int) (*Buffer, error) {
	if capacity < headerSize {
		capacity = headerSize
	}
	data, err := alloc.Allocate(capacity, BufferKind)
	if err != nil {
		return nil, &AllocationError{Op: "allocate buffer", Cause: err}
	}
	b := &Buffer{alloc: alloc, data: data, used: headerSize}
	binary.LittleEndian.PutUint32(b.data[0:4], wireMagic)
	binary.LittleEndian.PutUint32(b.data[4:8], wireVersion)
	b.syncHeader()
	return b, nil
}

// FromBytes reconstructs a buffer from its wire encoding, as produced
// by [Buffer.Bytes] on the sending side. The input is validated
// structurally (header, entry framing, identifier ordering, value
// widths of fixed-width types); malformed input is a [TypeError],
// allocation failure an [AllocationError]. The header's capacity is
// advisory: the reconstructed buffer never allocates more than the
// input length and grows on demand afterwards.
func FromBytes(data []byte) (*Buffer, error) {
	return FromBytesWith(DefaultAllocator(), data)
}

// FromBytesWith is [FromBytes] with an explicit allocator.
func FromBytesWith(alloc Allocator, data []byte) (*Buffer, error) {
	if len(data) < headerSize {
		return nil, wireError("truncated header (%d bytes)", len(data))
	}
	if binary.LittleEndian.Uint32(data[0:4]) != wireMagic {
		return nil, wireError("bad magic %#x", binary.LittleEndian.Uint32(data[0:4]))
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != wireVersion {
		return nil, wireError("unsupported format version %d", v)
	}
	capacity := int(binary.LittleEndian.Uint32(data[8:12]))
	used := int(binary.LittleEndian.Uint32(data[12:16]))
	if used < headerSize || used > len(data) || used > capacity {
		return nil, wireError("used count %d out of range (have %d bytes, capacity %d)",
			used, len(data), capacity)
	}

	// Verify entry framing before taking ownership: every entry must
	// lie fully inside the used region, identifiers must be valid and
	// sorted, and the last entry must end exactly at the used mark.
	previous := BadFieldID
	for off := headerSize; off < used; {
		if used-off < entryOverhead {
			return nil, wireError("truncated entry at offset %d", off)
		}
		id := FieldID(binary.LittleEndian.Uint32(data[off : off+4]))
		length := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		if !id.Valid() {
			return nil, wireError("invalid field id %#x at offset %d", uint32(id), off)
		}
		if id < previous {
			return nil, wireError("field %s out of order at offset %d", id, off)
		}
		if length < 0 || used-off-entryOverhead < length {
			return nil, wireError("entry for field %s overruns used region", id)
		}
		if want, fixed := wireWidth(id.Type()); fixed && length != want {
			return nil, wireError("field %s carries %d value bytes, want %d", id, length, want)
		}
		previous = id
		off += entryOverhead + length
	}

	// The claimed capacity is advisory and untrusted: a small input
	// must not be able to demand a huge allocation. Allocate only what
	// the input itself justifies; the buffer grows on demand.
	if capacity > len(data) {
		capacity = len(data)
	}

	region, err := alloc.Allocate(capacity, BufferKind)
	if err != nil {
		return nil, &AllocationError{Op: "allocate buffer", Cause: err}
	}
	copy(region, data[:used])
	b := &Buffer{alloc: alloc, data: region, used: used}
	b.syncHeader()
	return b, nil
}

// Bytes returns the buffer's exact wire encoding: the used prefix of
// the backing region. The slice aliases the buffer's memory and is
// valid only until the next mutating call or Release; copy it if the
// buffer outlives the handoff.
func (b *Buffer) Bytes() []byte {
	if b.data == nil {
		return nil
	}
	return b.data[:b.used]
}

// Used returns the number of bytes occupied by encoded fields plus the
// header.
func (b *Buffer) Used() int { return b.used }

// Unused returns the remaining free capacity.
func (b *Buffer) Unused() int { return len(b.data) - b.used }

// Size returns the total capacity of the backing region. The invariant
// Used()+Unused() == Size() holds at all times.
func (b *Buffer) Size() int { return len(b.data) }

// Release returns the backing memory to the allocator. Safe to call
// more than once; only the first call releases. Any accessor called
// after Release reports an [AllocationError].
func (b *Buffer) Release() {
	if b.data == nil {
		return
	}
	b.alloc.Release(b.data)
	b.data = nil
	b.used = 0
}

func (b *Buffer) String() string {
	if b.data == nil {
		return "ubf.Buffer(released)"
	}
	return fmt.Sprintf("ubf.Buffer(size=%d used=%d unused=%d)", b.Size(), b.Used(), b.Unused())
}

// live guards every accessor against use after Release.
func (b *Buffer) live(op string) error {
	if b.data == nil {
		return &AllocationError{Op: op + ": buffer used after release"}
	}
	return nil
}

// syncHeader mirrors the in-memory counters into the wire header so
// Bytes() is always current. A used count past the region end means a
// corrupted buffer invariant and is treated as a bug, not an error.
func (b *Buffer) syncHeader() {
	if b.used < headerSize || b.used > len(b.data) {
		panic(fmt.Sprintf("ubf: buffer invariant violated: used=%d size=%d", b.used, len(b.data)))
	}
	binary.LittleEndian.PutUint32(b.data[8:12], uint32(len(b.data)))
	binary.LittleEndian.PutUint32(b.data[12:16], uint32(b.used))
}

// grow ensures room for need more bytes, resizing through the
// allocator. Doubling keeps repeated adds amortized.
func (b *Buffer) grow(need int) error {
	if b.used+need <= len(b.data) {
		return nil
	}
	capacity := 2 * len(b.data)
	if capacity < b.used+need {
		capacity = b.used + need
	}
	region, err := b.alloc.Resize(b.data, capacity)
	if err != nil {
		return &AllocationError{Op: fmt.Sprintf("grow buffer to %d bytes", capacity), Cause: err}
	}
	b.data = region
	b.syncHeader()
	return nil
}

// entryAt decodes the entry header at off. Callers guarantee off is an
// entry boundary inside the used region.
func (b *Buffer) entryAt(off int) (id FieldID, length int) {
	id = FieldID(binary.LittleEndian.Uint32(b.data[off : off+4]))
	length = int(binary.LittleEndian.Uint32(b.data[off+4 : off+8]))
	return id, length
}

// find locates the entry for (id, occ). It returns the entry offset
// and value length.
func (b *Buffer) find(id FieldID, occ int) (off int, length int, found bool) {
	if occ < 0 {
		return 0, 0, false
	}
	seen := 0
	for off = headerSize; off < b.used; {
		entryID, entryLen := b.entryAt(off)
		if entryID > id {
			break
		}
		if entryID == id {
			if seen == occ {
				return off, entryLen, true
			}
			seen++
		}
		off += entryOverhead + entryLen
	}
	return 0, 0, false
}

// insertOffset returns the offset at which a new occurrence of id is
// spliced in: after every entry with an identifier <= id, which keeps
// identifiers sorted and occurrences in insertion order.
func (b *Buffer) insertOffset(id FieldID) int {
	off := headerSize
	for off < b.used {
		entryID, entryLen := b.entryAt(off)
		if entryID > id {
			break
		}
		off += entryOverhead + entryLen
	}
	return off
}

// insert splices a new entry for id with the given encoded value at
// the correct sorted position.
func (b *Buffer) insert(id FieldID, value []byte) error {
	need := entryOverhead + len(value)
	if err := b.grow(need); err != nil {
		return err
	}
	off := b.insertOffset(id)
	copy(b.data[off+need:b.used+need], b.data[off:b.used])
	binary.LittleEndian.PutUint32(b.data[off:off+4], uint32(id))
	binary.LittleEndian.PutUint32(b.data[off+4:off+8], uint32(len(value)))
	copy(b.data[off+entryOverhead:], value)
	b.used += need
	b.syncHeader()
	return nil
}

// replace overwrites the value of the entry at off in place, shifting
// the tail when the encoded sizes differ.
func (b *Buffer) replace(off, oldLen int, value []byte) error {
	delta := len(value) - oldLen
	if delta > 0 {
		if err := b.grow(delta); err != nil {
			return err
		}
	}
	tail := off + entryOverhead + oldLen
	copy(b.data[tail+delta:b.used+delta], b.data[tail:b.used])
	binary.LittleEndian.PutUint32(b.data[off+4:off+8], uint32(len(value)))
	copy(b.data[off+entryOverhead:], value)
	b.used += delta
	b.syncHeader()
	return nil
}

// remove splices out the entry at off.
func (b *Buffer) remove(off, length int) {
	end := off + entryOverhead + length
	copy(b.data[off:], b.data[end:b.used])
	b.used -= entryOverhead + length
	b.syncHeader()
}

// wireWidth returns the required value width of fixed-width field
// types. String and carray values are variable-length.
func wireWidth(t Type) (width int, fixed bool) {
	switch t {
	case TypeShort:
		return 2, true
	case TypeChar:
		return 1, true
	case TypeFloat:
		return 4, true
	case TypeLong, TypeDouble:
		return 8, true
	default:
		return 0, false
	}
}

func wireError(format string, args ...any) error {
	return &TypeError{Op: "decode wire buffer", Cause: fmt.Errorf(format, args...)}
}
