package block

import "encoding/binary"

// Boundary tag encoding. A tag is a little-endian uint32 packing the block
// size with the allocated flag in the low bit. Blocks are addressed by the
// byte offset of their payload; the header sits one word before the payload
// and the footer occupies the last word of the block.
//
// Free-list links live in the first two link slots of a free payload: the
// prev link at the payload offset, the next link one LinkSize after. Links
// are stored as little-endian uint64 offsets, Null (0) terminated.

// Pack combines a block size and an allocated flag into a boundary tag.
func Pack(size int, allocated bool) uint32 {
	tag := uint32(size)
	if allocated {
		tag |= AllocatedBit
	}
	return tag
}

// TagSize extracts the block size from a boundary tag.
func TagSize(tag uint32) int {
	return int(tag & SizeMask)
}

// TagAllocated reports whether a boundary tag has the allocated bit set.
func TagAllocated(tag uint32) bool {
	return tag&AllocatedBit != 0
}

// PutWord writes a boundary tag at the given byte offset.
func PutWord(data []byte, off int, tag uint32) {
	binary.LittleEndian.PutUint32(data[off:off+WordSize], tag)
}

// ReadWord reads a boundary tag from the given byte offset.
func ReadWord(data []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(data[off : off+WordSize])
}

// HeaderOff returns the offset of the header word for the block whose payload
// starts at bp.
func HeaderOff(bp int) int {
	return bp - WordSize
}

// FooterOff returns the offset of the footer word for the block whose payload
// starts at bp. The footer position is derived from the size in the header,
// so the header must be written first.
func FooterOff(data []byte, bp int) int {
	return bp + SizeOf(data, bp) - Overhead
}

// SizeOf returns the size of the block whose payload starts at bp, taken
// from its header.
func SizeOf(data []byte, bp int) int {
	return TagSize(ReadWord(data, HeaderOff(bp)))
}

// Allocated reports whether the block whose payload starts at bp is marked
// allocated in its header.
func Allocated(data []byte, bp int) bool {
	return TagAllocated(ReadWord(data, HeaderOff(bp)))
}

// SetTags writes matching header and footer tags for the block whose payload
// starts at bp.
func SetTags(data []byte, bp, size int, allocated bool) {
	tag := Pack(size, allocated)
	PutWord(data, HeaderOff(bp), tag)
	PutWord(data, bp+size-Overhead, tag)
}

// NextPayload returns the payload offset of the block immediately after the
// one whose payload starts at bp.
func NextPayload(data []byte, bp int) int {
	return bp + SizeOf(data, bp)
}

// PrevPayload returns the payload offset of the block immediately before the
// one whose payload starts at bp, using the predecessor's footer word.
func PrevPayload(data []byte, bp int) int {
	prevSize := TagSize(ReadWord(data, bp-Overhead))
	return bp - prevSize
}

// PrevLink reads the free-list prev link of the free block at bp.
func PrevLink(data []byte, bp int) int {
	return int(binary.LittleEndian.Uint64(data[bp : bp+LinkSize]))
}

// NextLink reads the free-list next link of the free block at bp.
func NextLink(data []byte, bp int) int {
	return int(binary.LittleEndian.Uint64(data[bp+LinkSize : bp+2*LinkSize]))
}

// SetPrevLink writes the free-list prev link of the free block at bp.
func SetPrevLink(data []byte, bp, target int) {
	binary.LittleEndian.PutUint64(data[bp:bp+LinkSize], uint64(target))
}

// SetNextLink writes the free-list next link of the free block at bp.
func SetNextLink(data []byte, bp, target int) {
	binary.LittleEndian.PutUint64(data[bp+LinkSize:bp+2*LinkSize], uint64(target))
}

// SlotOff returns the byte offset of a size-class head slot in the table
// block.
func SlotOff(class int) int {
	return TableBase + class*TableSlotSize
}

// ReadSlot reads the head offset stored in a size-class slot.
func ReadSlot(data []byte, class int) int {
	off := SlotOff(class)
	return int(binary.LittleEndian.Uint64(data[off : off+LinkSize]))
}

// PutSlot writes the head offset of a size-class slot.
func PutSlot(data []byte, class, bp int) {
	off := SlotOff(class)
	binary.LittleEndian.PutUint64(data[off:off+LinkSize], uint64(bp))
}

// InHeap reports whether bp is a plausible payload offset: past the preamble,
// 8-byte aligned, with room for at least a minimum block before the epilogue
// header at the end of the region.
func InHeap(bp, regionSize int) bool {
	if bp < FirstPayload || bp%Alignment != 0 {
		return false
	}
	return bp+MinBlockSize <= regionSize
}
