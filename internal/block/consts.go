// Package block houses the boundary-tag layout for the heap region. It knows
// how a block is framed (header word, payload, footer word), how the free-list
// table at the base of the region is laid out, and nothing about allocation
// policy. Higher-level packages decide which block to hand out; this package
// only reads and writes the tags.
package block

const (
	// WordSize is the size of a boundary tag (header or footer) in bytes.
	WordSize = 4

	// Alignment is the required alignment of payload offsets. Block sizes are
	// always a multiple of this.
	Alignment = 8

	// AlignmentMask is the bitmask used for aligning to 8-byte boundaries
	// (Alignment - 1).
	AlignmentMask = Alignment - 1

	// Overhead is the per-block framing cost: one header plus one footer.
	Overhead = 2 * WordSize

	// LinkSize is the size of one free-list link. Links are 64-bit offsets so
	// a free payload always has room for a prev and a next pointer.
	LinkSize = 8

	// MinBlockSize is the smallest legal block: header + prev link + next
	// link + footer. Every block in the heap, free or allocated, is at least
	// this large except the fixed prologue and epilogue sentinels.
	MinBlockSize = Overhead + 2*LinkSize

	// DefaultChunkSize is the default quantum for growing the region when no
	// free block fits.
	DefaultChunkSize = 168

	// AllocatedBit is the low bit of a boundary tag. Sizes are 8-byte
	// aligned, so the low three bits of the size are always zero and the
	// lowest carries the allocated flag.
	AllocatedBit = 0x1

	// SizeMask extracts the block size from a boundary tag.
	SizeMask = ^uint32(AlignmentMask)
)

// NumClasses is the number of segregated free-list classes.
const NumClasses = 18

// ClassLimits holds the inclusive upper bound of each size class, expressed
// in Alignment (8-byte) units of total block size. A block of b bytes belongs
// to the first class whose limit is >= b/8. The final class is unbounded.
//
// The progression is dense where small blocks cluster (3..10 units) and
// doubles afterwards, so common request sizes resolve in the first few slots.
var ClassLimits = [NumClasses - 1]int{
	3, 4, 5, 6, 7, 8, 9, 10, 12, 16, 32, 64, 128, 256, 512, 1024, 2048,
}

// Region preamble layout. Offsets are absolute byte positions from the start
// of the region. The region opens with one pad word so that the first payload
// after the preamble lands on an 8-byte boundary, then a fully framed block
// holding the free-list table, then the prologue and epilogue sentinels.
//
//	[0x00, 0x04)  pad word
//	[0x04, 0x08)  table block header  (TableBlockSize | allocated)
//	[0x08, 0x98)  NumClasses table slots, 8 bytes each, null-initialized
//	[0x98, 0x9C)  table block footer  (TableBlockSize | allocated)
//	[0x9C, 0xA0)  prologue header     (Overhead | allocated)
//	[0xA0, 0xA4)  prologue footer     (Overhead | allocated)
//	[0xA4, ... )  ordinary blocks
//	[end-4, end)  epilogue header     (0 | allocated), relocated on growth
const (
	// PadOffset is where the alignment pad word sits.
	PadOffset = 0

	// TableHeaderOffset is where the table block's header word sits.
	TableHeaderOffset = PadOffset + WordSize

	// TableBase is the payload offset of the table block: the first slot.
	TableBase = TableHeaderOffset + WordSize

	// TableSlotSize is the size of one table slot (one LinkSize offset).
	TableSlotSize = LinkSize

	// TableBlockSize is the full size of the table block including its own
	// header and footer.
	TableBlockSize = Overhead + NumClasses*TableSlotSize

	// ProloguePayload is the payload offset of the prologue block. Heap
	// walks start here; coalescing never crosses it leftwards because the
	// prologue is permanently allocated.
	ProloguePayload = TableBase + TableBlockSize

	// FirstPayload is the payload offset of the first ordinary block.
	FirstPayload = ProloguePayload + Overhead

	// PreambleSize is the total byte cost of pad, table block, prologue and
	// epilogue. A fresh region needs exactly this much before the first
	// extension.
	PreambleSize = WordSize + TableBlockSize + Overhead + WordSize
)

// Null is the null payload offset. Offset 0 falls inside the pad word, so no
// real payload can ever live there.
const Null = 0
