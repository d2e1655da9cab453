package malloc

import (
	"fmt"
	"os"

	"github.com/wentworth/Malloc/internal/block"
	"github.com/wentworth/Malloc/mem"
)

// Debug flag - set to true to enable verbose logging (compile-time toggle).
const debugAlloc = false

// Runtime debug flag for allocation logging - controlled by MALLOC_LOG_ALLOC env var.
var logAlloc = os.Getenv("MALLOC_LOG_ALLOC") != ""

// Heap is a segregated-fit allocator over a single region. All allocator
// state (boundary tags, free-list links, the class table) lives inside the
// region's bytes; the Heap itself holds only the region handle, the cached
// byte view, the growth quantum, and counters.
type Heap struct {
	region mem.Region
	data   []byte // current view of region.Bytes(), refreshed after growth
	chunk  int    // growth quantum in bytes, 8-byte aligned
	stats  Stats
}

var _ Allocator = (*Heap)(nil)

// New initializes a heap over an empty region: it lays down the alignment
// pad, the framed free-list table with all class heads null, the prologue
// and epilogue sentinels, and then performs one chunk-sized extension to
// seed the first free block.
func New(r mem.Region, config *Config) (*Heap, error) {
	if config == nil {
		config = &DefaultConfig
	}
	chunk := block.AlignUp(config.ChunkSize)
	if chunk < block.MinBlockSize {
		chunk = block.DefaultChunkSize
	}

	if r.Size() != 0 {
		return nil, ErrBadRegion
	}

	h := &Heap{region: r, chunk: chunk}

	if _, err := r.Sbrk(block.PreambleSize); err != nil {
		return nil, fmt.Errorf("malloc: initialize heap: %w", err)
	}
	h.data = r.Bytes()

	// The pad word stays zero. Slots are cleared explicitly so init does not
	// depend on the provider zero-filling.
	clear(h.data[block.TableBase:block.SlotOff(block.NumClasses)])
	block.SetTags(h.data, block.TableBase, block.TableBlockSize, true)
	block.SetTags(h.data, block.ProloguePayload, block.Overhead, true)
	block.PutWord(h.data, block.PreambleSize-block.WordSize, block.Pack(0, true))

	if _, err := h.extendHeap(chunk / block.WordSize); err != nil {
		return nil, fmt.Errorf("malloc: seed heap: %w", err)
	}
	return h, nil
}

// Open re-attaches a heap to a region that already carries a heap image,
// for example a file written by an earlier process. The image is verified
// structurally before use so a corrupt file cannot drive the allocator into
// out-of-bounds writes.
func Open(r mem.Region, config *Config) (*Heap, error) {
	if config == nil {
		config = &DefaultConfig
	}
	chunk := block.AlignUp(config.ChunkSize)
	if chunk < block.MinBlockSize {
		chunk = block.DefaultChunkSize
	}

	h := &Heap{region: r, data: r.Bytes(), chunk: chunk}
	if err := h.CheckErr(); err != nil {
		return nil, fmt.Errorf("malloc: open heap image: %w", err)
	}
	return h, nil
}

// Region returns the underlying region.
func (h *Heap) Region() mem.Region {
	return h.region
}

// Bytes returns the current view of the heap region. The slice is replaced
// when the heap grows on a remapping region; callers re-fetch after any
// allocation that may grow.
func (h *Heap) Bytes() []byte {
	return h.data
}

// Size returns the current extent of the heap region in bytes.
func (h *Heap) Size() int {
	return len(h.data)
}

// payload returns the usable byte range of the block at bp: everything
// between its header and footer.
func (h *Heap) payload(bp int) []byte {
	return h.data[bp : bp+block.SizeOf(h.data, bp)-block.Overhead]
}

// Payload re-derives the payload slice for a live allocated block. Callers
// holding offsets across operations that may grow the region use this to get
// a fresh view instead of trusting a stale slice.
func (h *Heap) Payload(p Ptr) ([]byte, error) {
	if err := h.checkLive(p); err != nil {
		return nil, err
	}
	return h.payload(p), nil
}

// checkLive validates that p plausibly names a live allocated block. This is
// the cheap detectable subset of misuse; a stale pointer into the middle of
// some other block can still pass and corrupt the heap, as with any manual
// allocator.
func (h *Heap) checkLive(p Ptr) error {
	if !block.InHeap(p, len(h.data)) {
		return ErrBadPtr
	}
	size := block.SizeOf(h.data, p)
	if size < block.MinBlockSize || size%block.Alignment != 0 || p+size > len(h.data) {
		return ErrBadPtr
	}
	if block.ReadWord(h.data, block.HeaderOff(p)) != block.ReadWord(h.data, p+size-block.Overhead) {
		return ErrBadPtr
	}
	if !block.Allocated(h.data, p) {
		return ErrNotAllocated
	}
	return nil
}

// debugLogf prints debug messages if debugAlloc is enabled.
func debugLogf(format string, args ...any) {
	if debugAlloc {
		fmt.Fprintf(os.Stderr, "[MALLOC] "+format+"\n", args...)
	}
}
