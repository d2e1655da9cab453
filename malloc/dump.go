package malloc

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/wentworth/Malloc/internal/block"
)

// Format selects the rendering used by Dump.
type Format int

const (
	// FormatText renders an indented, human-readable listing.
	FormatText Format = iota
	// FormatJSON renders a machine-readable snapshot.
	FormatJSON
)

// BlockInfo describes one block in physical heap order.
type BlockInfo struct {
	Offset    int  `json:"offset"`    // Payload offset within the region
	Size      int  `json:"size"`      // Block size including tags
	Allocated bool `json:"allocated"` // Allocated bit from the header
	Class     int  `json:"class"`     // Size class for free blocks, -1 when allocated
}

// Snapshot captures the observable state of a heap at one point in time.
type Snapshot struct {
	RegionSize int         `json:"regionSize"`
	BlockCount int         `json:"blockCount"`
	FreeBlocks int         `json:"freeBlocks"`
	FreeBytes  int64       `json:"freeBytes"`
	Blocks     []BlockInfo `json:"blocks"`
	Stats      Stats       `json:"stats"`
}

// Blocks walks the heap in address order and describes every block between
// the preamble and the epilogue. The walk stops early if it runs into a
// frame it cannot trust; Check reports what went wrong in that case.
func (h *Heap) Blocks() []BlockInfo {
	var out []BlockInfo
	end := len(h.data)

	for bp := block.FirstPayload; bp < end; {
		size := block.SizeOf(h.data, bp)
		if size == 0 {
			break
		}
		if size < block.MinBlockSize || size%block.Alignment != 0 || bp+size > end {
			break
		}

		info := BlockInfo{
			Offset:    bp,
			Size:      size,
			Allocated: block.Allocated(h.data, bp),
			Class:     -1,
		}
		if !info.Allocated {
			info.Class = block.ClassIndex(size)
		}
		out = append(out, info)
		bp += size
	}
	return out
}

// Snapshot gathers the block listing, free totals, and counters into one
// value, suitable for serialization.
func (h *Heap) Snapshot() Snapshot {
	blocks := h.Blocks()
	snap := Snapshot{
		RegionSize: len(h.data),
		BlockCount: len(blocks),
		Blocks:     blocks,
		Stats:      h.Stats(),
	}
	for _, b := range blocks {
		if !b.Allocated {
			snap.FreeBlocks++
			snap.FreeBytes += int64(b.Size)
		}
	}
	return snap
}

// Dump writes a rendering of the heap's current state to w.
func (h *Heap) Dump(w io.Writer, format Format) error {
	snap := h.Snapshot()

	if format == FormatJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snap)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Heap Region: %d bytes\n", snap.RegionSize))
	sb.WriteString(fmt.Sprintf("  Preamble: %d bytes (class table + prologue)\n", block.PreambleSize))
	sb.WriteString(fmt.Sprintf("  Blocks: %d (%d free, %d allocated)\n",
		snap.BlockCount, snap.FreeBlocks, snap.BlockCount-snap.FreeBlocks))
	sb.WriteString(fmt.Sprintf("  Free: %d bytes\n", snap.FreeBytes))

	sb.WriteString("\nBlocks:\n")
	for _, b := range snap.Blocks {
		state := "allocated"
		if !b.Allocated {
			state = fmt.Sprintf("free (class %d)", b.Class)
		}
		sb.WriteString(fmt.Sprintf("  0x%06X  %8d bytes  %s\n", b.Offset, b.Size, state))
	}

	sb.WriteString("\nFree Lists:\n")
	empty := true
	maxNodes := len(h.data)/block.MinBlockSize + 1
	for class := 0; class < block.NumClasses; class++ {
		count := 0
		bytes := 0
		for bp := block.ReadSlot(h.data, class); bp != block.Null; bp = block.NextLink(h.data, bp) {
			if !block.InHeap(bp, len(h.data)) || count > maxNodes {
				break
			}
			count++
			bytes += block.SizeOf(h.data, bp)
		}
		if count > 0 {
			empty = false
			sb.WriteString(fmt.Sprintf("  class %2d: %d block(s), %d bytes\n", class, count, bytes))
		}
	}
	if empty {
		sb.WriteString("  (empty)\n")
	}

	s := snap.Stats
	sb.WriteString("\nStatistics:\n")
	sb.WriteString(fmt.Sprintf("  Alloc: %d calls (%d fit hits)\n", s.AllocCalls, s.FitHits))
	sb.WriteString(fmt.Sprintf("  Free: %d calls\n", s.FreeCalls))
	sb.WriteString(fmt.Sprintf("  Realloc: %d calls, Calloc: %d calls\n", s.ReallocCalls, s.CallocCalls))
	sb.WriteString(fmt.Sprintf("  Growth: %d extension(s), %d bytes\n", s.GrowCalls, s.GrowBytes))
	sb.WriteString(fmt.Sprintf("  Splits: %d\n", s.SplitCount))
	sb.WriteString(fmt.Sprintf("  Coalesces: %d right, %d left, %d both, %d none\n",
		s.CoalesceRight, s.CoalesceLeft, s.CoalesceBoth, s.CoalesceNone))

	_, err := io.WriteString(w, sb.String())
	return err
}
