package verify

import (
	"fmt"

	"github.com/wentworth/Malloc/internal/block"
)

// ValidationError describes one structural fault found in a heap region.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates every heap invariant in one call.
// Returns the first fault as an error, or nil if all checks pass.
func AllInvariants(data []byte) error {
	if err := Sentinels(data); err != nil {
		return err
	}
	if err := Blocks(data); err != nil {
		return err
	}
	if err := FreeLists(data); err != nil {
		return err
	}
	return Counts(data)
}

// Collect runs every check and returns all faults found, in check order:
// sentinel shape, heap walk, free-list walk, count cross-check. A region too
// small to hold the preamble short-circuits to that single fault.
func Collect(data []byte) []*ValidationError {
	faults := collectSentinels(data)
	if len(data) < block.PreambleSize {
		return faults
	}

	heapFree, walkFaults := walkBlocks(data)
	faults = append(faults, walkFaults...)

	listFree, listFaults := walkLists(data)
	faults = append(faults, listFaults...)

	if len(walkFaults) == 0 && len(listFaults) == 0 && heapFree != listFree {
		faults = append(faults, countFault(heapFree, listFree))
	}
	return faults
}

// Sentinels validates the fixed framing of the region: the table block's
// header and footer, the prologue pair, and the epilogue header at the very
// end. Returns the first fault, or nil.
func Sentinels(data []byte) error {
	return first(collectSentinels(data))
}

// Blocks walks the heap from the prologue to the epilogue and validates
// every block: alignment, minimum size, header/footer agreement, bounds,
// and the absence of two adjacent free blocks. Returns the first fault.
func Blocks(data []byte) error {
	_, faults := walkBlocks(data)
	return first(faults)
}

// FreeLists walks every size-class list and validates each node: the block
// is free, links stay in bounds, prev/next are symmetric, no node links to
// itself, and the node's size classifies into the list holding it. Returns
// the first fault.
func FreeLists(data []byte) error {
	_, faults := walkLists(data)
	return first(faults)
}

// Counts cross-checks the number of free blocks seen by the heap walk
// against the total length of all free lists. A mismatch means some block
// is filed in no list or in more than one.
func Counts(data []byte) error {
	heapFree, walkFaults := walkBlocks(data)
	if err := first(walkFaults); err != nil {
		return err
	}
	listFree, listFaults := walkLists(data)
	if err := first(listFaults); err != nil {
		return err
	}
	if heapFree != listFree {
		return countFault(heapFree, listFree)
	}
	return nil
}

func first(faults []*ValidationError) error {
	if len(faults) == 0 {
		return nil
	}
	return faults[0]
}

func countFault(heapFree, listFree int) *ValidationError {
	return &ValidationError{
		Type:    "Counts",
		Message: fmt.Sprintf("free block counts disagree: heap walk found %d, free lists hold %d", heapFree, listFree),
		Offset:  -1,
		Details: map[string]any{
			"heapWalk":  heapFree,
			"freeLists": listFree,
		},
	}
}

func collectSentinels(data []byte) []*ValidationError {
	var faults []*ValidationError

	if len(data) < block.PreambleSize {
		return append(faults, &ValidationError{
			Type:    "Sentinels",
			Message: fmt.Sprintf("region too small: %d bytes (need %d)", len(data), block.PreambleSize),
			Offset:  -1,
		})
	}
	if len(data)%block.Alignment != 0 {
		faults = append(faults, &ValidationError{
			Type:    "Sentinels",
			Message: fmt.Sprintf("region size 0x%X is not 8-byte aligned", len(data)),
			Offset:  -1,
		})
	}

	wantTable := block.Pack(block.TableBlockSize, true)
	if got := block.ReadWord(data, block.TableHeaderOffset); got != wantTable {
		faults = append(faults, &ValidationError{
			Type:    "Sentinels",
			Message: fmt.Sprintf("bad table block header: got 0x%X, expected 0x%X", got, wantTable),
			Offset:  block.TableHeaderOffset,
		})
	}
	tableFooter := block.TableBase + block.TableBlockSize - block.Overhead
	if got := block.ReadWord(data, tableFooter); got != wantTable {
		faults = append(faults, &ValidationError{
			Type:    "Sentinels",
			Message: fmt.Sprintf("bad table block footer: got 0x%X, expected 0x%X", got, wantTable),
			Offset:  tableFooter,
		})
	}

	wantPrologue := block.Pack(block.Overhead, true)
	if got := block.ReadWord(data, block.HeaderOff(block.ProloguePayload)); got != wantPrologue {
		faults = append(faults, &ValidationError{
			Type:    "Sentinels",
			Message: fmt.Sprintf("bad prologue header: got 0x%X, expected 0x%X", got, wantPrologue),
			Offset:  block.HeaderOff(block.ProloguePayload),
		})
	}
	if got := block.ReadWord(data, block.ProloguePayload); got != wantPrologue {
		faults = append(faults, &ValidationError{
			Type:    "Sentinels",
			Message: fmt.Sprintf("bad prologue footer: got 0x%X, expected 0x%X", got, wantPrologue),
			Offset:  block.ProloguePayload,
		})
	}

	epilogue := len(data) - block.WordSize
	wantEpilogue := block.Pack(0, true)
	if got := block.ReadWord(data, epilogue); got != wantEpilogue {
		faults = append(faults, &ValidationError{
			Type:    "Sentinels",
			Message: fmt.Sprintf("bad epilogue header: got 0x%X, expected 0x%X", got, wantEpilogue),
			Offset:  epilogue,
		})
	}

	return faults
}

// walkBlocks traverses the physical block sequence from the prologue and
// returns the number of free blocks seen plus any faults. The walk stops at
// the first fault that makes further stepping unsafe (bad size, block out of
// bounds); everything found up to that point is still reported.
func walkBlocks(data []byte) (int, []*ValidationError) {
	var faults []*ValidationError
	if len(data) < block.PreambleSize {
		return 0, append(faults, &ValidationError{
			Type:    "HeapWalk",
			Message: "region too small to walk",
			Offset:  -1,
		})
	}

	freeCount := 0
	prevFree := false
	end := len(data)

	bp := block.ProloguePayload
	for {
		header := block.ReadWord(data, block.HeaderOff(bp))
		size := block.TagSize(header)

		if size == 0 {
			// Epilogue. It must sit exactly at the end of the region.
			if bp != end {
				faults = append(faults, &ValidationError{
					Type:    "HeapWalk",
					Message: fmt.Sprintf("zero-size header before end of region (region ends at 0x%X)", end),
					Offset:  block.HeaderOff(bp),
				})
			}
			if !block.TagAllocated(header) {
				faults = append(faults, &ValidationError{
					Type:    "HeapWalk",
					Message: "epilogue is not marked allocated",
					Offset:  block.HeaderOff(bp),
				})
			}
			break
		}

		if bp%block.Alignment != 0 {
			faults = append(faults, &ValidationError{
				Type:    "HeapWalk",
				Message: fmt.Sprintf("payload 0x%X is not doubleword aligned", bp),
				Offset:  bp,
			})
		}
		if size%block.Alignment != 0 || bp+size > end {
			faults = append(faults, &ValidationError{
				Type:    "HeapWalk",
				Message: fmt.Sprintf("block size 0x%X is unaligned or runs past the region", size),
				Offset:  block.HeaderOff(bp),
			})
			return freeCount, faults
		}
		if bp != block.ProloguePayload && size < block.MinBlockSize {
			faults = append(faults, &ValidationError{
				Type:    "HeapWalk",
				Message: fmt.Sprintf("block size %d below minimum %d", size, block.MinBlockSize),
				Offset:  block.HeaderOff(bp),
			})
			return freeCount, faults
		}

		footer := block.ReadWord(data, bp+size-block.Overhead)
		if footer != header {
			faults = append(faults, &ValidationError{
				Type:    "HeapWalk",
				Message: fmt.Sprintf("header 0x%X does not match footer 0x%X", header, footer),
				Offset:  block.HeaderOff(bp),
			})
		}

		free := !block.TagAllocated(header)
		if free && prevFree {
			faults = append(faults, &ValidationError{
				Type:    "HeapWalk",
				Message: "two adjacent free blocks escaped coalescing",
				Offset:  block.HeaderOff(bp),
			})
		}
		if free {
			freeCount++
		}
		prevFree = free

		bp += size
	}

	return freeCount, faults
}

// walkLists traverses every size-class list and returns the total node count
// plus any faults. Traversal of a class stops at the first node whose links
// cannot be trusted; a step cap guards against cycles.
func walkLists(data []byte) (int, []*ValidationError) {
	var faults []*ValidationError
	if len(data) < block.PreambleSize {
		return 0, append(faults, &ValidationError{
			Type:    "FreeList",
			Message: "region too small to hold the class table",
			Offset:  -1,
		})
	}

	total := 0
	maxNodes := len(data)/block.MinBlockSize + 1

	for class := 0; class < block.NumClasses; class++ {
		steps := 0
		prev := block.Null
		for bp := block.ReadSlot(data, class); bp != block.Null; bp = block.NextLink(data, bp) {
			steps++
			if steps > maxNodes {
				faults = append(faults, &ValidationError{
					Type:    "FreeList",
					Message: fmt.Sprintf("class %d list exceeds %d nodes, assuming a cycle", class, maxNodes),
					Offset:  -1,
				})
				break
			}

			if !block.InHeap(bp, len(data)) {
				faults = append(faults, &ValidationError{
					Type:    "FreeList",
					Message: fmt.Sprintf("class %d links to 0x%X, outside the heap", class, bp),
					Offset:  bp,
					Details: map[string]any{"class": class},
				})
				break
			}
			if block.Allocated(data, bp) {
				faults = append(faults, &ValidationError{
					Type:    "FreeList",
					Message: fmt.Sprintf("class %d holds an allocated block", class),
					Offset:  bp,
					Details: map[string]any{"class": class},
				})
			}
			if block.NextLink(data, bp) == bp || block.PrevLink(data, bp) == bp {
				faults = append(faults, &ValidationError{
					Type:    "FreeList",
					Message: "free block links to itself",
					Offset:  bp,
				})
				break
			}
			if got := block.PrevLink(data, bp); got != prev {
				faults = append(faults, &ValidationError{
					Type:    "FreeList",
					Message: fmt.Sprintf("asymmetric links: prev points to 0x%X, expected 0x%X", got, prev),
					Offset:  bp,
				})
			}
			size := block.SizeOf(data, bp)
			if want := block.ClassIndex(size); want != class {
				faults = append(faults, &ValidationError{
					Type:    "FreeList",
					Message: fmt.Sprintf("block of size %d filed under class %d, classifies as %d", size, class, want),
					Offset:  bp,
					Details: map[string]any{"class": class, "expected": want},
				})
			}

			total++
			prev = bp
		}
	}

	return total, faults
}
