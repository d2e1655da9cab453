// Package verify provides validation functions for heap regions.
//
// # Overview
//
// This package implements structural checks over the raw bytes of a heap
// region to ensure allocator invariants are maintained. It is primarily used
// in tests and in the memctl tool to verify that sequences of allocations,
// frees, and reallocations leave the region consistent. Nothing here runs on
// the allocation path, and nothing here mutates the region or panics on
// corrupt input.
//
// Validation categories:
//   - Sentinels: class table framing, prologue pair, epilogue header
//   - Heap walk: alignment, sizes, header/footer agreement, coalescing
//   - Free lists: membership, link symmetry, size classification
//   - Counts: free blocks seen by the walk vs. blocks filed in lists
//
// # Quick Start
//
// Validate all invariants in one call:
//
//	if err := verify.AllInvariants(h.Bytes()); err != nil {
//	    fmt.Printf("Validation failed: %v\n", err)
//	}
//
// Validate specific aspects:
//
//	if err := verify.Sentinels(data); err != nil {
//	    fmt.Printf("Framing invalid: %v\n", err)
//	}
//
//	if err := verify.FreeLists(data); err != nil {
//	    fmt.Printf("Free lists invalid: %v\n", err)
//	}
//
// Gather every fault instead of stopping at the first:
//
//	for _, fault := range verify.Collect(data) {
//	    fmt.Println(fault)
//	}
//
// # ValidationError
//
// All validation functions return ValidationError on failure:
//
//	type ValidationError struct {
//	    Type    string         // Error category (e.g., "HeapWalk")
//	    Message string         // Human-readable description
//	    Offset  int            // Region offset where error occurred (-1 if N/A)
//	    Details map[string]any // Additional context
//	}
//
// Example:
//
//	err := verify.Counts(data)
//	if err != nil {
//	    if verr, ok := err.(*verify.ValidationError); ok {
//	        fmt.Printf("Type: %s\n", verr.Type)
//	        fmt.Printf("Heap walk: %v\n", verr.Details["heapWalk"])
//	        fmt.Printf("Free lists: %v\n", verr.Details["freeLists"])
//	    }
//	}
//
// # Sentinel Validation
//
// Sentinels checks the fixed framing written when a heap is initialized:
//
//	err := verify.Sentinels(data)
//
// Validates:
//   - Region is at least the preamble size and 8-byte aligned
//   - Class table block header and footer carry the table size, allocated
//   - Prologue header and footer are an allocated zero-payload pair
//   - Epilogue header sits in the last word, size zero, allocated
//
// Example errors:
//   - "bad prologue header: got 0x18, expected 0x9"
//   - "bad epilogue header: got 0x0, expected 0x1"
//
// # Heap Walk
//
// Blocks walks the physical block sequence from the prologue to the
// epilogue:
//
//	err := verify.Blocks(data)
//
// Validates, per block:
//   - Payload is doubleword aligned
//   - Size is a nonzero multiple of 8 and at least the minimum block size
//   - Block ends inside the region
//   - Header and footer agree
//   - No two adjacent blocks are both free
//
// The walk stops at the first fault that makes further stepping unsafe, such
// as a size that runs past the region. Faults found before that point are
// still reported by Collect.
//
// # Free List Validation
//
// FreeLists walks every size-class list from the class table:
//
//	err := verify.FreeLists(data)
//
// Validates, per node:
//   - The node address lies within the heap
//   - The node's allocated bit is clear
//   - The node does not link to itself
//   - The node's prev link points at its actual predecessor
//   - The node's size classifies into the list holding it
//
// A step cap bounds traversal so a corrupted cyclic list terminates with a
// fault instead of hanging.
//
// # Count Cross-Check
//
// Counts compares the number of free blocks seen by the heap walk against
// the total length of all free lists:
//
//	err := verify.Counts(data)
//
// A mismatch means some free block is filed in no list or in more than one.
// Counts only runs when both underlying walks are clean; otherwise it
// returns the walk fault, since counts from a broken walk prove nothing.
//
// # AllInvariants vs. Collect
//
// AllInvariants runs all checks in order and returns the first fault as an
// error, or nil. It is the right call for tests:
//
//	if err := verify.AllInvariants(h.Bytes()); err != nil {
//	    t.Fatalf("heap invalid: %v", err)
//	}
//
// Collect runs the same checks but gathers every fault, for diagnostic
// output where a full picture of the damage is more useful than the first
// symptom.
//
// # Usage in Tests
//
// Typical test pattern:
//
//	func Test_MixedWorkload(t *testing.T) {
//	    h, _ := malloc.New(mem.NewBuffer(0), nil)
//	    for _, step := range workload {
//	        // ... allocate, free, reallocate ...
//	        if err := verify.AllInvariants(h.Bytes()); err != nil {
//	            t.Fatalf("after step %d: %v", step.n, err)
//	        }
//	    }
//	}
//
// # Limitations
//
// The verify package does NOT check:
//   - Payload contents (the allocator never interprets payload bytes)
//   - Placement policy (whether a fit was first-fit)
//   - Statistics counters held by the Heap value
//
// It sees only what the region bytes record.
//
// # Related Packages
//
//   - github.com/wentworth/Malloc/malloc: The allocator these checks audit
//   - github.com/wentworth/Malloc/internal/block: Boundary-tag layout constants
package verify
