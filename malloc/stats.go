package malloc

import "github.com/goccy/go-json"

// Stats holds internal allocator counters.
type Stats struct {
	AllocCalls   int `json:"allocCalls"`   // Total Alloc() calls
	FreeCalls    int `json:"freeCalls"`    // Frees that released a block (null and rejected frees excluded)
	ReallocCalls int `json:"reallocCalls"` // Total Realloc() calls
	CallocCalls  int `json:"callocCalls"`  // Total Calloc() calls

	FitHits   int   `json:"fitHits"`   // Allocations satisfied without growing
	GrowCalls int   `json:"growCalls"` // Region extensions
	GrowBytes int64 `json:"growBytes"` // Total bytes added by extensions

	BytesAllocated int64 `json:"bytesAllocated"` // Total block bytes handed out (including tags)
	BytesFreed     int64 `json:"bytesFreed"`     // Total block bytes released

	SplitCount int `json:"splitCount"` // Blocks split during placement

	CoalesceNone  int `json:"coalesceNone"`  // Frees with no free neighbor
	CoalesceRight int `json:"coalesceRight"` // Merges with the following block
	CoalesceLeft  int `json:"coalesceLeft"`  // Merges with the preceding block
	CoalesceBoth  int `json:"coalesceBoth"`  // Three-way merges
}

// Stats returns a snapshot of the allocator counters.
func (h *Heap) Stats() Stats {
	return h.stats
}

// JSON renders the counters as indented JSON.
func (s Stats) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
