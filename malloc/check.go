package malloc

import "github.com/wentworth/Malloc/malloc/verify"

// Check runs every structural validation over the heap's region and returns
// all faults found, in check order. A consistent heap yields an empty slice.
func (h *Heap) Check() []*verify.ValidationError {
	return verify.Collect(h.data)
}

// CheckErr runs every structural validation and returns the first fault as
// an error, or nil when the heap is consistent.
func (h *Heap) CheckErr() error {
	return verify.AllInvariants(h.data)
}
