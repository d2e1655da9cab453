package block

// AlignUp returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	AlignUp(1)  = 8
//	AlignUp(8)  = 8
//	AlignUp(9)  = 16
func AlignUp(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// AdjustSize converts a requested payload size into the block size the heap
// will carve for it: the payload plus framing overhead, rounded up to the
// alignment, and never below the minimum block. Requests of 8 bytes or fewer
// all land on the minimum block because a free payload must be able to hold
// both list links.
func AdjustSize(request int) int {
	if request <= Alignment {
		return MinBlockSize
	}
	return AlignUp(request + Overhead)
}
