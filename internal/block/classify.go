package block

// ClassIndex maps a block size in bytes to its segregated-list class. The
// size must already be 8-byte aligned; classification works in Alignment
// units against the ClassLimits table, and anything past the last limit
// falls into the final unbounded class.
func ClassIndex(size int) int {
	units := size / Alignment
	for i, limit := range ClassLimits {
		if units <= limit {
			return i
		}
	}
	return NumClasses - 1
}
