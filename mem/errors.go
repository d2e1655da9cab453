package mem

import "errors"

var (
	// ErrRegionFull is returned by Sbrk when a region has reached its
	// maximum size and cannot supply more bytes.
	ErrRegionFull = errors.New("mem: region at maximum size")

	// ErrBadGrow is returned by Sbrk for a zero or negative byte count.
	ErrBadGrow = errors.New("mem: grow size must be positive")

	// ErrClosed is returned by operations on a file region after Close.
	ErrClosed = errors.New("mem: region is closed")
)
