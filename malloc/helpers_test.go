package malloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wentworth/Malloc/mem"
)

// newTestHeap returns a fresh heap over an unbounded in-memory region.
func newTestHeap(t *testing.T) *Heap {
	t.Helper()
	h, err := New(mem.NewBuffer(0), nil)
	require.NoError(t, err, "heap initialization should succeed")
	return h
}

// newBoundedHeap returns a fresh heap over a region capped at max bytes, for
// exhaustion scenarios.
func newBoundedHeap(t *testing.T, max int) *Heap {
	t.Helper()
	h, err := New(mem.NewBuffer(max), nil)
	require.NoError(t, err, "heap initialization should succeed")
	return h
}

// requireClean fails the test if any heap invariant does not hold.
func requireClean(t *testing.T, h *Heap) {
	t.Helper()
	require.NoError(t, h.CheckErr(), "heap invariants should hold")
}

// fill writes the same byte over an entire payload.
func fill(payload []byte, b byte) {
	for i := range payload {
		payload[i] = b
	}
}

// requireFilled fails the test unless every payload byte matches b.
func requireFilled(t *testing.T, payload []byte, b byte) {
	t.Helper()
	for i, got := range payload {
		require.Equal(t, b, got, "payload byte %d should be untouched", i)
	}
}
