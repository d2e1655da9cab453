package malloc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wentworth/Malloc/internal/block"
	"github.com/wentworth/Malloc/mem"
)

// Test_Realloc_NullAllocates tests that resizing the null pointer is a plain
// allocation.
func Test_Realloc_NullAllocates(t *testing.T) {
	h := newTestHeap(t)

	p, payload, err := h.Realloc(Null, 50)
	require.NoError(t, err)
	require.NotEqual(t, Null, p)
	require.GreaterOrEqual(t, len(payload), 50)
	requireClean(t, h)
}

// Test_Realloc_ZeroFrees tests that resizing to zero releases the block.
func Test_Realloc_ZeroFrees(t *testing.T) {
	h := newTestHeap(t)

	p, _, err := h.Alloc(50)
	require.NoError(t, err)

	np, payload, err := h.Realloc(p, 0)
	require.NoError(t, err)
	require.Equal(t, Null, np)
	require.Nil(t, payload)

	require.ErrorIs(t, h.Free(p), ErrNotAllocated, "block should already be freed")
	requireClean(t, h)
}

// Test_Realloc_ShrinkInPlace tests that a smaller request keeps the block
// where it is.
func Test_Realloc_ShrinkInPlace(t *testing.T) {
	h := newTestHeap(t)

	p, payload, err := h.Alloc(100)
	require.NoError(t, err)
	fill(payload, 0x7E)

	np, got, err := h.Realloc(p, 40)
	require.NoError(t, err)
	require.Equal(t, p, np, "shrink should stay in place")
	require.Len(t, got, len(payload), "the block is not split on shrink")
	requireFilled(t, got, 0x7E)
	requireClean(t, h)
}

// Test_Realloc_GrowCopies tests that growing moves the block and preserves
// the old payload bytes.
func Test_Realloc_GrowCopies(t *testing.T) {
	h := newTestHeap(t)

	p, payload, err := h.Alloc(24)
	require.NoError(t, err)
	oldLen := len(payload)
	fill(payload, 0xA5)

	np, got, err := h.Realloc(p, 100)
	require.NoError(t, err)
	require.NotEqual(t, p, np, "growth cannot stay in place")
	require.GreaterOrEqual(t, len(got), 100)
	requireFilled(t, got[:oldLen], 0xA5)

	require.ErrorIs(t, h.Free(p), ErrNotAllocated, "old block should be released")
	requireClean(t, h)
}

// Test_Realloc_GrowAcrossExtension tests a move whose allocation has to grow
// the region.
func Test_Realloc_GrowAcrossExtension(t *testing.T) {
	h := newTestHeap(t)

	p, payload, err := h.Alloc(100)
	require.NoError(t, err)
	fill(payload, 0x3C)

	grows := h.Stats().GrowCalls
	np, got, err := h.Realloc(p, 4000)
	require.NoError(t, err)
	require.NotEqual(t, p, np)
	require.Greater(t, h.Stats().GrowCalls, grows, "the move should extend the region")
	requireFilled(t, got[:100], 0x3C)
	requireClean(t, h)
}

// Test_Realloc_FailurePreservesOriginal tests that a failed move leaves the
// original block intact and valid.
func Test_Realloc_FailurePreservesOriginal(t *testing.T) {
	h, err := New(mem.NewBuffer(block.PreambleSize+block.DefaultChunkSize), nil)
	require.NoError(t, err)

	p, payload, err := h.Alloc(100)
	require.NoError(t, err)
	fill(payload, 0x99)

	_, _, err = h.Realloc(p, 200)
	require.ErrorIs(t, err, ErrOutOfMemory)

	got, err := h.Payload(p)
	require.NoError(t, err, "original block must survive a failed realloc")
	requireFilled(t, got, 0x99)
	requireClean(t, h)
}

// Test_Realloc_BadPointer tests rejection of invalid pointers.
func Test_Realloc_BadPointer(t *testing.T) {
	h := newTestHeap(t)

	_, _, err := h.Realloc(13, 50)
	require.ErrorIs(t, err, ErrBadPtr)

	_, _, err = h.Realloc(block.FirstPayload, 50)
	require.ErrorIs(t, err, ErrNotAllocated, "the seed block is free")

	p, _, err := h.Alloc(24)
	require.NoError(t, err)
	_, _, err = h.Realloc(p, -1)
	require.ErrorIs(t, err, ErrBadSize)
}

// Test_Calloc_ZeroFills tests that calloc returns an all-zero payload.
func Test_Calloc_ZeroFills(t *testing.T) {
	h := newTestHeap(t)

	p, payload, err := h.Calloc(3, 10)
	require.NoError(t, err)
	require.NotEqual(t, Null, p)
	require.GreaterOrEqual(t, len(payload), 30)
	requireFilled(t, payload, 0)
}

// Test_Calloc_ClearsRecycledPayload tests that a reused block's stale bytes,
// including its old free-list links, are wiped.
func Test_Calloc_ClearsRecycledPayload(t *testing.T) {
	h := newTestHeap(t)

	p, payload, err := h.Alloc(24)
	require.NoError(t, err)
	fill(payload, 0xFF)
	require.NoError(t, h.Free(p))

	cp, got, err := h.Calloc(3, 8)
	require.NoError(t, err)
	require.Equal(t, p, cp, "calloc should recycle the freed block")
	requireFilled(t, got, 0)
}

// Test_Calloc_Overflow tests that an overflowing product is reported as out
// of memory, not wrapped into a small allocation.
func Test_Calloc_Overflow(t *testing.T) {
	h := newTestHeap(t)

	_, _, err := h.Calloc(math.MaxInt, 2)
	require.ErrorIs(t, err, ErrOutOfMemory)

	_, _, err = h.Calloc(math.MaxInt/2, 3)
	require.ErrorIs(t, err, ErrOutOfMemory)
	requireClean(t, h)
}

// Test_Calloc_Degenerate tests zero and negative element counts.
func Test_Calloc_Degenerate(t *testing.T) {
	h := newTestHeap(t)

	p, payload, err := h.Calloc(0, 8)
	require.NoError(t, err)
	require.Equal(t, Null, p)
	require.Nil(t, payload)

	_, _, err = h.Calloc(-1, 8)
	require.ErrorIs(t, err, ErrBadSize)

	_, _, err = h.Calloc(8, -1)
	require.ErrorIs(t, err, ErrBadSize)
}
