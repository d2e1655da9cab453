package trace

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wentworth/Malloc/malloc"
	"github.com/wentworth/Malloc/mem"
)

func newTestHeap(t *testing.T) *malloc.Heap {
	t.Helper()
	h, err := malloc.New(mem.NewBuffer(0), nil)
	require.NoError(t, err)
	return h
}

func mustParse(t *testing.T, input string) *Script {
	t.Helper()
	script, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	return script
}

func TestReplay_DrivesHeap(t *testing.T) {
	h := newTestHeap(t)
	script := mustParse(t, `
# two overlapping lifetimes, one resize
a 0 100
a 1 40
f 0
r 1 300
f 1
`)

	err := Replay(h, script, func(step int, op Op) error {
		return h.CheckErr()
	})
	require.NoError(t, err)

	stats := h.Stats()
	require.Equal(t, 3, stats.AllocCalls, "alloc + the moving resize")
	require.Equal(t, 3, stats.FreeCalls, "two frees + the resize's release")
	require.Equal(t, 1, stats.ReallocCalls)

	require.Len(t, h.Blocks(), 1, "everything freed, heap should re-coalesce")
	require.NoError(t, h.CheckErr())
}

func TestReplay_HookSeesEveryStep(t *testing.T) {
	h := newTestHeap(t)
	script := mustParse(t, "a 0 8\na 1 8\nf 0\nf 1\n")

	var steps []int
	err := Replay(h, script, func(step int, op Op) error {
		steps = append(steps, step)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3}, steps)
}

func TestReplay_NilHook(t *testing.T) {
	h := newTestHeap(t)
	require.NoError(t, Replay(h, mustParse(t, "a 0 64\nf 0\n"), nil))
}

func TestReplay_HookErrorStops(t *testing.T) {
	h := newTestHeap(t)
	script := mustParse(t, "a 0 8\na 1 8\na 2 8\na 3 8\n")

	boom := errors.New("hook tripped")
	err := Replay(h, script, func(step int, op Op) error {
		if step == 1 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "step 1")
	require.Equal(t, 2, h.Stats().AllocCalls, "ops after the failing hook must not run")
}

func TestReplay_RejectsDuplicateLiveID(t *testing.T) {
	h := newTestHeap(t)
	err := Replay(h, mustParse(t, "a 0 8\na 0 8\n"), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already live")
	require.Contains(t, err.Error(), "step 1")
}

func TestReplay_RejectsUnknownIDs(t *testing.T) {
	h := newTestHeap(t)

	err := Replay(h, mustParse(t, "f 5\n"), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "free of unknown id 5")

	err = Replay(h, mustParse(t, "r 9 64\n"), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "resize of unknown id 9")
}

func TestReplay_FreedIDCanBeReused(t *testing.T) {
	h := newTestHeap(t)
	script := mustParse(t, "a 0 64\nf 0\na 0 32\nf 0\n")
	require.NoError(t, Replay(h, script, nil))
	require.Len(t, h.Blocks(), 1)
}

func TestReplay_ResizeToZeroReleasesID(t *testing.T) {
	h := newTestHeap(t)
	script := mustParse(t, "a 1 64\nr 1 0\na 1 16\nf 1\n")
	require.NoError(t, Replay(h, script, nil))

	stats := h.Stats()
	require.Equal(t, 1, stats.ReallocCalls)
	require.Len(t, h.Blocks(), 1)
}

func TestReplay_ZeroSizeAllocIsFreeable(t *testing.T) {
	h := newTestHeap(t)
	require.NoError(t, Replay(h, mustParse(t, "a 0 0\nf 0\n"), nil))
	require.Equal(t, 0, h.Stats().FreeCalls, "freeing the null pointer is not counted")
}

func TestReplay_AllocatorErrorWrapped(t *testing.T) {
	h, err := malloc.New(mem.NewBuffer(336), nil)
	require.NoError(t, err)

	err = Replay(h, mustParse(t, "a 0 100\na 1 200\n"), nil)
	require.ErrorIs(t, err, malloc.ErrOutOfMemory)
	require.Contains(t, err.Error(), "step 1")
	require.Contains(t, err.Error(), "a 1 200")
}

func TestReplay_NoFreeWrapper(t *testing.T) {
	nf := malloc.NewNoFree(newTestHeap(t))
	script := mustParse(t, "a 0 40\na 1 40\nf 0\nf 1\na 2 40\n")

	require.NoError(t, Replay(nf, script, nil))
	require.Equal(t, 2, nf.Skipped)

	// Swallowed frees leave every allocation live.
	live := 0
	for _, b := range nf.Heap().Blocks() {
		if b.Allocated {
			live++
		}
	}
	require.Equal(t, 3, live)
	require.NoError(t, nf.Heap().CheckErr())
}

func TestReplay_LongWorkloadStaysValid(t *testing.T) {
	h := newTestHeap(t)

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString((Op{Kind: OpAlloc, ID: i, Size: 8 + i*13}).String())
		sb.WriteByte('\n')
	}
	for i := 0; i < 40; i += 2 {
		sb.WriteString((Op{Kind: OpFree, ID: i}).String())
		sb.WriteByte('\n')
	}
	for i := 1; i < 40; i += 2 {
		sb.WriteString((Op{Kind: OpRealloc, ID: i, Size: 16 + i*7}).String())
		sb.WriteByte('\n')
	}
	for i := 1; i < 40; i += 2 {
		sb.WriteString((Op{Kind: OpFree, ID: i}).String())
		sb.WriteByte('\n')
	}

	err := Replay(h, mustParse(t, sb.String()), func(step int, op Op) error {
		return h.CheckErr()
	})
	require.NoError(t, err)
	require.Len(t, h.Blocks(), 1)
}

func TestReplay_Deterministic(t *testing.T) {
	script := mustParse(t, `
a 0 100
a 1 40
a 2 200
f 1
r 0 300
a 3 24
f 2
r 3 8
f 0
`)

	h1 := newTestHeap(t)
	h2 := newTestHeap(t)
	require.NoError(t, Replay(h1, script, nil))
	require.NoError(t, Replay(h2, script, nil))

	require.Equal(t, h1.Blocks(), h2.Blocks(), "same script, same layout")
	require.Equal(t, h1.Stats(), h2.Stats())
}
