package block

import "testing"

func TestClassIndex(t *testing.T) {
	cases := []struct {
		size int
		want int
	}{
		{24, 0},   // 3 units, the minimum block
		{32, 1},   // 4 units
		{80, 7},   // 10 units
		{88, 8},   // 11 units spill into the <=12 class
		{96, 8},   // 12 units
		{104, 9},  // 13 units into <=16
		{128, 9},  // 16 units
		{136, 10}, // 17 units into <=32
		{256, 10},
		{264, 11},
		{16384, 16}, // 2048 units, last bounded class
		{16392, 17}, // beyond every limit
		{1 << 24, 17},
	}
	for _, c := range cases {
		if got := ClassIndex(c.size); got != c.want {
			t.Fatalf("ClassIndex(%d)=%d want %d", c.size, got, c.want)
		}
	}
}

func TestClassIndexMonotonic(t *testing.T) {
	prev := 0
	for size := MinBlockSize; size <= 1<<15; size += Alignment {
		idx := ClassIndex(size)
		if idx < prev {
			t.Fatalf("class index regressed at size %d: %d after %d", size, idx, prev)
		}
		if idx < 0 || idx >= NumClasses {
			t.Fatalf("class index %d out of range at size %d", idx, size)
		}
		prev = idx
	}
}
