package block

import "testing"

func TestAlignUp(t *testing.T) {
	cases := [][2]int{
		{0, 0}, {1, 8}, {7, 8}, {8, 8}, {9, 16}, {16, 16}, {17, 24}, {4095, 4096},
	}
	for _, c := range cases {
		if got := AlignUp(c[0]); got != c[1] {
			t.Fatalf("AlignUp(%d)=%d want %d", c[0], got, c[1])
		}
	}
}

func TestAdjustSize(t *testing.T) {
	cases := [][2]int{
		{1, MinBlockSize},
		{8, MinBlockSize},
		{9, MinBlockSize},  // 9+8 rounds to 24
		{16, MinBlockSize}, // 16+8 is exactly 24
		{17, 32},
		{24, 32},
		{25, 40},
		{100, 112},
		{4096, 4104},
	}
	for _, c := range cases {
		if got := AdjustSize(c[0]); got != c[1] {
			t.Fatalf("AdjustSize(%d)=%d want %d", c[0], got, c[1])
		}
	}

	// The carved block always fits the request plus framing.
	for req := 1; req <= 600; req++ {
		size := AdjustSize(req)
		if size < req+Overhead && req > Alignment {
			t.Fatalf("AdjustSize(%d)=%d leaves no room for tags", req, size)
		}
		if size%Alignment != 0 || size < MinBlockSize {
			t.Fatalf("AdjustSize(%d)=%d not a legal block size", req, size)
		}
	}
}
