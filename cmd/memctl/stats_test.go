package main

import (
	"testing"
)

func TestStatsCommand(t *testing.T) {
	tests := []struct {
		name        string
		trace       string
		noFree      bool
		wantJSON    bool
		wantErr     bool
		wantContain []string
	}{
		{
			name:  "mixed workload",
			trace: testWorkload,
			wantContain: []string{
				"Trace Statistics:",
				"Allocs: 3",
				"Reallocs: 1",
				"Frees: 3",
				"Final Heap:",
				"Free Blocks by Class:",
				"Allocator Counters:",
			},
		},
		{
			name:   "live blocks survive no-free",
			trace:  testWorkload,
			noFree: true,
			wantContain: []string{
				"Live Size Distribution:",
				"Largest live block:",
			},
		},
		{
			name:        "json stats",
			trace:       testWorkload,
			wantJSON:    true,
			wantContain: []string{`"Allocs": 3`, `"FreeByClass"`, `"Stats"`},
		},
		{
			name:    "malformed trace",
			trace:   "r one 2\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags
			quiet = false
			verbose = false
			jsonOut = tt.wantJSON
			statsNoFree = tt.noFree

			args := []string{writeTrace(t, tt.trace)}

			output, err := captureOutput(t, func() error {
				return runStats(args)
			})

			if (err != nil) != tt.wantErr {
				t.Errorf("runStats() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantJSON {
				assertJSON(t, output)
			}

			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{1536, "1.5 KB"},
		{5 << 20, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
