package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testWorkload = `# mixed lifetime workload
a 0 100
a 1 40
a 2 200
f 1
r 0 300
f 2
f 0
`

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name           string
		trace          string
		noFree         bool
		checkEvery     int
		showStats      bool
		wantErr        bool
		wantJSON       bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:        "replay in memory",
			trace:       testWorkload,
			wantContain: []string{"Replay:", "Ops: 7", "Utilization", "✓ heap valid"},
			wantNotContain: []string{
				"Skipped releases", "Allocator:",
			},
		},
		{
			name:        "replay with stats",
			trace:       testWorkload,
			showStats:   true,
			wantContain: []string{"Allocator:", "Coalesces:", "fit hits"},
		},
		{
			name:        "replay without frees",
			trace:       testWorkload,
			noFree:      true,
			wantContain: []string{"Skipped releases: 4"},
		},
		{
			name:        "replay with periodic checks",
			trace:       testWorkload,
			checkEvery:  2,
			wantContain: []string{"✓ heap valid"},
		},
		{
			name:        "json report",
			trace:       testWorkload,
			wantJSON:    true,
			wantContain: []string{`"Ops": 7`, `"RegionSize"`, `"Stats"`},
		},
		{
			name:    "malformed trace",
			trace:   "a 0 100\nbogus line\n",
			wantErr: true,
		},
		{
			name:    "free of unknown id",
			trace:   "f 0\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags
			quiet = false
			verbose = false
			jsonOut = tt.wantJSON
			runImage = ""
			runNoFree = tt.noFree
			runCheckEvery = tt.checkEvery
			runShowStats = tt.showStats

			args := []string{writeTrace(t, tt.trace)}

			output, err := captureOutput(t, func() error {
				return runRun(args)
			})

			if (err != nil) != tt.wantErr {
				t.Errorf("runRun() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantJSON {
				assertJSON(t, output)
			}

			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestRunCommand_MissingTrace(t *testing.T) {
	quiet = true
	jsonOut = false
	runImage = ""
	runNoFree = false
	runCheckEvery = 0
	runShowStats = false

	_, err := captureOutput(t, func() error {
		return runRun([]string{"does-not-exist.trace"})
	})
	if err == nil {
		t.Fatal("expected error for missing trace file")
	}
	if !strings.Contains(err.Error(), "opening script") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunCommand_WritesImage(t *testing.T) {
	quiet = true
	jsonOut = false
	runNoFree = false
	runCheckEvery = 0
	runShowStats = false
	runImage = filepath.Join(t.TempDir(), "heap.img")
	defer func() { runImage = "" }()

	tracePath := writeTrace(t, "a 0 100\na 1 50\nf 0\n")

	if _, err := captureOutput(t, func() error {
		return runRun([]string{tracePath})
	}); err != nil {
		t.Fatalf("runRun() failed: %v", err)
	}

	stat, err := os.Stat(runImage)
	if err != nil {
		t.Fatalf("image not written: %v", err)
	}
	if stat.Size() == 0 {
		t.Fatal("image file is empty")
	}

	// The written image should pass a full check.
	if _, err := captureOutput(t, func() error {
		return runCheck([]string{runImage})
	}); err != nil {
		t.Errorf("written image failed check: %v", err)
	}
}
