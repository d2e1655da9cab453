package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wentworth/Malloc/malloc"
	"github.com/wentworth/Malloc/mem"
	"github.com/wentworth/Malloc/trace"
)

var (
	runImage      string
	runNoFree     bool
	runCheckEvery int
	runShowStats  bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().StringVar(&runImage, "image", "", "Replay onto a file-backed heap image (created or overwritten)")
	cmd.Flags().BoolVar(&runNoFree, "no-free", false, "Swallow frees instead of releasing blocks")
	cmd.Flags().IntVar(&runCheckEvery, "check-every", 0, "Validate heap invariants every N steps (0 = only at the end)")
	cmd.Flags().BoolVar(&runShowStats, "stats", false, "Print full allocator counters after the replay")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <trace>",
		Short: "Replay a trace script against a fresh heap",
		Long: `The run command parses a trace script and replays it against a fresh
heap. By default the heap lives in memory and is discarded afterwards;
--image replays onto a file-backed region and syncs it to disk, so the
resulting image can be inspected with check, info, and dump.

Example:
  memctl run workload.trace
  memctl run workload.trace --image heap.img
  memctl run workload.trace --no-free --stats
  memctl run workload.trace --check-every 100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
	return cmd
}

// RunReport is the summary printed after a replay.
type RunReport struct {
	Trace    string
	Ops      int
	Duration time.Duration

	RegionSize int
	BlockCount int
	LiveBlocks int
	LiveBytes  int64
	FreeBlocks int
	FreeBytes  int64

	// Skipped counts swallowed frees; only meaningful with --no-free.
	Skipped int

	Stats malloc.Stats
}

func runRun(args []string) error {
	tracePath := args[0]

	script, err := trace.ParseFile(tracePath)
	if err != nil {
		return err
	}
	printVerbose("Parsed %s: %d ops\n", script.Name, len(script.Ops))

	var region mem.Region
	if runImage != "" {
		f, err := mem.CreateFile(runImage)
		if err != nil {
			return fmt.Errorf("failed to create image: %w", err)
		}
		defer f.Close()
		region = f
		printVerbose("Replaying onto image: %s\n", runImage)
	} else {
		region = mem.NewBuffer(0)
	}

	h, err := malloc.New(region, nil)
	if err != nil {
		return err
	}

	var alloc malloc.Allocator = h
	var nf *malloc.NoFree
	if runNoFree {
		nf = malloc.NewNoFree(h)
		alloc = nf
	}

	var hook trace.Hook
	if runCheckEvery > 0 {
		every := runCheckEvery
		hook = func(step int, op trace.Op) error {
			if (step+1)%every == 0 {
				return h.CheckErr()
			}
			return nil
		}
	}

	start := time.Now()
	if err := trace.Replay(alloc, script, hook); err != nil {
		return err
	}
	elapsed := time.Since(start)

	// The replay may have succeeded op by op and still left a broken heap;
	// that would be an allocator bug worth failing loudly on.
	if err := h.CheckErr(); err != nil {
		return fmt.Errorf("heap invalid after replay: %w", err)
	}

	if f, ok := region.(*mem.File); ok {
		if err := f.Sync(); err != nil {
			return fmt.Errorf("failed to sync image: %w", err)
		}
		printVerbose("Image written: %s (%d bytes)\n", runImage, f.Size())
	}

	report := buildRunReport(script, h, nf, elapsed)

	if jsonOut {
		return printJSON(report)
	}
	printRunReport(report)
	return nil
}

func buildRunReport(script *trace.Script, h *malloc.Heap, nf *malloc.NoFree, elapsed time.Duration) RunReport {
	report := RunReport{
		Trace:    script.Name,
		Ops:      len(script.Ops),
		Duration: elapsed,
		Stats:    h.Stats(),
	}
	if nf != nil {
		report.Skipped = nf.Skipped
	}

	report.RegionSize = h.Size()
	for _, b := range h.Blocks() {
		report.BlockCount++
		if b.Allocated {
			report.LiveBlocks++
			report.LiveBytes += int64(b.Size)
		} else {
			report.FreeBlocks++
			report.FreeBytes += int64(b.Size)
		}
	}
	return report
}

func printRunReport(r RunReport) {
	printInfo("\nReplay: %s\n", r.Trace)
	printInfo("%s\n\n", strings.Repeat("=", 40))

	printInfo("Workload:\n")
	printInfo("  Ops: %s\n", formatNumber(int64(r.Ops)))
	printInfo("  Time: %v\n", r.Duration.Round(time.Microsecond))
	if runNoFree {
		printInfo("  Skipped releases: %s\n", formatNumber(int64(r.Skipped)))
	}

	printInfo("\nHeap:\n")
	printInfo("  Region: %s (%s bytes)\n", formatBytes(int64(r.RegionSize)), formatNumber(int64(r.RegionSize)))
	printInfo("  Blocks: %d (%d live, %d free)\n", r.BlockCount, r.LiveBlocks, r.FreeBlocks)
	printInfo("  Live: %s\n", formatBytes(r.LiveBytes))
	printInfo("  Free: %s\n", formatBytes(r.FreeBytes))
	if r.RegionSize > 0 {
		printInfo("  Utilization: %.1f%%\n", float64(r.LiveBytes)*100.0/float64(r.RegionSize))
	}

	if runShowStats {
		s := r.Stats
		printInfo("\nAllocator:\n")
		printInfo("  Calls: %d alloc, %d free, %d realloc, %d calloc\n",
			s.AllocCalls, s.FreeCalls, s.ReallocCalls, s.CallocCalls)
		printInfo("  Placement: %d fit hits, %d splits\n", s.FitHits, s.SplitCount)
		printInfo("  Growth: %d extensions (%s)\n", s.GrowCalls, formatBytes(s.GrowBytes))
		printInfo("  Coalesces: %d none, %d right, %d left, %d both\n",
			s.CoalesceNone, s.CoalesceRight, s.CoalesceLeft, s.CoalesceBoth)
		printInfo("  Traffic: %s allocated, %s freed\n",
			formatBytes(s.BytesAllocated), formatBytes(s.BytesFreed))
	}

	printInfo("\nResult: ✓ heap valid after %s ops\n", formatNumber(int64(r.Ops)))
}
