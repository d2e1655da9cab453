package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wentworth/Malloc/malloc"
	"github.com/wentworth/Malloc/mem"
	"github.com/wentworth/Malloc/trace"
)

var statsNoFree bool

func init() {
	cmd := newStatsCmd()
	cmd.Flags().BoolVar(&statsNoFree, "no-free", false, "Replay in append-only mode")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <trace>",
		Short: "Replay a trace and show detailed statistics",
		Long: `The stats command replays a trace script against an in-memory heap and
shows detailed statistics: the op mix, allocator counters, and the shape of
the final heap including size-class occupancy.

Example:
  memctl stats workload.trace
  memctl stats workload.trace --no-free
  memctl stats workload.trace --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

type TraceStats struct {
	Trace string
	Ops   int

	Allocs   int
	Reallocs int
	Frees    int

	RegionSize int
	BlockCount int
	LiveBlocks int
	LiveBytes  int64
	FreeBlocks int
	FreeBytes  int64

	FreeByClass map[int]int
	LiveSizes   map[string]int // <100, 100-1K, 1K-10K, >10K

	LargestLive struct {
		Offset int
		Size   int
	}
	LargestFree struct {
		Offset int
		Size   int
	}

	Stats malloc.Stats
}

func runStats(args []string) error {
	tracePath := args[0]

	script, err := trace.ParseFile(tracePath)
	if err != nil {
		return err
	}
	printVerbose("Parsed %s: %d ops\n", script.Name, len(script.Ops))

	stats := TraceStats{
		Trace:       script.Name,
		Ops:         len(script.Ops),
		FreeByClass: make(map[int]int),
		LiveSizes:   make(map[string]int),
	}
	for _, op := range script.Ops {
		switch op.Kind {
		case trace.OpAlloc:
			stats.Allocs++
		case trace.OpRealloc:
			stats.Reallocs++
		case trace.OpFree:
			stats.Frees++
		}
	}

	h, err := malloc.New(mem.NewBuffer(0), nil)
	if err != nil {
		return err
	}
	var alloc malloc.Allocator = h
	if statsNoFree {
		alloc = malloc.NewNoFree(h)
	}

	if err := trace.Replay(alloc, script, nil); err != nil {
		return err
	}
	if err := h.CheckErr(); err != nil {
		return fmt.Errorf("heap invalid after replay: %w", err)
	}

	stats.RegionSize = h.Size()
	for _, b := range h.Blocks() {
		stats.BlockCount++
		if b.Allocated {
			stats.LiveBlocks++
			stats.LiveBytes += int64(b.Size)

			switch {
			case b.Size < 100:
				stats.LiveSizes["<100"]++
			case b.Size < 1024:
				stats.LiveSizes["100-1K"]++
			case b.Size < 10240:
				stats.LiveSizes["1K-10K"]++
			default:
				stats.LiveSizes[">10K"]++
			}
			if b.Size > stats.LargestLive.Size {
				stats.LargestLive.Offset = b.Offset
				stats.LargestLive.Size = b.Size
			}
		} else {
			stats.FreeBlocks++
			stats.FreeBytes += int64(b.Size)
			stats.FreeByClass[b.Class]++
			if b.Size > stats.LargestFree.Size {
				stats.LargestFree.Offset = b.Offset
				stats.LargestFree.Size = b.Size
			}
		}
	}
	stats.Stats = h.Stats()

	// Output as JSON if requested
	if jsonOut {
		return printJSON(stats)
	}

	// Text output
	printInfo("\nTrace Statistics: %s\n", stats.Trace)
	printInfo("%s\n\n", strings.Repeat("=", 40))

	printInfo("Workload:\n")
	printInfo("  Ops: %s\n", formatNumber(int64(stats.Ops)))
	printInfo("  Allocs: %s\n", formatNumber(int64(stats.Allocs)))
	printInfo("  Reallocs: %s\n", formatNumber(int64(stats.Reallocs)))
	printInfo("  Frees: %s\n\n", formatNumber(int64(stats.Frees)))

	printInfo("Final Heap:\n")
	printInfo("  Region: %s (%s bytes)\n", formatBytes(int64(stats.RegionSize)), formatNumber(int64(stats.RegionSize)))
	printInfo("  Blocks: %d (%d live, %d free)\n", stats.BlockCount, stats.LiveBlocks, stats.FreeBlocks)
	printInfo("  Live: %s\n", formatBytes(stats.LiveBytes))
	printInfo("  Free: %s\n", formatBytes(stats.FreeBytes))
	if stats.LargestLive.Size > 0 {
		printInfo("  Largest live block: %s at 0x%X\n",
			formatBytes(int64(stats.LargestLive.Size)), stats.LargestLive.Offset)
	}
	if stats.LargestFree.Size > 0 {
		printInfo("  Largest free block: %s at 0x%X\n",
			formatBytes(int64(stats.LargestFree.Size)), stats.LargestFree.Offset)
	}
	printInfo("\n")

	if len(stats.FreeByClass) > 0 {
		printInfo("Free Blocks by Class:\n")
		classes := make([]int, 0, len(stats.FreeByClass))
		for class := range stats.FreeByClass {
			classes = append(classes, class)
		}
		sort.Ints(classes)
		for _, class := range classes {
			printInfo("  Class %d: %s blocks\n", class, formatNumber(int64(stats.FreeByClass[class])))
		}
		printInfo("\n")
	}

	if len(stats.LiveSizes) > 0 {
		printInfo("Live Size Distribution:\n")
		order := []string{"<100", "100-1K", "1K-10K", ">10K"}
		for _, bucket := range order {
			if count, ok := stats.LiveSizes[bucket]; ok {
				percentage := float64(count) * 100.0 / float64(stats.LiveBlocks)
				printInfo("  Blocks %s bytes: %s (%.1f%%)\n", bucket, formatNumber(int64(count)), percentage)
			}
		}
		printInfo("\n")
	}

	s := stats.Stats
	printInfo("Allocator Counters:\n")
	printInfo("  Calls: %d alloc, %d free, %d realloc, %d calloc\n",
		s.AllocCalls, s.FreeCalls, s.ReallocCalls, s.CallocCalls)
	printInfo("  Placement: %d fit hits, %d splits\n", s.FitHits, s.SplitCount)
	printInfo("  Growth: %d extensions (%s)\n", s.GrowCalls, formatBytes(s.GrowBytes))
	printInfo("  Coalesces: %d none, %d right, %d left, %d both\n",
		s.CoalesceNone, s.CoalesceRight, s.CoalesceLeft, s.CoalesceBoth)

	return nil
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	// Add commas
	var result strings.Builder
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}
