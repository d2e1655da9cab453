package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wentworth/Malloc/malloc"
	"github.com/wentworth/Malloc/mem"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <image>",
		Short: "Validate a heap image and report basic metadata",
		Long: `The info command opens a heap image file, validates it, and displays
basic metadata: file size, region size, block and free-list totals.

Example:
  memctl info heap.img
  memctl info heap.img --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

type ImageInfo struct {
	FilePath     string
	FileSize     int64
	LastModified time.Time

	RegionSize int
	BlockCount int
	LiveBlocks int
	LiveBytes  int64
	FreeBlocks int
	FreeBytes  int64
}

func runInfo(args []string) error {
	imagePath := args[0]

	printVerbose("Opening image: %s\n", imagePath)

	stat, err := os.Stat(imagePath)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	f, err := mem.OpenFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	h, err := malloc.Open(f, nil)
	if err != nil {
		return fmt.Errorf("%w\n\nNote: run 'memctl check' for a fault-by-fault report", err)
	}

	info := ImageInfo{
		FilePath:     imagePath,
		FileSize:     stat.Size(),
		LastModified: stat.ModTime(),
		RegionSize:   h.Size(),
	}
	for _, b := range h.Blocks() {
		info.BlockCount++
		if b.Allocated {
			info.LiveBlocks++
			info.LiveBytes += int64(b.Size)
		} else {
			info.FreeBlocks++
			info.FreeBytes += int64(b.Size)
		}
	}

	// Output as JSON if requested
	if jsonOut {
		return printJSON(info)
	}

	// Text output
	printInfo("\nImage Information:\n")
	printInfo("  File: %s\n", imagePath)
	printInfo("  Size: %s (%s bytes)\n", formatBytes(info.FileSize), formatNumber(info.FileSize))
	printInfo("  Last Modified: %s\n", info.LastModified.Format("2006-01-02 15:04:05"))

	printInfo("\nHeap:\n")
	printInfo("  Region: %s bytes\n", formatNumber(int64(info.RegionSize)))
	printInfo("  Blocks: %d (%d live, %d free)\n", info.BlockCount, info.LiveBlocks, info.FreeBlocks)
	printInfo("  Live: %s\n", formatBytes(info.LiveBytes))
	printInfo("  Free: %s\n", formatBytes(info.FreeBytes))

	printInfo("\nValidation:\n")
	printInfo("  ✓ Structure valid\n")
	printInfo("  ✓ No corruption detected\n")

	return nil
}
