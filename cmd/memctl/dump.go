package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wentworth/Malloc/malloc"
	"github.com/wentworth/Malloc/mem"
)

var (
	dumpFormat     string
	dumpOutputFile string
)

var dumpCmd = &cobra.Command{
	Use:   "dump <image>",
	Short: "Dump every block of a heap image",
	Long: `Walks a heap image block by block and prints the full layout: each
block's offset, size, and state, the free-list occupancy per size class,
and the stored allocator shape.`,
	Example: `  # Human-readable layout
  memctl dump heap.img

  # Structured output for tooling
  memctl dump --format json heap.img

  # Save the dump to a file
  memctl dump --output layout.txt heap.img`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "text",
		"Output format: text, json (text=human-readable, json=structured)")
	dumpCmd.Flags().StringVarP(&dumpOutputFile, "output", "o", "",
		"Write dump to file instead of stdout")

	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	imagePath := args[0]

	if _, err := os.Stat(imagePath); os.IsNotExist(err) {
		return fmt.Errorf("image file not found: %s", imagePath)
	}

	var format malloc.Format
	switch dumpFormat {
	case "text":
		format = malloc.FormatText
	case "json":
		format = malloc.FormatJSON
	default:
		return fmt.Errorf("unknown format: %s (use: text, json)", dumpFormat)
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

	if dumpOutputFile != "" {
		out, err := os.Create(dumpOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()

		if err := h.Dump(out, format); err != nil {
			return fmt.Errorf("failed to write dump: %w", err)
		}
		printInfo("Dump written to: %s\n", dumpOutputFile)
		return nil
	}

	return h.Dump(os.Stdout, format)
}
