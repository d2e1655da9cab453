package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wentworth/Malloc/malloc/verify"
	"github.com/wentworth/Malloc/mem"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <image>",
		Short: "Validate a heap image against all invariants",
		Long: `The check command opens a heap image file and runs the full invariant
checker over it: sentinel blocks, the boundary-tag walk, free-list
consistency, and the count cross-check. Every fault is reported with its
byte offset. The command works on images too damaged to open normally.

Example:
  memctl check heap.img
  memctl check heap.img --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}
	return cmd
}

func runCheck(args []string) error {
	imagePath := args[0]

	if _, err := os.Stat(imagePath); os.IsNotExist(err) {
		return fmt.Errorf("image file not found: %s", imagePath)
	}

	printVerbose("Checking image: %s\n", imagePath)

	f, err := mem.OpenFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	faults := verify.Collect(f.Bytes())

	// Output as JSON if requested
	if jsonOut {
		result := map[string]interface{}{
			"file":  imagePath,
			"size":  f.Size(),
			"valid": len(faults) == 0,
		}
		if len(faults) > 0 {
			msgs := make([]string, len(faults))
			for i, v := range faults {
				msgs[i] = v.Error()
			}
			result["faults"] = msgs
		}
		return printJSON(result)
	}

	// Text output
	printInfo("\nChecking %s...\n\n", imagePath)
	printInfo("Image:\n")
	printInfo("  Size: %s (%s bytes)\n", formatBytes(int64(f.Size())), formatNumber(int64(f.Size())))

	printInfo("\nInvariants:\n")
	if len(faults) == 0 {
		printInfo("  ✓ Sentinel blocks intact\n")
		printInfo("  ✓ Heap walk clean\n")
		printInfo("  ✓ Free lists consistent\n")
		printInfo("  ✓ Block counts agree\n")
		printInfo("\nResult: ✓ VALID\n")
		return nil
	}

	for _, v := range faults {
		printInfo("  ✗ %v\n", v)
	}
	printInfo("\nResult: ✗ INVALID (%d faults)\n", len(faults))
	return fmt.Errorf("image failed validation with %d faults", len(faults))
}
