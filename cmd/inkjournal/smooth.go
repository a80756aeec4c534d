package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkjournal/pkg/ink"
)

var smoothWindow int

var smoothCmd = &cobra.Command{
	Use:   "smooth [strokes.json]",
	Short: "Smooth strokes without saving them",
	Long: `Read a JSON array of strokes from the given file or stdin and print the
smoothed strokes. Strokes shorter than the window are printed unchanged.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if smoothWindow <= 0 {
			fatal("Invalid window", fmt.Errorf("window must be positive, got %d", smoothWindow))
		}
		strokes, err := readStrokes(args)
		if err != nil {
			fatal("Failed to read strokes", err)
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(ink.SmoothStrokes(strokes, smoothWindow)); err != nil {
			fatal("Failed to encode strokes", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(smoothCmd)
	smoothCmd.Flags().IntVarP(&smoothWindow, "window", "w", ink.DefaultWindow, "Moving average window")
}
