package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkjournal/pkg/core"
	"github.com/aretw0/inkjournal/pkg/export"
)

var (
	previewOut string
	previewFit bool
)

var previewCmd = &cobra.Command{
	Use:   "preview [id]",
	Short: "Render a note as a PNG image",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, _ := openJournal()

		note, err := svc.GetNote(context.Background(), args[0])
		if err != nil {
			fatal("Failed to read note", err)
		}

		opts := export.DefaultPreviewOptions()
		opts.FitToCanvas = previewFit

		var buf bytes.Buffer
		err = export.Preview(note, &buf, opts)
		if errors.Is(err, core.ErrNothingToExport) {
			fmt.Fprintln(os.Stderr, "No strokes to export")
			os.Exit(1)
		}
		if err != nil {
			fatal("Failed to render note", err)
		}

		out := previewOut
		if out == "" {
			out = note.ID + ".png"
		}
		if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
			fatal("Failed to write preview", err)
		}
		fmt.Println("Preview saved to", out)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "Output file (default: <id>.png)")
	previewCmd.Flags().BoolVar(&previewFit, "fit", false, "Scale the drawing to the canvas")
}
