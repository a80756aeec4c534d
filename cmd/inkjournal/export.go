package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkjournal/pkg/core"
	"github.com/aretw0/inkjournal/pkg/export"
)

var (
	exportDir string
	exportRaw bool
)

var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a note as a PDF page",
	Long: `Export renders a note on an A4 page with its recognized text and date, and
writes it as Note_<yyyyMMdd_HHmmss>.pdf into the export directory.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, cfg := openJournal()

		note, err := svc.GetNote(context.Background(), args[0])
		if err != nil {
			fatal("Failed to read note", err)
		}

		opts := export.DefaultOptions()
		opts.Smooth = cfg.Export.Smooth && !exportRaw
		opts.Window = cfg.Smoothing.Window

		dir := exportDir
		if dir == "" {
			dir = cfg.Export.Dir
		}

		path, err := export.ExportFile(note, dir, opts)
		if errors.Is(err, core.ErrNothingToExport) {
			fmt.Fprintln(os.Stderr, "No strokes to export")
			os.Exit(1)
		}
		if err != nil {
			fatal("Failed to export note", err)
		}
		fmt.Println("PDF saved to", path)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "", "Output directory (default: from config)")
	exportCmd.Flags().BoolVar(&exportRaw, "raw", false, "Draw the stored strokes without re-smoothing")
}
