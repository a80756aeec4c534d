package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkjournal/pkg/core"
	"github.com/aretw0/inkjournal/pkg/ink"
)

var (
	addID      string
	addRaw     bool
	addMessage string
	addWindow  int
)

var addCmd = &cobra.Command{
	Use:   "add [strokes.json]",
	Short: "Add or replace a note from captured strokes",
	Long: `Read a JSON array of strokes ({"points": [{"x","y","timestamp"}]}) from the
given file or stdin, smooth each stroke and save it as a note. With --id the
note is replaced; otherwise a new ID is allocated.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		strokes, err := readStrokes(args)
		if err != nil {
			fatal("Failed to read strokes", err)
		}

		svc, cfg := openJournal()

		ctx := context.Background()
		if addMessage != "" {
			ctx = context.WithValue(ctx, core.ChangeReasonKey, addMessage)
		}

		var note core.Note
		if addRaw {
			note, err = svc.SaveNote(ctx, addID, strokes)
		} else {
			window := cfg.Smoothing.Window
			if addWindow > 0 {
				window = addWindow
			}
			session := ink.NewSession(ink.WithWindow(window), ink.WithID(addID))
			for _, s := range strokes {
				session.AddStroke(s.Points)
			}
			note, err = session.Save(ctx, svc)
		}
		if err != nil {
			fatal("Failed to save note", err)
		}

		fmt.Printf("Note %s saved (%d strokes).\n", note.ID, len(note.Strokes))
		if note.RecognizedText != "" {
			fmt.Printf("Recognized: %s\n", note.RecognizedText)
		}
	},
}

// readStrokes decodes a stroke array from the named file, or stdin.
func readStrokes(args []string) ([]core.Stroke, error) {
	var r io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var strokes []core.Stroke
	if err := json.NewDecoder(r).Decode(&strokes); err != nil {
		return nil, fmt.Errorf("invalid stroke data: %w", err)
	}
	return strokes, nil
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addID, "id", "", "Note ID (default: new ID)")
	addCmd.Flags().BoolVar(&addRaw, "raw", false, "Store the strokes without smoothing")
	addCmd.Flags().IntVar(&addWindow, "window", 0, "Smoothing window (default: from config)")
	addCmd.Flags().StringVarP(&addMessage, "message", "m", "", "Change reason (commit message when versioned)")
}
