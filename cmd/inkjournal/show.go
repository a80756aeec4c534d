package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkjournal/pkg/export"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a note",
	Long:  `Show a note by its ID. Prints a summary by default, or the full record with --json.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, _ := openJournal()

		note, err := svc.GetNote(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading note: %v\n", err)
			os.Exit(1)
		}

		if showJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(note); err != nil {
				fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}

		fmt.Printf("ID:       %s\n", note.ID)
		fmt.Printf("Created:  %s\n", export.FormatTimestamp(note.Timestamp, time.Local))
		fmt.Printf("Strokes:  %d (%d points)\n", len(note.Strokes), note.PointCount())
		fmt.Printf("Text:     %s\n", note.RecognizedText)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}
