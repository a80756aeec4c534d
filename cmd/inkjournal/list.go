package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkjournal/pkg/core"
	"github.com/aretw0/inkjournal/pkg/export"
)

var (
	listJSON  bool
	listQuery string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes in the journal, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, _ := openJournal()

		summaries, err := svc.SearchNotes(context.Background(), listQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing notes: %v\n", err)
			os.Exit(1)
		}
		printSummaries(summaries, listJSON)
	},
}

func printSummaries(summaries []core.Summary, asJSON bool) {
	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(summaries); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
			os.Exit(1)
		}
		return
	}

	for _, s := range summaries {
		text := s.RecognizedText
		if text == "" {
			text = "(no text)"
		}
		fmt.Printf("%s  %s  %-3d strokes  %s\n", s.ID, export.FormatTimestamp(s.Timestamp, time.Local), s.StrokeCount, text)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Only notes whose recognized text contains the query")
}
