package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search notes by recognized text (case-insensitive)",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, _ := openJournal()

		hits, err := svc.SearchNotes(context.Background(), strings.Join(args, " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error searching notes: %v\n", err)
			os.Exit(1)
		}
		if len(hits) == 0 && !searchJSON {
			fmt.Println("No matching notes.")
			return
		}
		printSummaries(hits, searchJSON)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
}
