package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note from the journal",
	Long:  `Delete permanently removes a note. In a versioned journal the deletion is committed.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		svc, _ := openJournal()

		if err := svc.DeleteNote(context.Background(), id); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting note: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Note deleted: %s\n", id)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
