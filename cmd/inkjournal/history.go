package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkjournal/pkg/git"
)

type historian interface {
	History(ctx context.Context, id string) ([]git.Commit, error)
}

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show the commits that touched a note",
	Long:  `History lists the Git commits of a note, newest first. The journal must be versioned.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, _ := openJournal()

		h, ok := svc.Repository().(historian)
		if !ok {
			fmt.Fprintln(os.Stderr, "Error: this journal does not keep history")
			os.Exit(1)
		}
		commits, err := h.History(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading history: %v\n", err)
			os.Exit(1)
		}
		for _, c := range commits {
			fmt.Printf("%.8s  %s  %s\n", c.Hash, c.When.Format("2006-01-02 15:04"), c.Message)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
