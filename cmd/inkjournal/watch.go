package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkjournal/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Print changes to the journal as they happen",
	Long: `Watch prints a line for every note created, modified or deleted, including
changes made by other programs or by Git. The optional pattern filters note
IDs (glob syntax, ** allowed).`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}
		svc, _ := openJournal()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		src := lifecycle.NewSource(svc, pattern)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to watch journal", err)
		}
		fmt.Fprintln(os.Stderr, "Watching for changes (Ctrl+C to stop)...")

		for e := range src.Events() {
			fmt.Printf("%s  %s\n", time.Now().Format("15:04:05"), e)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
