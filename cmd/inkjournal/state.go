package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkjournal/pkg/adapters/fs"
)

var stateDiagram bool

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the internal state of the journal",
	Long:  `State prints the service and repository state as JSON, or as a Mermaid diagram with --diagram.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, _ := openJournal()

		// Populate the index so the numbers mean something.
		if _, err := svc.ListSummaries(context.Background()); err != nil {
			fatal("Failed to scan journal", err)
		}

		if stateDiagram {
			repo, ok := svc.Repository().(*fs.Repository)
			if !ok {
				fatal("Cannot draw diagram", fmt.Errorf("unsupported repository %T", svc.Repository()))
			}
			fmt.Println(repo.State().(fs.RepositoryState).Diagram())
			return
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(svc.State()); err != nil {
			fatal("Failed to encode state", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.Flags().BoolVar(&stateDiagram, "diagram", false, "Print a Mermaid diagram instead of JSON")
}
