package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkjournal"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of inkjournal",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("inkjournal version %s\n", strings.TrimSpace(inkjournal.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
