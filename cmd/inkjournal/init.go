package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkjournal"
	"github.com/aretw0/inkjournal/pkg/config"
)

var (
	initFormat     string
	initVersioning bool
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a journal",
	Long: `Initialize a new journal in the current directory (or --dir). It writes a
default inkjournal.yaml and, with --git, runs 'git init'.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		root := journalDir
		if root == "" {
			cwd, err := os.Getwd()
			if err != nil {
				fatal("Failed to get CWD", err)
			}
			root = cwd
		}

		cfg := config.Default()
		cfg.Format = initFormat
		cfg.Versioning = initVersioning
		if err := cfg.Validate(); err != nil {
			fatal("Invalid options", err)
		}

		_, err := inkjournal.Init(root,
			inkjournal.WithAutoInit(true),
			inkjournal.WithFormat(cfg.Format),
			inkjournal.WithVersioning(cfg.Versioning),
			inkjournal.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to initialize journal", err)
		}

		path := filepath.Join(inkjournal.ResolveJournalPath(root, false), config.FileName)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := cfg.Save(path); err != nil {
				fatal("Failed to write config", err)
			}
		}

		fmt.Println("Initialized empty journal in", root)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initFormat, "format", "json", "Record format (json or yaml)")
	initCmd.Flags().BoolVar(&initVersioning, "git", false, "Version the journal with Git")
}
