package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkjournal"
	"github.com/aretw0/inkjournal/pkg/config"
	"github.com/aretw0/inkjournal/pkg/core"
)

var (
	verbose    bool
	journalDir string
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inkjournal",
	Short: "A handwriting journal stored as plain files",
	Long: `inkjournal keeps handwritten notes as smoothed pen strokes, one JSON or YAML
record per note. Notes can be searched by their recognized text, exported to
PDF and optionally versioned with Git.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&journalDir, "dir", "d", "", "Journal directory (default: nearest journal above the working directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <journal>/"+config.FileName+")")
}

// journalRoot resolves the journal directory from --dir or the working
// directory.
func journalRoot() string {
	if journalDir != "" {
		return journalDir
	}
	wd, err := os.Getwd()
	if err != nil {
		fatal("Failed to get CWD", err)
	}
	if root, err := inkjournal.FindJournalRoot(wd); err == nil {
		return root
	}
	return wd
}

func loadConfig(root string) config.Config {
	path := configPath
	if path == "" {
		path = filepath.Join(root, config.FileName)
	}
	cfg, err := config.Load(path)
	if err != nil {
		fatal("Failed to load config", err)
	}
	return cfg
}

// openJournal opens an existing journal with its configuration applied.
func openJournal(extra ...inkjournal.Option) (*core.Service, config.Config) {
	root := journalRoot()
	cfg := loadConfig(root)
	logger := slog.Default()

	opts := []inkjournal.Option{
		inkjournal.WithMustExist(true),
		inkjournal.WithFormat(cfg.Format),
		inkjournal.WithLogger(logger),
	}
	if cfg.Versioning {
		opts = append(opts, inkjournal.WithVersioning(true))
	}
	if rec := cfg.TextRecognizer(logger); rec != nil {
		opts = append(opts, inkjournal.WithRecognizer(rec))
	}
	opts = append(opts, extra...)

	svc, err := inkjournal.New(root, opts...)
	if err != nil {
		fatal("Failed to open journal", err)
	}
	return svc, cfg
}
