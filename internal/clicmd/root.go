// Package clicmd is the cobra-based command surface for cmd/docsearch,
// deliberately kept thin and outside the core's tested surface (spec.md
// §1: "the CLI is a thin ambient collaborator, not part of the retrieval
// engine's contract"). Grounded on internal/cli/root.go's cobra root
// command construction and persistent-flag/env wiring.
package clicmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doctree-search/doctree/internal/config"
	"github.com/doctree-search/doctree/internal/docindex"
	"github.com/doctree-search/doctree/internal/search"
)

var (
	cfgFile string
	verbose bool
)

const defaultConfigPath = ".doctree/config.toml"

var rootCmd = &cobra.Command{
	Use:   "docsearch",
	Short: "doctree — local-first documentation retrieval",
	Long: `docsearch indexes Markdown and text trees into a hierarchical chunk
index and searches it with boolean/phrase/field queries, adaptive
result aggregation, and file-driven context search.`,
}

// Execute adds all child commands to the root command and runs it. It
// is the sole export cmd/docsearch/main.go calls.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default "+defaultConfigPath+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig resolves the --config flag (or its default) and loads it,
// tolerating a missing file by falling back to config.Default().
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = defaultConfigPath
	}
	return config.Load(path)
}

// openFacade opens the configured index and wraps it in a search facade.
// Callers are responsible for closing the returned index.
func openFacade(cfg *config.Config) (*search.Facade, *docindex.Index, error) {
	idx, err := docindex.Open(cfg.IndexDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open index at %s: %w", cfg.IndexDir, err)
	}
	return search.New(idx, cfg), idx, nil
}
