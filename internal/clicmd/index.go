package clicmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doctree-search/doctree/internal/config"
	"github.com/doctree-search/doctree/internal/docindex"
	"github.com/doctree-search/doctree/internal/manifest"
)

var (
	quietFlag bool
	watchFlag bool
	fullFlag  bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index configured trees into the local chunk index",
	Long: `Index walks every tree configured in .doctree/config.toml, diffs it
against the on-disk manifest, and reparses added or modified files into
hierarchical chunks stored in the bleve index.

Examples:
  docsearch index
  docsearch index --full
  docsearch index --watch
`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable the progress bar and print a one-line summary")
	indexCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "after the initial pass, watch trees and reindex incrementally")
	indexCmd.Flags().BoolVar(&fullFlag, "full", false, "force a full reindex (delete_all, reparse every file)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted.")
		os.Exit(130)
	}()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.IndexDir), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	idx, err := docindex.Open(cfg.IndexDir)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer idx.Close()

	manifestDir := filepath.Dir(cfg.IndexDir)
	ix := &manifest.Indexer{Dir: manifestDir, Trees: manifestTrees(cfg), Index: idx}

	configBytes, err := configFingerprint(cfg)
	if err != nil {
		return fmt.Errorf("fingerprint configuration: %w", err)
	}

	stats, err := runOnePass(ix, fullFlag, configBytes)
	if err != nil {
		return err
	}
	printIndexStats(stats, quietFlag)

	if !watchFlag {
		return nil
	}

	if !quietFlag {
		fmt.Println("Watching for changes (ctrl-c to stop)...")
	}
	watcher, err := manifest.NewWatcher(ix, func() []byte { return configBytes })
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	watcher.Start()
	defer watcher.Stop()

	<-cmd.Context().Done()
	return nil
}

func runOnePass(ix *manifest.Indexer, full bool, configBytes []byte) (*manifest.IndexStats, error) {
	reporter := newIndexProgressReporter(quietFlag)
	ix.OnFileIndexed = reporter.onFileIndexed
	stats, err := ix.Run(full, configBytes)
	reporter.finish()
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	return stats, nil
}

func printIndexStats(stats *manifest.IndexStats, quiet bool) {
	if quiet {
		fmt.Printf("indexed: %d chunks (%d added, %d modified, %d removed)\n",
			stats.ChunksIndexed, stats.FilesAdded, stats.FilesModified, stats.FilesRemoved)
		return
	}
	fmt.Printf("\nIndexing complete:\n")
	fmt.Printf("  files:  %d added, %d modified, %d removed\n", stats.FilesAdded, stats.FilesModified, stats.FilesRemoved)
	fmt.Printf("  chunks: %d indexed\n", stats.ChunksIndexed)
	if len(stats.ParseErrors) > 0 {
		fmt.Printf("  errors: %d files skipped\n", len(stats.ParseErrors))
		for _, pe := range stats.ParseErrors {
			fmt.Printf("    %s: %v\n", pe.AbsPath, pe.Err)
		}
	}
}

func manifestTrees(cfg *config.Config) []manifest.Tree {
	trees := make([]manifest.Tree, 0, len(cfg.Trees))
	for _, t := range cfg.Trees {
		trees = append(trees, manifest.Tree{Name: t.Name, Path: t.Path, Include: t.Include, Exclude: t.Exclude})
	}
	return trees
}

// configFingerprint serializes the parts of the config that affect
// parsing/indexing so manifest.ConfigHash can detect a config change
// that should force a full reindex (spec.md §4.6).
func configFingerprint(cfg *config.Config) ([]byte, error) {
	var buf []byte
	for _, t := range cfg.Trees {
		buf = append(buf, []byte(t.Name+"|"+t.Path+"|")...)
		for _, p := range t.Include {
			buf = append(buf, []byte(p+",")...)
		}
		for _, p := range t.Exclude {
			buf = append(buf, []byte(p+",")...)
		}
		buf = append(buf, '\n')
	}
	return buf, nil
}
