package clicmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/doctree-search/doctree/internal/rules"
	"github.com/doctree-search/doctree/internal/search"
)

var contextTreeRootFlag string

var contextCmd = &cobra.Command{
	Use:   "context <file> [file...]",
	Short: "Synthesize and run a context-aware query from one or more open files",
	Long: `Context reads one or more files, extracts path/content terms with the
configured context analyzer, applies any matching context_rules, and runs
the resulting query through the retrieval pipeline (spec.md §4.8/§4.9).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runContext,
}

func init() {
	rootCmd.AddCommand(contextCmd)
	addSearchParamFlags(contextCmd)
	contextCmd.Flags().StringVar(&contextTreeRootFlag, "root", "", "directory the given file paths are relative to (default: cwd)")
}

func runContext(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	facade, idx, err := openFacade(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	engine, err := rules.NewEngine(cfg.ContextRules)
	if err != nil {
		return fmt.Errorf("compile context rules: %w", err)
	}

	root := contextTreeRootFlag
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return fmt.Errorf("getwd: %w", err)
		}
	}

	files, err := readContextFiles(root, args)
	if err != nil {
		return err
	}

	outcome, err := facade.ContextSearch(files, engine, buildSearchParams())
	if err != nil {
		return fmt.Errorf("context search: %w", err)
	}
	printOutcome(outcome)
	return nil
}

func readContextFiles(root string, paths []string) ([]search.ContextFile, error) {
	files := make([]search.ContextFile, 0, len(paths))
	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(root, p)
		}
		content, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", abs, err)
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			rel = p
		}
		files = append(files, search.ContextFile{Path: rel, Content: content})
	}
	return files, nil
}
