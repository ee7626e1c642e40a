package clicmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doctree-search/doctree/internal/search"
)

var similarCmd = &cobra.Command{
	Use:   "similar <tree:path[#chunk]>",
	Short: "Find chunks similar to an already-indexed chunk (MoreLikeThis)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimilar,
}

func init() {
	rootCmd.AddCommand(similarCmd)
	addSearchParamFlags(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	facade, idx, err := openFacade(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	outcome, err := facade.MoreLikeThisByID(args[0], search.DefaultMLTParams(), buildSearchParams())
	if err != nil {
		return fmt.Errorf("more like this: %w", err)
	}
	printOutcome(outcome)
	return nil
}
