package clicmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doctree-search/doctree/internal/pipeline"
)

var (
	treesFlag []string
	limitFlag int
	jsonFlag  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a query through the retrieval pipeline and print aggregated results",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addSearchParamFlags(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	facade, idx, err := openFacade(cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	outcome, err := facade.SearchAggregated(args[0], buildSearchParams())
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	printOutcome(outcome)
	return nil
}

// printOutcome renders an Outcome either as formatted text (rank, score,
// breadcrumb, a one-line body preview, rolled-up constituents indented
// beneath their parent) or, with --json, as JSON — mirroring the
// teacher's indexer_status command's dual formatted/--json output.
func printOutcome(outcome *pipeline.Outcome) {
	if jsonFlag {
		printOutcomeJSON(outcome)
		return
	}
	if len(outcome.Results) == 0 {
		fmt.Println("no results")
		return
	}
	for i, r := range outcome.Results {
		fmt.Printf("%2d. [%.3f] %s  (%s)\n", i+1, r.Score, r.Breadcrumb, r.ID)
		fmt.Printf("    %s\n", preview(r.Body))
		for _, c := range r.Constituents {
			fmt.Printf("      + %s\n", c.Breadcrumb)
		}
	}
	if outcome.CutoffReason != nil {
		fmt.Printf("(cutoff: %T)\n", outcome.CutoffReason)
	}
}

// jsonResult is the wire shape for --json output: the fields a caller
// scripting against docsearch actually wants, not the pipeline's full
// internal SearchCandidate (match details, field-level scoring, etc).
type jsonResult struct {
	ID           string       `json:"id"`
	Score        float64      `json:"score"`
	Title        string       `json:"title"`
	Breadcrumb   string       `json:"breadcrumb"`
	Tree         string       `json:"tree"`
	Path         string       `json:"path"`
	Body         string       `json:"body"`
	Constituents []jsonResult `json:"constituents,omitempty"`
}

func toJSONResult(r *pipeline.SearchResult) jsonResult {
	jr := jsonResult{
		ID: r.ID, Score: r.Score, Title: r.Title, Breadcrumb: r.Breadcrumb,
		Tree: r.Tree, Path: r.Path, Body: r.Body,
	}
	for _, c := range r.Constituents {
		jr.Constituents = append(jr.Constituents, jsonResult{
			ID: c.ID, Score: c.Score, Title: c.Title, Breadcrumb: c.Breadcrumb,
			Tree: c.Tree, Path: c.Path, Body: c.Body,
		})
	}
	return jr
}

func printOutcomeJSON(outcome *pipeline.Outcome) {
	results := make([]jsonResult, 0, len(outcome.Results))
	for _, r := range outcome.Results {
		results = append(results, toJSONResult(r))
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(results)
}

func preview(body string) string {
	body = strings.Join(strings.Fields(body), " ")
	const max = 160
	if len(body) > max {
		return body[:max] + "…"
	}
	return body
}
