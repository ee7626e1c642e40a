package clicmd

import (
	"github.com/spf13/cobra"

	"github.com/doctree-search/doctree/internal/pipeline"
)

// Search-parameter override flags shared by search, context and similar,
// grounded on the original CLI's SearchParamsArgs (limit, no-aggregation,
// aggregation-pool-size, cutoff-ratio, aggregation-threshold, tree,
// verbose) — cmd/args.rs in original_source/crates/ra/src/cli.
var (
	noAggregationFlag bool
	aggPoolSizeFlag   int
	cutoffRatioFlag   float64
	aggThresholdFlag  float64
)

// addSearchParamFlags registers the shared override flags on cmd, mirroring
// the original's SearchParamsArgs shared by every search-like subcommand.
func addSearchParamFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&treesFlag, "tree", nil, "restrict to these trees (repeatable)")
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "override the configured result limit")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "print results as JSON instead of formatted text")
	cmd.Flags().BoolVar(&noAggregationFlag, "no-aggregation", false, "disable hierarchical result aggregation")
	cmd.Flags().IntVar(&aggPoolSizeFlag, "aggregation-pool-size", 0, "override the configured aggregation candidate pool size")
	cmd.Flags().Float64Var(&cutoffRatioFlag, "cutoff-ratio", 0, "override the configured elbow cutoff ratio")
	cmd.Flags().Float64Var(&aggThresholdFlag, "aggregation-threshold", 0, "override the configured sibling aggregation threshold")
}

// buildSearchParams assembles a pipeline.SearchParams from the shared
// override flags, leaving zero-valued fields for Facade.defaultParams to
// fill from configuration.
func buildSearchParams() pipeline.SearchParams {
	return pipeline.SearchParams{
		Trees:                treesFlag,
		Limit:                limitFlag,
		DisableAggregation:   noAggregationFlag,
		AggregationPoolSize:  aggPoolSizeFlag,
		CutoffRatio:          cutoffRatioFlag,
		AggregationThreshold: aggThresholdFlag,
	}
}
