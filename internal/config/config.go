// Package config defines the core's view of configuration (spec.md §3):
// trees, scoring knobs, search defaults, context rules and context
// analyzer knobs. Discovery of the config file itself (global vs. local,
// TOML layout) is the CLI collaborator's business per spec.md §1; this
// package only owns the struct, its defaults, validation, and a thin
// loader a CLI can call.
package config

// Tree names one configured root to discover and index files under
// (spec.md §3's "Trees (name, path, is_global, include/exclude globs)").
type Tree struct {
	Name     string   `mapstructure:"name"`
	Path     string   `mapstructure:"path"`
	IsGlobal bool     `mapstructure:"is_global"`
	Include  []string `mapstructure:"include"`
	Exclude  []string `mapstructure:"exclude"`
	// LocalBoost overrides Search.LocalBoost for this tree specifically;
	// zero means "use the search-wide default". Ignored when IsGlobal.
	LocalBoost float64 `mapstructure:"local_boost"`
}

// ScoringConfig holds the retrieval pipeline's tunable knobs (spec.md §4.7,
// §6 "search parameters defaults").
type ScoringConfig struct {
	CutoffRatio          float64 `mapstructure:"cutoff_ratio"`
	AggregationThreshold float64 `mapstructure:"aggregation_threshold"`
	Limit                int     `mapstructure:"limit"`
	AggregationPoolSize  int     `mapstructure:"aggregation_pool_size"`
}

// SearchDefaultsConfig holds the query compiler's tunable knobs (spec.md
// §3 "search defaults: stemmer language, fuzzy edit distance, per-field
// boosts").
type SearchDefaultsConfig struct {
	Stemmer       string             `mapstructure:"stemmer"`
	FuzzyDistance int                `mapstructure:"fuzzy_distance"`
	FieldBoosts   map[string]float64 `mapstructure:"field_boosts"`
	// LocalBoost is the fallback per-tree local_boost (spec.md §6:
	// "local_boost >= 1 rewards non-global trees") for any tree that
	// doesn't set its own.
	LocalBoost float64 `mapstructure:"local_boost"`
}

// ContextRule matches files against a glob and contributes injected
// terms, tree filters, pinned includes and optional param overrides
// (spec.md §4.9).
type ContextRule struct {
	Glob        string   `mapstructure:"glob"`
	InjectTerms []string `mapstructure:"inject_terms"`
	Trees       []string `mapstructure:"trees"`
	PinInclude  []string `mapstructure:"pin_include"`
	// Overrides, when non-nil, replaces each of the matched file's search
	// params for which it sets a non-zero value; zero-valued fields leave
	// that param as it was.
	Overrides *ScoringConfig `mapstructure:"overrides"`
}

// ContextAnalyzerConfig holds C8's tunable knobs (spec.md §3 "context
// analyzer knobs: max_terms, min/max word length, sample size").
type ContextAnalyzerConfig struct {
	MaxTerms        int    `mapstructure:"max_terms"`
	MinWordLength   int    `mapstructure:"min_word_length"`
	MaxWordLength   int    `mapstructure:"max_word_length"`
	SampleSize      int    `mapstructure:"sample_size"`
	Algorithm       string `mapstructure:"algorithm"` // textrank|tfidf|rake|yake
	ValidatePhrases bool   `mapstructure:"validate_phrases"`
}

// Config is the complete configuration view the core consumes.
type Config struct {
	IndexDir        string                `mapstructure:"index_dir"`
	Trees           []Tree                `mapstructure:"trees"`
	Scoring         ScoringConfig         `mapstructure:"scoring"`
	Search          SearchDefaultsConfig  `mapstructure:"search"`
	ContextRules    []ContextRule         `mapstructure:"context_rules"`
	ContextAnalyzer ContextAnalyzerConfig `mapstructure:"context_analyzer"`
}

// Default returns a configuration with sensible defaults, mirroring the
// teacher's Default() shape (one literal struct, no external lookups).
func Default() *Config {
	return &Config{
		IndexDir: ".doctree/index",
		Trees: []Tree{
			{
				Name:    "docs",
				Path:    "docs",
				Include: []string{"**/*.md", "**/*.markdown", "**/*.txt"},
				Exclude: []string{"node_modules/**", ".git/**"},
			},
		},
		Scoring: ScoringConfig{
			CutoffRatio:          0.3,
			AggregationThreshold: 0.6,
			Limit:                15,
			AggregationPoolSize:  50,
		},
		Search: SearchDefaultsConfig{
			Stemmer:       "en",
			FuzzyDistance: 0,
			FieldBoosts: map[string]float64{
				"title":           3.0,
				"tags":            2.0,
				"path":            1.0,
				"path_components": 1.0,
				"body":            1.0,
				"tree":            1.0,
			},
			LocalBoost: 1.0,
		},
		ContextAnalyzer: ContextAnalyzerConfig{
			MaxTerms:      15,
			MinWordLength: 3,
			MaxWordLength: 40,
			SampleSize:    4000,
			Algorithm:     "textrank",
		},
	}
}

// TreeLocalBoost resolves the effective local_boost for a tree: 1.0 for a
// global tree, its own override if set, else the search-wide default.
func (c *Config) TreeLocalBoost(name string) float64 {
	for _, t := range c.Trees {
		if t.Name != name {
			continue
		}
		if t.IsGlobal {
			return 1.0
		}
		if t.LocalBoost > 0 {
			return t.LocalBoost
		}
		break
	}
	if c.Search.LocalBoost > 0 {
		return c.Search.LocalBoost
	}
	return 1.0
}

// GlobalTrees returns the set of tree names marked is_global, the shape
// internal/pipeline.Execute expects.
func (c *Config) GlobalTrees() map[string]bool {
	out := make(map[string]bool, len(c.Trees))
	for _, t := range c.Trees {
		if t.IsGlobal {
			out[t.Name] = true
		}
	}
	return out
}
