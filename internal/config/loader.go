package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for overrides
// (DOCTREE_SEARCH_FUZZY_DISTANCE, etc.), matching the teacher's
// CORTEX_-prefixed convention in internal/config/loader.go.
const envPrefix = "DOCTREE"

// Loader loads a Config from a specific TOML file plus environment
// variable overrides. Discovering *which* file to load (global vs. local,
// walking parent directories) is the CLI collaborator's business per
// spec.md §1 — this loader only reads the one path it's given.
type Loader interface {
	Load(path string) (*Config, error)
}

type loader struct{}

// NewLoader returns the default Loader.
func NewLoader() Loader { return loader{} }

// Load reads a TOML config file at path, overlays environment variables,
// and validates the result. A missing file is not an error: defaults plus
// any environment overrides are returned instead, matching the teacher's
// "config file not found is acceptable" precedent in loader.go.
func (loader) Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("index_dir", d.IndexDir)
	v.SetDefault("trees", d.Trees)
	v.SetDefault("scoring.cutoff_ratio", d.Scoring.CutoffRatio)
	v.SetDefault("scoring.aggregation_threshold", d.Scoring.AggregationThreshold)
	v.SetDefault("scoring.limit", d.Scoring.Limit)
	v.SetDefault("scoring.aggregation_pool_size", d.Scoring.AggregationPoolSize)
	v.SetDefault("search.stemmer", d.Search.Stemmer)
	v.SetDefault("search.fuzzy_distance", d.Search.FuzzyDistance)
	v.SetDefault("search.field_boosts", d.Search.FieldBoosts)
	v.SetDefault("search.local_boost", d.Search.LocalBoost)
	v.SetDefault("context_analyzer.max_terms", d.ContextAnalyzer.MaxTerms)
	v.SetDefault("context_analyzer.min_word_length", d.ContextAnalyzer.MinWordLength)
	v.SetDefault("context_analyzer.max_word_length", d.ContextAnalyzer.MaxWordLength)
	v.SetDefault("context_analyzer.sample_size", d.ContextAnalyzer.SampleSize)
	v.SetDefault("context_analyzer.algorithm", d.ContextAnalyzer.Algorithm)
}

// Load is a package-level convenience wrapping NewLoader().Load.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}
