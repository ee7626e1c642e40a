package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoTrees indicates a configuration with no trees to index.
	ErrNoTrees = errors.New("no trees configured")
	// ErrEmptyTreeName indicates a tree with a blank name.
	ErrEmptyTreeName = errors.New("tree name is empty")
	// ErrDuplicateTreeName indicates two trees sharing a name.
	ErrDuplicateTreeName = errors.New("duplicate tree name")
	// ErrEmptyTreePath indicates a tree with a blank path.
	ErrEmptyTreePath = errors.New("tree path is empty")
	// ErrInvalidCutoffRatio indicates a cutoff_ratio outside (0, 1).
	ErrInvalidCutoffRatio = errors.New("cutoff_ratio must be in (0, 1)")
	// ErrInvalidAggregationThreshold indicates a threshold outside [0, 1].
	ErrInvalidAggregationThreshold = errors.New("aggregation_threshold must be in [0, 1]")
	// ErrInvalidLimit indicates a non-positive result limit.
	ErrInvalidLimit = errors.New("limit must be positive")
	// ErrInvalidPoolSize indicates a non-positive aggregation pool size.
	ErrInvalidPoolSize = errors.New("aggregation_pool_size must be positive")
	// ErrInvalidFuzzyDistance indicates a negative fuzzy edit distance.
	ErrInvalidFuzzyDistance = errors.New("fuzzy_distance cannot be negative")
	// ErrInvalidLocalBoost indicates a local_boost below 1.
	ErrInvalidLocalBoost = errors.New("local_boost must be >= 1")
	// ErrEmptyRuleGlob indicates a context rule with a blank glob.
	ErrEmptyRuleGlob = errors.New("context rule glob is empty")
)

// Validate checks that the configuration is valid and complete,
// mirroring the teacher's errs-slice-then-join pattern in validate.go.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateTrees(cfg.Trees); err != nil {
		errs = append(errs, err)
	}
	if err := validateScoring(&cfg.Scoring); err != nil {
		errs = append(errs, err)
	}
	if err := validateSearch(&cfg.Search); err != nil {
		errs = append(errs, err)
	}
	if err := validateRules(cfg.ContextRules); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateTrees(trees []Tree) error {
	var errs []error
	if len(trees) == 0 {
		errs = append(errs, ErrNoTrees)
	}

	seen := make(map[string]bool, len(trees))
	for _, t := range trees {
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, ErrEmptyTreeName)
			continue
		}
		if seen[t.Name] {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateTreeName, t.Name))
		}
		seen[t.Name] = true
		if strings.TrimSpace(t.Path) == "" {
			errs = append(errs, fmt.Errorf("%w: tree %q", ErrEmptyTreePath, t.Name))
		}
		if t.LocalBoost != 0 && t.LocalBoost < 1 {
			errs = append(errs, fmt.Errorf("%w: tree %q has local_boost %.2f", ErrInvalidLocalBoost, t.Name, t.LocalBoost))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateScoring(cfg *ScoringConfig) error {
	var errs []error

	if cfg.CutoffRatio <= 0 || cfg.CutoffRatio >= 1 {
		errs = append(errs, fmt.Errorf("%w, got %.2f", ErrInvalidCutoffRatio, cfg.CutoffRatio))
	}
	if cfg.AggregationThreshold < 0 || cfg.AggregationThreshold > 1 {
		errs = append(errs, fmt.Errorf("%w, got %.2f", ErrInvalidAggregationThreshold, cfg.AggregationThreshold))
	}
	if cfg.Limit <= 0 {
		errs = append(errs, fmt.Errorf("%w, got %d", ErrInvalidLimit, cfg.Limit))
	}
	if cfg.AggregationPoolSize <= 0 {
		errs = append(errs, fmt.Errorf("%w, got %d", ErrInvalidPoolSize, cfg.AggregationPoolSize))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateSearch(cfg *SearchDefaultsConfig) error {
	var errs []error

	if cfg.FuzzyDistance < 0 {
		errs = append(errs, fmt.Errorf("%w, got %d", ErrInvalidFuzzyDistance, cfg.FuzzyDistance))
	}
	if cfg.LocalBoost != 0 && cfg.LocalBoost < 1 {
		errs = append(errs, fmt.Errorf("%w, got %.2f", ErrInvalidLocalBoost, cfg.LocalBoost))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateRules(rules []ContextRule) error {
	var errs []error
	for _, r := range rules {
		if strings.TrimSpace(r.Glob) == "" {
			errs = append(errs, ErrEmptyRuleGlob)
		}
	}
	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear
// formatting, matching the teacher's joinErrors in validate.go.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
