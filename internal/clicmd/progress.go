package clicmd

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
)

// indexProgressReporter drives a single progress bar off
// manifest.Indexer.OnFileIndexed, grounded on internal/cli/progress.go's
// CLIProgressReporter (same progressbar options, collapsed to one phase
// since manifest.Indexer has no separate embedding/graph stage).
type indexProgressReporter struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

// newIndexProgressReporter builds an indeterminate bar: manifest.Indexer
// only reports files as they're reparsed, with no upfront total (the
// manifest diff happens inside Run), so the count, not a percentage, is
// what's meaningful here.
func newIndexProgressReporter(quiet bool) *indexProgressReporter {
	r := &indexProgressReporter{quiet: quiet}
	if quiet {
		return r
	}
	r.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Indexing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
	return r
}

// onFileIndexed is bound to manifest.Indexer.OnFileIndexed.
func (r *indexProgressReporter) onFileIndexed(relPath string) {
	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

func (r *indexProgressReporter) finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}
