package manifest

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/doctree-search/doctree/internal/chunktree"
	"github.com/doctree-search/doctree/internal/docindex"
)

// FileParseError reports one file's failure to parse during an indexing
// run (spec.md §7 DocumentError); it does not fail the batch.
type FileParseError struct {
	AbsPath string
	Err     error
}

func (e *FileParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.AbsPath, e.Err)
}

func (e *FileParseError) Unwrap() error { return e.Err }

// IndexStats summarizes one indexing run (spec.md §4.6/§7).
type IndexStats struct {
	FilesAdded    int
	FilesModified int
	FilesRemoved  int
	ChunksIndexed int
	ParseErrors   []*FileParseError
}

// Indexer ties discovery, the manifest diff and the document parser to an
// open docindex.Index, implementing the full orchestration of spec.md
// §4.6 step by step.
type Indexer struct {
	Dir   string // directory holding manifest.json/config.hash, alongside the index
	Trees []Tree
	Index *docindex.Index

	// OnFileIndexed, when set, is called after each added/modified file
	// is parsed and queued for indexing (nil is fine; progress reporting
	// is purely a CLI-side concern per spec.md's "Supplemented Features").
	OnFileIndexed func(relPath string)
}

// Run performs one indexing pass. full forces delete_all plus treating
// every discovered file as added, bypassing the manifest diff; it is also
// forced automatically when the persisted config hash does not match
// configBytes.
func (ix *Indexer) Run(full bool, configBytes []byte) (*IndexStats, error) {
	hash := ConfigHash(configBytes)
	prevHash, err := LoadConfigHash(ix.Dir)
	if err != nil {
		return nil, err
	}
	if prevHash != "" && prevHash != hash {
		full = true
	}

	var m Manifest
	if full {
		m = Manifest{}
	} else {
		m, err = Load(ix.Dir)
		if err != nil {
			return nil, err
		}
	}

	discovered, err := Discover(ix.Trees)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	diff := Compare(m, discovered)

	stats := &IndexStats{
		FilesAdded:    len(diff.Added),
		FilesModified: len(diff.Modified),
		FilesRemoved:  len(diff.Removed),
	}

	if full {
		if err := ix.Index.DeleteAll(); err != nil {
			return nil, fmt.Errorf("delete all: %w", err)
		}
	}

	for _, absPath := range diff.Removed {
		entry := m[absPath]
		if err := ix.Index.DeleteByPath(entry.Tree, entry.Path); err != nil {
			return nil, fmt.Errorf("delete %s:%s: %w", entry.Tree, entry.Path, err)
		}
		delete(m, absPath)
	}

	toReparse := append(append([]DiscoveredFile{}, diff.Added...), diff.Modified...)
	for _, f := range toReparse {
		if !full {
			// Modified files may already have chunks under the old body;
			// replace wholesale rather than trying to diff at chunk
			// granularity.
			if err := ix.Index.DeleteByPath(f.Tree, f.RelPath); err != nil {
				return nil, fmt.Errorf("delete %s:%s: %w", f.Tree, f.RelPath, err)
			}
		}

		records, err := parseFile(f)
		if err != nil {
			log.Printf("indexer: skipping %s: %v", f.AbsPath, err)
			stats.ParseErrors = append(stats.ParseErrors, &FileParseError{AbsPath: f.AbsPath, Err: err})
			// Dropped from the updated manifest so it is retried next run.
			continue
		}

		if len(records) > 0 {
			if err := ix.Index.AddDocuments(records); err != nil {
				return nil, fmt.Errorf("index %s:%s: %w", f.Tree, f.RelPath, err)
			}
		}
		stats.ChunksIndexed += len(records)

		m[f.AbsPath] = Entry{
			Tree:      f.Tree,
			Path:      f.RelPath,
			MTimeSecs: f.MTime.Unix(),
			SizeBytes: f.Size,
		}

		if ix.OnFileIndexed != nil {
			ix.OnFileIndexed(f.RelPath)
		}
	}

	if err := ix.Index.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	if err := Save(ix.Dir, m); err != nil {
		return nil, fmt.Errorf("save manifest: %w", err)
	}
	if err := SaveConfigHash(ix.Dir, hash); err != nil {
		return nil, fmt.Errorf("save config hash: %w", err)
	}

	return stats, nil
}

// parseFile reads and parses one discovered file into indexable records,
// dropping chunks with an empty body per spec.md §4.6 step 5.
func parseFile(f DiscoveredFile) ([]*docindex.Record, error) {
	content, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return nil, err
	}

	ft := chunktree.DetectFileType(filepath.Ext(f.AbsPath))
	doc, err := chunktree.Parse(f.Tree, f.RelPath, content, ft)
	if err != nil {
		return nil, err
	}

	records := make([]*docindex.Record, 0, len(doc.Chunks))
	for _, c := range doc.Chunks {
		if strings.TrimSpace(c.Body) == "" {
			continue
		}
		records = append(records, &docindex.Record{
			ID:             c.ID,
			DocID:          c.DocID,
			ParentID:       c.ParentID,
			Title:          c.Title,
			Tags:           c.Tags,
			Path:           c.Path,
			PathComponents: c.PathComponents,
			Tree:           c.Tree,
			Body:           c.Body,
			Breadcrumb:     c.Breadcrumb,
			Depth:          c.Depth,
			Position:       c.Position,
			ByteStart:      c.ByteStart,
			ByteEnd:        c.ByteEnd,
			SiblingCount:   c.SiblingCount,
			MTimeUnix:      f.MTime.Unix(),
		})
	}
	return records, nil
}
