package docindex

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
)

const batchSize = 1000

// Index wraps a bleve.Index with the chunk-record writer operations of
// spec.md §4.5. One writer process at a time; callers do not nest
// writers (spec.md §5).
type Index struct {
	bleve.Index
}

// Open opens an on-disk index at dir, creating it with the chunk
// mapping if it does not yet exist.
func Open(dir string) (*Index, error) {
	if _, err := os.Stat(dir); err == nil {
		idx, err := bleve.Open(dir)
		if err != nil {
			return nil, fmt.Errorf("open index at %s: %w", dir, err)
		}
		return &Index{Index: idx}, nil
	}

	idx, err := bleve.New(dir, BuildMapping())
	if err != nil {
		return nil, fmt.Errorf("create index at %s: %w", dir, err)
	}
	return &Index{Index: idx}, nil
}

// AddDocument upserts a single chunk record. Callers should prefer
// AddDocuments for batches during a full or incremental reindex.
func (x *Index) AddDocument(r *Record) error {
	return x.Index.Index(r.ID, r)
}

// AddDocuments indexes many records in batches of batchSize, the size
// the teacher's own bleve usage settled on for the same tradeoff
// (fewer round-trips vs. batch memory).
func (x *Index) AddDocuments(records []*Record) error {
	batch := x.Index.NewBatch()
	for i, r := range records {
		if err := batch.Index(r.ID, r); err != nil {
			return fmt.Errorf("add %s to batch: %w", r.ID, err)
		}
		if batch.Size() >= batchSize || i == len(records)-1 {
			if batch.Size() > 0 {
				if err := x.Index.Batch(batch); err != nil {
					return fmt.Errorf("execute batch: %w", err)
				}
			}
			batch = x.Index.NewBatch()
		}
	}
	return nil
}

// maxChunksPerDocument bounds the single search DeleteByPath issues to
// find every chunk of one file; a document producing more addressable
// chunks than this is not a realistic input for this index.
const maxChunksPerDocument = 100000

// DeleteByPath removes every chunk belonging to {tree}:{path}, matching
// on doc_id equality.
func (x *Index) DeleteByPath(tree, path string) error {
	docID := tree + ":" + path
	q := bleve.NewTermQuery(docID)
	q.SetField("doc_id")

	req := bleve.NewSearchRequestOptions(q, maxChunksPerDocument, 0, false)
	req.Fields = nil

	result, err := x.Index.Search(req)
	if err != nil {
		return fmt.Errorf("find chunks for %s: %w", docID, err)
	}
	if len(result.Hits) == 0 {
		return nil
	}

	batch := x.Index.NewBatch()
	for _, hit := range result.Hits {
		batch.Delete(hit.ID)
	}
	if err := x.Index.Batch(batch); err != nil {
		return fmt.Errorf("delete chunks for %s: %w", docID, err)
	}
	return nil
}

// DeleteAll empties the index by deleting every stored document in one
// batch; the index itself and its mapping are kept.
func (x *Index) DeleteAll() error {
	dc, err := x.Index.DocCount()
	if err != nil {
		return fmt.Errorf("doc count: %w", err)
	}
	if dc == 0 {
		return nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(dc), 0, false)
	req.Fields = nil
	result, err := x.Index.Search(req)
	if err != nil {
		return fmt.Errorf("list all docs: %w", err)
	}
	batch := x.Index.NewBatch()
	for _, hit := range result.Hits {
		batch.Delete(hit.ID)
	}
	return x.Index.Batch(batch)
}

// Commit is a no-op hook for callers that want a single call site
// across future index backends; bleve commits per-batch/per-Index
// call already, so there is nothing further to flush.
func (x *Index) Commit() error { return nil }

// Close releases the underlying bleve index.
func (x *Index) Close() error { return x.Index.Close() }
