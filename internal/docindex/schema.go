// Package docindex defines the fixed bleve schema for chunk records and
// the writer operations (add/delete/commit) the indexer drives, per
// spec.md §4.5.
package docindex

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Record is one addressable node's indexed form — spec.md §3's "Indexed
// chunk record".
type Record struct {
	ID             string   `json:"id"`
	DocID          string   `json:"doc_id"`
	ParentID       string   `json:"parent_id,omitempty"`
	Title          string   `json:"title"`
	Tags           []string `json:"tags,omitempty"`
	Path           string   `json:"path"`
	PathComponents []string `json:"path_components,omitempty"`
	Tree           string   `json:"tree"`
	Body           string   `json:"body"`
	Breadcrumb     string   `json:"breadcrumb"`
	Depth          int      `json:"depth"`
	Position       int      `json:"position"`
	ByteStart      int      `json:"byte_start"`
	ByteEnd        int      `json:"byte_end"`
	SiblingCount   int      `json:"sibling_count"`
	MTimeUnix      int64    `json:"mtime"`
}

// BuildMapping constructs the chunk index mapping: exact-match keyword
// fields for id/doc_id/parent_id/tree, analyzed text fields for the
// searchable content, indexed numeric fields, and breadcrumb
// stored but not indexed.
func BuildMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()

	keyword := func() *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = "keyword"
		fm.Store = true
		fm.Index = true
		return fm
	}
	text := func() *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = "standard"
		fm.Store = true
		fm.Index = true
		fm.IncludeTermVectors = true
		return fm
	}
	numeric := func() *mapping.FieldMapping {
		fm := bleve.NewNumericFieldMapping()
		fm.Store = true
		fm.Index = true
		return fm
	}
	stored := func() *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Store = true
		fm.Index = false
		return fm
	}

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("id", keyword())
	doc.AddFieldMappingsAt("doc_id", keyword())
	doc.AddFieldMappingsAt("parent_id", keyword())
	doc.AddFieldMappingsAt("tree", keyword())

	doc.AddFieldMappingsAt("title", text())
	doc.AddFieldMappingsAt("body", text())
	doc.AddFieldMappingsAt("path", text())
	doc.AddFieldMappingsAt("path_components", text())
	doc.AddFieldMappingsAt("tags", text())

	doc.AddFieldMappingsAt("depth", numeric())
	doc.AddFieldMappingsAt("position", numeric())
	doc.AddFieldMappingsAt("byte_start", numeric())
	doc.AddFieldMappingsAt("byte_end", numeric())
	doc.AddFieldMappingsAt("sibling_count", numeric())
	doc.AddFieldMappingsAt("mtime", numeric())

	doc.AddFieldMappingsAt("breadcrumb", stored())

	im.DefaultMapping = doc
	return im
}
