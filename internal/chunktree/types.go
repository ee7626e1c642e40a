// Package chunktree builds the hierarchical chunk tree for a single source
// file: a document root node plus heading nodes nested by level, each
// carrying the byte span of its content within the original file.
package chunktree

import "fmt"

// FileType selects which parsing strategy Parse uses.
type FileType int

const (
	// FileTypeMarkdown parses headings into a nested chunk tree.
	FileTypeMarkdown FileType = iota
	// FileTypeText treats the whole file as a single document-level chunk.
	FileTypeText
)

// DetectFileType chooses a FileType from a file extension (including the
// leading dot, e.g. ".md"). Unrecognized extensions fall back to text.
func DetectFileType(ext string) FileType {
	switch ext {
	case ".md", ".markdown", ".mdown", ".mkd":
		return FileTypeMarkdown
	default:
		return FileTypeText
	}
}

// Node is one element of the chunk tree: the document root (Depth 0,
// Slug "") or a heading (Depth 1-6).
type Node struct {
	ID       string
	DocID    string
	ParentID string // "" for the document root
	Depth    int
	Position int

	Title      string
	Slug       string // "" for the document root
	Breadcrumb string

	ByteStart int
	ByteEnd   int

	// HeadingLineStart is the byte offset of this node's own heading line,
	// used by an ancestor's body-extraction to stop before its first
	// child's heading line. For the document root it is the offset of the
	// first heading in the file (len(content) if the document has no
	// headings).
	HeadingLineStart int

	SiblingCount int

	Children []*Node
}

// IsDocument reports whether n is the document root.
func (n *Node) IsDocument() bool {
	return n.Depth == 0
}

// Body extracts the node's own body text (its span minus the spans
// consumed by its children) from the original file content.
func (n *Node) Body(content []byte) []byte {
	if len(n.Children) == 0 {
		return content[n.ByteStart:n.ByteEnd]
	}
	return content[n.ByteStart:n.Children[0].HeadingLineStart]
}

// Chunk is the flattened, indexable record for one tree node with a
// non-empty body. It mirrors the JSON chunk record shape of the external
// interface (score/snippet/match_ranges are populated by the retrieval
// pipeline, not here).
type Chunk struct {
	ID       string
	DocID    string
	ParentID string // "" for the document

	Title      string
	Slug       string
	Breadcrumb string

	Tree           string
	Path           string
	PathComponents []string

	Tags []string

	Body string

	Depth        int
	Position     int
	ByteStart    int
	ByteEnd      int
	SiblingCount int
}

// Document is the parse result for one source file.
type Document struct {
	Title  string
	Tags   []string
	Root   *Node
	Chunks []*Chunk // preorder, non-empty body only
}

// ChunkID builds the doc_id or chunk id for a (tree, path[, slug]) tuple.
func ChunkID(tree, path, slug string) string {
	if slug == "" {
		return fmt.Sprintf("%s:%s", tree, path)
	}
	return fmt.Sprintf("%s:%s#%s", tree, path, slug)
}
