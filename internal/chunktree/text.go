package chunktree

// parseText implements the "text files are never chunked" rule of
// spec.md §4.2: a single document-level chunk whose title is the
// filename stem and whose body is the entire buffer.
func parseText(tree, path string, content []byte) (*Document, error) {
	title := filenameStem(path)
	docID := ChunkID(tree, path, "")

	root := &Node{
		ID:         docID,
		DocID:      docID,
		Depth:      0,
		ByteStart:  0,
		ByteEnd:    len(content),
		Breadcrumb: "> " + title,
	}
	assignPositions(root)

	return &Document{
		Title:  title,
		Root:   root,
		Chunks: flatten(root, content, tree, path, title, nil),
	}, nil
}
