package chunktree

import "strings"

// flatten walks the tree in preorder and emits a Chunk for every node
// whose body (content minus children's spans) is non-empty.
func flatten(root *Node, content []byte, tree, path, docTitle string, tags []string) []*Chunk {
	var out []*Chunk
	var parentID string

	var walk func(n *Node, parentID string)
	walk = func(n *Node, parentID string) {
		body := n.Body(content)
		if len(body) > 0 {
			out = append(out, &Chunk{
				ID:             n.ID,
				DocID:          n.DocID,
				ParentID:       parentID,
				Title:          titleFor(n, docTitle),
				Slug:           n.Slug,
				Breadcrumb:     n.Breadcrumb,
				Tree:           tree,
				Path:           path,
				PathComponents: pathComponents(path),
				Tags:           tags,
				Body:           string(body),
				Depth:          n.Depth,
				Position:       n.Position,
				ByteStart:      n.ByteStart,
				ByteEnd:        n.ByteEnd,
				SiblingCount:   n.SiblingCount,
			})
		}
		for _, c := range n.Children {
			walk(c, n.ID)
		}
	}
	walk(root, parentID)
	return out
}

func titleFor(n *Node, docTitle string) string {
	if n.IsDocument() {
		return docTitle
	}
	return n.Title
}

func pathComponents(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
