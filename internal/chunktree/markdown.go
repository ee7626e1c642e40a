package chunktree

import (
	"strings"

	"github.com/doctree-search/doctree/internal/slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmtext "github.com/yuin/goldmark/text"
)

var mdParser = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// heading is a raw heading event collected from the goldmark AST, before
// span computation or tree assembly.
type heading struct {
	level     int
	text      string
	lineStart int // absolute byte offset of the heading line
	lineEnd   int // absolute byte offset, exclusive, of the heading line (no trailing \n)
}

// parseMarkdown implements the C2 Markdown algorithm of spec.md §4.2.
func parseMarkdown(tree, path string, content []byte) (*Document, error) {
	fm, offset := stripFrontmatter(content)
	src := content[offset:]

	doc := mdParser.Parser().Parse(gmtext.NewReader(src))
	headings := collectHeadings(doc, src, offset)

	docID := ChunkID(tree, path, "")
	titleStem := filenameStem(path)

	docTitle := fm.Title
	if docTitle == "" {
		for _, h := range headings {
			if h.level == 1 {
				docTitle = h.text
				break
			}
		}
	}
	if docTitle == "" {
		docTitle = titleStem
	}

	root := &Node{
		ID:         docID,
		DocID:      docID,
		Depth:      0,
		Breadcrumb: "> " + docTitle,
	}
	if len(headings) > 0 {
		root.HeadingLineStart = headings[0].lineStart
	} else {
		root.HeadingLineStart = len(content)
	}

	if len(headings) == 0 {
		root.ByteStart = offset
		root.ByteEnd = len(content)
		assignPositions(root)
		d := &Document{Title: docTitle, Tags: fm.Tags, Root: root}
		d.Chunks = flatten(root, content, tree, path, docTitle, fm.Tags)
		return d, nil
	}

	spanStart := make([]int, len(headings))
	spanEnd := make([]int, len(headings))
	for i, h := range headings {
		ss := h.lineEnd
		if ss < len(content) && content[ss] == '\n' {
			ss++
		}
		spanStart[i] = ss

		se := len(content)
		for j := i + 1; j < len(headings); j++ {
			if headings[j].level <= h.level {
				se = headings[j].lineStart
				break
			}
		}
		spanEnd[i] = se
	}

	root.ByteStart = offset
	root.ByteEnd = len(content)

	nodes := make([]*Node, 0, len(headings))
	for i, h := range headings {
		if spanStart[i] == spanEnd[i] {
			continue // empty span: discarded per invariant 1
		}
		nodes = append(nodes, &Node{
			Depth:            h.level,
			Title:            h.text,
			ByteStart:        spanStart[i],
			ByteEnd:          spanEnd[i],
			HeadingLineStart: h.lineStart,
		})
	}

	parents := buildTree(root, nodes)
	assignPositions(root)
	assignIDsAndSlugs(root, parents, tree, path, docID, docTitle)

	d := &Document{Title: docTitle, Tags: fm.Tags, Root: root}
	d.Chunks = flatten(root, content, tree, path, docTitle, fm.Tags)
	return d, nil
}

// buildTree assembles a flat, depth-ordered node list into a tree using a
// depth-keyed stack (spec.md §4.2 step 5): while the stack top's depth is
// >= the incoming node's depth, pop it into its own parent's children,
// then attach the incoming node to whatever remains on top. It returns a
// map from each non-root node to its parent, since Node itself carries no
// parent pointer.
func buildTree(root *Node, flat []*Node) map[*Node]*Node {
	parents := make(map[*Node]*Node, len(flat))
	stack := []*Node{root}
	attach := func(child, parent *Node) {
		parent.Children = append(parent.Children, child)
		parents[child] = parent
	}
	for _, n := range flat {
		for len(stack) > 1 && stack[len(stack)-1].Depth >= n.Depth {
			popped := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			attach(popped, stack[len(stack)-1])
		}
		stack = append(stack, n)
	}
	for len(stack) > 1 {
		popped := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		attach(popped, stack[len(stack)-1])
	}
	return parents
}

// assignPositions sets Position (preorder, 0-based) and SiblingCount.
func assignPositions(root *Node) {
	pos := 0
	var walk func(n *Node)
	walk = func(n *Node) {
		n.Position = pos
		pos++
		for _, c := range n.Children {
			c.SiblingCount = len(n.Children)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
}

// assignIDsAndSlugs assigns each heading a flat, document-scoped slug: one
// shared slug.Slugifier called on the heading's own title only, in document
// order, with no composition from a parent's slug (a heading titled "A.1"
// nested under "A" slugs to "a-1", not "a-a-1"). ID, ParentID and Breadcrumb
// are then derived from that slug.
func assignIDsAndSlugs(root *Node, parents map[*Node]*Node, tree, path, docID, docTitle string) {
	sl := slug.New()
	var walk func(n *Node)
	walk = func(n *Node) {
		parent := parents[n]
		n.DocID = docID
		n.Slug = sl.Slug(n.Title)
		n.ID = ChunkID(tree, path, n.Slug)
		if parent != nil {
			n.ParentID = parent.ID
		}
		n.Breadcrumb = breadcrumb(docTitle, parent, parents, n.Title)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, c := range root.Children {
		walk(c)
	}
}

// breadcrumb builds "> docTitle › ancestor … › selfTitle", omitting any
// ancestor (or self) whose text duplicates the document title.
func breadcrumb(docTitle string, parent *Node, parents map[*Node]*Node, selfTitle string) string {
	var chain []*Node
	for n := parent; n != nil && !n.IsDocument(); n = parents[n] {
		chain = append(chain, n)
	}

	parts := []string{docTitle}
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].Title != docTitle {
			parts = append(parts, chain[i].Title)
		}
	}
	if selfTitle != docTitle {
		parts = append(parts, selfTitle)
	}
	return "> " + strings.Join(parts, " › ")
}

func filenameStem(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i != -1 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i != -1 {
		base = base[:i]
	}
	return base
}

// collectHeadings walks the goldmark AST in document order, recording
// each heading's level, combined inline text and heading-line byte span.
// Offsets returned are absolute within the original (pre-strip) content.
func collectHeadings(doc ast.Node, src []byte, base int) []heading {
	var out []heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		lines := h.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		// lines.At(0) begins at the heading's inline text; step back over
		// the "#" markers to the start of the physical line.
		start := lines.At(0).Start
		for start > 0 && src[start-1] != '\n' {
			start--
		}
		end := lineEnd(src, start)

		out = append(out, heading{
			level:     h.Level,
			text:      headingText(h, src),
			lineStart: start + base,
			lineEnd:   end + base,
		})
		return ast.WalkSkipChildren, nil
	})
	return out
}

// lineEnd returns the offset of the end of the physical line starting at
// start (exclusive of the newline byte), within src.
func lineEnd(src []byte, start int) int {
	for i := start; i < len(src); i++ {
		if src[i] == '\n' {
			return i
		}
	}
	return len(src)
}

// headingText concatenates the heading's text and inline-code runs, per
// spec.md §4.2 step 2.
func headingText(h *ast.Heading, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
		case *ast.CodeSpan:
			for c := t.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					b.Write(txt.Segment.Value(src))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
