package chunktree

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

type frontmatter struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
}

// stripFrontmatter removes a leading "---\n...\n---\n" YAML block, if
// present, and returns the parsed title/tags plus the byte offset in the
// original content where the remaining body begins. If no frontmatter
// block is found, offset is 0 and fm is zero-valued.
func stripFrontmatter(content []byte) (fm frontmatter, offset int) {
	const fence = "---"

	if !bytes.HasPrefix(content, []byte(fence)) {
		return fm, 0
	}

	// The opening fence must be alone on its line.
	rest := content[len(fence):]
	nl := bytes.IndexByte(rest, '\n')
	if nl == -1 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return fm, 0
	}

	body := rest[nl+1:]
	closeIdx := findClosingFence(body, fence)
	if closeIdx == -1 {
		return fm, 0
	}

	raw := body[:closeIdx]
	if err := yaml.Unmarshal(raw, &fm); err != nil {
		return frontmatter{}, 0
	}

	// offset = len(fence) + rest of the opening line including its
	// newline + len(raw block up to and including the closing fence
	// line's newline, or EOF).
	afterFence := closeIdx + len(fence)
	end := afterFence
	if end < len(body) {
		if nl := bytes.IndexByte(body[end:], '\n'); nl != -1 {
			end += nl + 1
		} else {
			end = len(body)
		}
	}

	return fm, len(fence) + nl + 1 + end
}

// findClosingFence scans for a line consisting solely of fence, returning
// the byte offset within body where that line begins, or -1.
func findClosingFence(body []byte, fence string) int {
	lineStart := 0
	for lineStart <= len(body) {
		nl := bytes.IndexByte(body[lineStart:], '\n')
		var line []byte
		if nl == -1 {
			line = body[lineStart:]
		} else {
			line = body[lineStart : lineStart+nl]
		}
		if string(bytes.TrimSpace(line)) == fence {
			return lineStart
		}
		if nl == -1 {
			break
		}
		lineStart += nl + 1
	}
	return -1
}
