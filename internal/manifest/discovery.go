// Package manifest implements discovery, the on-disk manifest diff, and the
// incremental indexing orchestration of spec.md §4.6: walk each configured
// tree, diff against the persisted manifest, and drive chunktree/docindex
// to bring the index up to date.
package manifest

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
)

// Tree names one configured root to discover files under, with its own
// include/exclude glob patterns (spec.md §4.6).
type Tree struct {
	Name    string
	Path    string
	Include []string
	Exclude []string
}

// compiledTree is a Tree with its glob patterns pre-compiled.
type compiledTree struct {
	Tree
	include []glob.Glob
	exclude []glob.Glob
}

// DiscoveredFile is one file found under a tree that passed its include
// globs and was not caught by an exclude glob or the binary-extension
// filter.
type DiscoveredFile struct {
	Tree    string
	AbsPath string
	RelPath string
	MTime   time.Time
	Size    int64
}

// binaryExtensions excludes files unlikely to be useful source or doc
// content; discovery never emits these regardless of include patterns.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".ico": true,
	".webp": true,
	".pdf": true, ".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true,
	".7z": true, ".rar": true, ".so": true, ".dylib": true, ".dll": true, ".exe": true,
	".a": true, ".o": true, ".obj": true, ".class": true, ".jar": true, ".wasm": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".mp3": true, ".mp4": true,
	".mov": true, ".avi": true, ".db": true, ".sqlite": true, ".bin": true, ".pyc": true,
}

func isBinaryExtension(path string) bool {
	return binaryExtensions[filepath.Ext(path)]
}

// Discover walks every tree's path and returns the files that pass its
// include globs, are not caught by an exclude glob, and are not binary by
// extension. A tree whose path does not exist yields no files for that
// tree rather than an error (a freshly configured tree may not exist yet).
func Discover(trees []Tree) ([]DiscoveredFile, error) {
	compiled, err := compileTrees(trees)
	if err != nil {
		return nil, err
	}

	var out []DiscoveredFile
	for _, ct := range compiled {
		if _, err := os.Stat(ct.Path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		err := filepath.Walk(ct.Path, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}

			relPath, err := filepath.Rel(ct.Path, path)
			if err != nil {
				return err
			}
			relPath = filepath.ToSlash(relPath)

			if ct.shouldIgnore(relPath) {
				return nil
			}
			if isBinaryExtension(relPath) {
				return nil
			}
			if !matchesAnyPattern(relPath, ct.include) {
				return nil
			}

			out = append(out, DiscoveredFile{
				Tree:    ct.Name,
				AbsPath: path,
				RelPath: relPath,
				MTime:   info.ModTime(),
				Size:    info.Size(),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func compileTrees(trees []Tree) ([]compiledTree, error) {
	out := make([]compiledTree, 0, len(trees))
	for _, t := range trees {
		ct := compiledTree{Tree: t}
		for _, pattern := range t.Include {
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				return nil, err
			}
			ct.include = append(ct.include, g)
		}
		for _, pattern := range t.Exclude {
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				return nil, err
			}
			ct.exclude = append(ct.exclude, g)
		}
		out = append(out, ct)
	}
	return out, nil
}

// shouldIgnore reports whether relPath is caught by ct's exclude patterns,
// also matching a bare directory name against its "/**" form the way the
// original indexer's discovery did (so "vendor/**" excludes "vendor"
// itself, not just its contents).
func (ct compiledTree) shouldIgnore(relPath string) bool {
	if matchesAnyPattern(relPath, ct.exclude) {
		return true
	}
	return matchesAnyPattern(relPath+"/**", ct.exclude)
}

func matchesAnyPattern(path string, patterns []glob.Glob) bool {
	for _, p := range patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}
