package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Entry is one file's recorded state in the manifest (spec.md §6's
// manifest file shape).
type Entry struct {
	Tree      string `json:"tree"`
	Path      string `json:"path"`
	MTimeSecs int64  `json:"mtime_secs"`
	SizeBytes int64  `json:"size_bytes"`
}

// Manifest maps a discovered file's absolute path to its last-indexed
// state.
type Manifest map[string]Entry

// Diff is the result of comparing discovered files against a Manifest.
type Diff struct {
	Added    []DiscoveredFile
	Modified []DiscoveredFile
	// Removed holds the absolute paths present in the manifest but not
	// rediscovered on disk.
	Removed []string
}

// Compare implements spec.md §4.6: a file is modified if (mtime, size)
// differs from the manifest record, added if absent, removed if
// manifest-only.
func Compare(m Manifest, discovered []DiscoveredFile) Diff {
	var d Diff
	seen := make(map[string]bool, len(discovered))

	for _, f := range discovered {
		seen[f.AbsPath] = true
		entry, ok := m[f.AbsPath]
		if !ok {
			d.Added = append(d.Added, f)
			continue
		}
		if entry.MTimeSecs != f.MTime.Unix() || entry.SizeBytes != f.Size {
			d.Modified = append(d.Modified, f)
		}
	}

	for absPath := range m {
		if !seen[absPath] {
			d.Removed = append(d.Removed, absPath)
		}
	}

	return d
}

// manifestFilename and configHashFilename are the two metadata files
// persisted alongside the index directory (spec.md §6).
const (
	manifestFilename   = "manifest.json"
	configHashFilename = "config.hash"
)

// Load reads the manifest from dir, returning an empty Manifest if the
// file does not yet exist.
func Load(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFilename))
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m == nil {
		m = Manifest{}
	}
	return m, nil
}

// Save writes m to dir atomically: write to a temp file in the same
// directory, then rename over the final path, so a crash mid-write never
// leaves a truncated manifest (spec.md §5).
func Save(dir string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return atomicWrite(filepath.Join(dir, manifestFilename), data)
}

func atomicWrite(finalPath string, data []byte) error {
	dir := filepath.Dir(finalPath)
	tmp, err := os.CreateTemp(dir, ".manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// ConfigHash returns the hex-encoded SHA-256 of configBytes, the form
// persisted to config.hash and compared on the next run to decide whether
// a configuration change forces a full reindex.
func ConfigHash(configBytes []byte) string {
	sum := sha256.Sum256(configBytes)
	return hex.EncodeToString(sum[:])
}

// LoadConfigHash reads the persisted config hash, returning "" if absent.
func LoadConfigHash(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, configHashFilename))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read config hash: %w", err)
	}
	return string(data), nil
}

// SaveConfigHash persists hash atomically alongside the manifest.
func SaveConfigHash(dir, hash string) error {
	return atomicWrite(filepath.Join(dir, configHashFilename), []byte(hash))
}
