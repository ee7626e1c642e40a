package manifest

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches every configured tree for filesystem changes and
// triggers a debounced incremental Run, the optional companion to C6's
// indexing orchestration described in spec.md §5.
type Watcher struct {
	indexer      *Indexer
	configBytes  func() []byte
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
	stopOnce     sync.Once
}

// NewWatcher creates a watcher over every directory in ix.Trees.
// configBytes is called at each reindex to detect configuration changes.
func NewWatcher(ix *Indexer, configBytes func() []byte) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	iw := &Watcher{
		indexer:      ix,
		configBytes:  configBytes,
		watcher:      w,
		debounceTime: 500 * time.Millisecond,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}

	for _, t := range ix.Trees {
		if err := iw.addDirectoriesRecursively(t); err != nil {
			w.Close()
			return nil, err
		}
	}

	return iw, nil
}

// Start begins watching for file changes in the background.
func (iw *Watcher) Start() {
	go iw.watch()
}

// Stop halts the watcher and waits for its goroutine to exit.
func (iw *Watcher) Stop() {
	iw.stopOnce.Do(func() {
		close(iw.stopCh)
		<-iw.doneCh
		iw.watcher.Close()
	})
}

func (iw *Watcher) watch() {
	defer close(iw.doneCh)

	var debounceTimer *time.Timer
	reindexCh := make(chan struct{}, 1)

	for {
		select {
		case <-iw.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-iw.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if t, ok := iw.treeFor(event.Name); ok {
						if err := iw.addDirectoriesRecursively(t); err != nil {
							log.Printf("manifest: failed to watch new directory %s: %v", event.Name, err)
						}
					}
				}
			}

			if debounceTimer != nil {
				if !debounceTimer.Stop() {
					select {
					case <-debounceTimer.C:
					default:
					}
				}
			}
			debounceTimer = time.AfterFunc(iw.debounceTime, func() {
				select {
				case reindexCh <- struct{}{}:
				default:
				}
			})

		case <-reindexCh:
			iw.triggerReindex()

		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("manifest: file watcher error: %v", err)
		}
	}
}

func (iw *Watcher) triggerReindex() {
	start := time.Now()
	var cfg []byte
	if iw.configBytes != nil {
		cfg = iw.configBytes()
	}
	stats, err := iw.indexer.Run(false, cfg)
	if err != nil {
		log.Printf("manifest: incremental reindex failed: %v", err)
		return
	}
	log.Printf("manifest: reindex complete in %v (+%d ~%d -%d, %d chunks)",
		time.Since(start), stats.FilesAdded, stats.FilesModified, stats.FilesRemoved, stats.ChunksIndexed)
}

// treeFor returns the configured Tree that absPath falls under.
func (iw *Watcher) treeFor(absPath string) (Tree, bool) {
	for _, t := range iw.indexer.Trees {
		if rel, err := filepath.Rel(t.Path, absPath); err == nil && rel != ".." && !hasDotDotPrefix(rel) {
			return t, true
		}
	}
	return Tree{}, false
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 2 && rel[0] == '.' && rel[1] == '.'
}

func (iw *Watcher) addDirectoriesRecursively(t Tree) error {
	if _, err := os.Stat(t.Path); os.IsNotExist(err) {
		return nil
	}
	compiled, err := compileTrees([]Tree{t})
	if err != nil {
		return err
	}
	ct := compiled[0]

	return filepath.Walk(t.Path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("manifest: error accessing %s: %v", path, err)
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(t.Path, path)
		if err == nil && relPath != "." && ct.shouldIgnore(filepath.ToSlash(relPath)) {
			return filepath.SkipDir
		}
		if err := iw.watcher.Add(path); err != nil {
			log.Printf("manifest: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
