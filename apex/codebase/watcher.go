package codebase

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// FileWatcher polls the scan roots of a codebase and re-parses Apex files
// whose modification time moved forward.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time

	// OnChange and OnRemove are called from the polling goroutine.
	OnChange func(*FileInfo)
	OnRemove func(path string)
}

func NewFileWatcher(c *Codebase) *FileWatcher {
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *FileWatcher) scan() {
	current := make(map[string]bool)

	for _, root := range w.codebase.ScanRoots() {
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := EntryFor(path); !ok {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}

			current[path] = true
			lastMod, known := w.modTimes[path]
			if known && !info.ModTime().After(lastMod) {
				return nil
			}
			w.modTimes[path] = info.ModTime()
			// The first sighting only records the time; the codebase
			// already parsed the file during its initial scan.
			if !known && w.codebase.GetFile(path) != nil {
				return nil
			}
			if err := w.codebase.ScanFile(path); err == nil && w.OnChange != nil {
				w.OnChange(w.codebase.GetFile(path))
			}
			return nil
		})
	}

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			if w.OnRemove != nil {
				w.OnRemove(path)
			}
		}
	}
}
