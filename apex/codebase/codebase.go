package codebase

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/apex-dev-tools/apex-parser/apex/parser"
	"github.com/apex-dev-tools/apex-parser/project"
)

var log = commonlog.GetLogger("apex.codebase")

// Codebase keeps the latest parse of every Apex document it has seen.
type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	project *project.Project
	files   map[string]*FileInfo
}

type FileInfo struct {
	Path    string
	Content []byte
	Entry   parser.Entry
	Tree    *parser.Node
	Errors  []parser.SyntaxError
}

// New returns a codebase rooted at rootDir. When rootDir holds an SFDX
// project, scans are limited to its package directories.
func New(rootDir string) *Codebase {
	c := &Codebase{
		rootDir: rootDir,
		files:   make(map[string]*FileInfo),
	}
	if proj, err := project.LoadFrom(rootDir); err == nil {
		c.project = proj
		log.Infof("using project %s with %d package directories", proj.Name, len(proj.Packages))
	}
	return c
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// EntryFor picks the production a file is parsed with from its extension.
func EntryFor(path string) (parser.Entry, bool) {
	switch filepath.Ext(path) {
	case ".cls":
		return parser.EntryCompilationUnit, true
	case ".trigger":
		return parser.EntryTriggerUnit, true
	case ".apex":
		return parser.EntryAnonymousUnit, true
	}
	return 0, false
}

// ScanRoots returns the directories ScanAll walks.
func (c *Codebase) ScanRoots() []string {
	if c.project == nil || len(c.project.Packages) == 0 {
		return []string{c.rootDir}
	}
	roots := make([]string, 0, len(c.project.Packages))
	for _, pkg := range c.project.Packages {
		roots = append(roots, pkg.Dir)
	}
	return roots
}

func (c *Codebase) ScanAll() error {
	for _, root := range c.ScanRoots() {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := EntryFor(path); ok {
				c.ScanFile(path)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.UpdateFile(path, content)
	return nil
}

// UpdateFile re-parses content and returns the stored result. Files with
// an unknown extension are parsed as classes.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	entry, ok := EntryFor(path)
	if !ok {
		entry = parser.EntryCompilationUnit
	}

	collector := parser.NewErrorCollector(path)
	p := parser.New(entry, bytes.NewReader(content),
		parser.WithFile(filepath.Base(path)),
		parser.WithErrorListener(collector),
	)
	info := &FileInfo{
		Path:    path,
		Content: content,
		Entry:   entry,
		Tree:    p.Finish(),
		Errors:  collector.Errors(),
	}
	log.Debugf("parsed %s: %d syntax errors", path, len(info.Errors))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = info
	return info
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the known file paths in sorted order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// ErrorCount sums syntax errors over every known file.
func (c *Codebase) ErrorCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, f := range c.files {
		n += len(f.Errors)
	}
	return n
}
