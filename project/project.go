package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileName is the SFDX project descriptor looked for by Find.
const FileName = "sfdx-project.json"

// ErrNoProject is returned by LoadFrom when no descriptor is found.
var ErrNoProject = errors.New("no sfdx-project.json found")

// Project represents an SFDX project and its package directories.
type Project struct {
	Name     string
	RootDir  string
	File     string
	Packages []*Package
}

// Package is one entry of packageDirectories.
type Package struct {
	// Path is the directory as written in the descriptor, with forward
	// slashes.
	Path    string
	Dir     string
	Name    string
	Default bool
	Project *Project
}

type descriptor struct {
	Name               string `json:"name"`
	PackageDirectories []struct {
		Path    string `json:"path"`
		Package string `json:"package"`
		Default bool   `json:"default"`
	} `json:"packageDirectories"`
}

// Load looks for a project in the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom looks for sfdx-project.json in rootDir or one directory below
// it and reads its package directories.
func LoadFrom(rootDir string) (*Project, error) {
	file, ok := Find(rootDir, 1)
	if !ok {
		return nil, ErrNoProject
	}
	return Read(file)
}

// Read parses the descriptor at file. Package directories without a path
// are skipped.
func Read(file string) (*Project, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	var desc descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}

	projectDir := filepath.Dir(file)
	proj := &Project{
		Name:    desc.Name,
		RootDir: projectDir,
		File:    file,
	}
	if proj.Name == "" {
		proj.Name = filepath.Base(projectDir)
	}

	for _, dir := range desc.PackageDirectories {
		if dir.Path == "" {
			continue
		}
		path := strings.ReplaceAll(dir.Path, `\`, "/")
		proj.Packages = append(proj.Packages, &Package{
			Path:    path,
			Dir:     filepath.Join(projectDir, filepath.FromSlash(path)),
			Name:    dir.Package,
			Default: dir.Default,
			Project: proj,
		})
	}

	return proj, nil
}

// Find returns the descriptor in dir, or in a subdirectory up to depth
// levels down. Dot entries are ignored and subdirectories are searched in
// name order.
func Find(dir string, depth int) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !entry.IsDir() && name == FileName {
			return filepath.Join(dir, name), true
		}
		if entry.IsDir() {
			subdirs = append(subdirs, name)
		}
	}

	if depth <= 0 {
		return "", false
	}
	sort.Strings(subdirs)
	for _, name := range subdirs {
		if file, ok := Find(filepath.Join(dir, name), depth-1); ok {
			return file, true
		}
	}
	return "", false
}

// Package returns the package directory with the given path, or nil.
func (p *Project) Package(path string) *Package {
	path = strings.TrimSuffix(strings.ReplaceAll(path, `\`, "/"), "/")
	for _, pkg := range p.Packages {
		if strings.TrimSuffix(pkg.Path, "/") == path {
			return pkg
		}
	}
	return nil
}

// DefaultPackage returns the package marked default, or the first one.
func (p *Project) DefaultPackage() *Package {
	for _, pkg := range p.Packages {
		if pkg.Default {
			return pkg
		}
	}
	if len(p.Packages) > 0 {
		return p.Packages[0]
	}
	return nil
}

// Contains reports whether path lies inside one of the package
// directories.
func (p *Project) Contains(path string) bool {
	for _, pkg := range p.Packages {
		rel, err := filepath.Rel(pkg.Dir, path)
		if err != nil {
			continue
		}
		if rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel)) {
			return true
		}
	}
	return false
}
