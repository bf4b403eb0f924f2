package check

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/apex-dev-tools/apex-parser/project"
)

// ProjectResult is the outcome of checking one package directory of an
// SFDX project, or the whole tree when there is no project.
type ProjectResult struct {
	Result
	Name    string
	Path    string
	Package string
}

// CheckProject looks for sfdx-project.json in path or one directory below
// and checks each package directory it lists. Without a usable project
// the whole tree under path is checked.
func (c *Checker) CheckProject(ctx context.Context, path string) []ProjectResult {
	root, err := filepath.Abs(path)
	if err != nil {
		root = path
	}
	name := filepath.Base(root)

	proj, err := project.LoadFrom(root)
	if err != nil && !errors.Is(err, project.ErrNoProject) {
		fmt.Fprintf(c.out, "Error processing: %s\n", root)
		fmt.Fprintln(c.out, err)
		return []ProjectResult{{Name: name, Path: ".", Result: Result{Status: StatusFailed}}}
	}

	if proj == nil || len(proj.Packages) == 0 {
		fmt.Fprintf(c.out, "[%s]: No valid SFDX project, checking all cls & trigger files\n", name)
		return []ProjectResult{{Name: name, Path: ".", Result: c.Check(ctx, root)}}
	}

	// Packages share the config at the project root.
	checker := c
	if c.config == nil {
		cfg, err := LoadConfig(proj.RootDir)
		if err != nil {
			fmt.Fprintf(c.out, "Error processing: %s\n", root)
			fmt.Fprintln(c.out, err)
			return []ProjectResult{{Name: name, Path: ".", Result: Result{Status: StatusFailed}}}
		}
		checker = &Checker{config: &cfg, concurrency: c.concurrency, out: c.out, errorsOut: c.errorsOut}
	}

	results := make([]ProjectResult, 0, len(proj.Packages))
	for _, pkg := range proj.Packages {
		fmt.Fprintf(c.out, "[%s]: Checking package %q\n", name, pkg.Path)
		rel, err := filepath.Rel(root, pkg.Dir)
		if err != nil {
			rel = pkg.Dir
		}
		results = append(results, ProjectResult{
			Result:  checker.Check(ctx, pkg.Dir),
			Name:    name,
			Path:    rel,
			Package: pkg.Path,
		})
	}
	return results
}

// MaxStatus returns the worst status among results.
func MaxStatus(results []ProjectResult) int {
	status := StatusOK
	for _, r := range results {
		status = max(status, r.Status)
	}
	return status
}
