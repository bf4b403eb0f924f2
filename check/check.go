package check

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/apex-dev-tools/apex-parser/apex/parser"
	"github.com/apex-dev-tools/apex-parser/format"
)

var log = commonlog.GetLogger("apex.check")

// ErrPathNotFound is returned when the checked path does not exist.
var ErrPathNotFound = errors.New("path does not exist")

// Exit statuses of a check. Syntax errors alone do not fail a check.
const (
	StatusOK           = 0
	StatusFailed       = 1
	StatusPathNotFound = 2
)

// Result is the outcome of checking one directory.
type Result struct {
	Status int
	Errors []parser.SyntaxError
	// Parsed counts the files parsed per extension.
	Parsed map[string]int
}

// Checker parses every Apex file under a directory and reports the syntax
// errors it finds. Progress lines go to the output writer and one JSON
// record per error to the error writer.
type Checker struct {
	config      *Config
	concurrency int
	out         io.Writer
	errorsOut   format.ErrorEncoder
}

type Option func(*Checker)

// WithConfig fixes the configuration instead of loading it from the
// checked directory.
func WithConfig(cfg Config) Option {
	return func(c *Checker) {
		c.config = &cfg
	}
}

// WithConcurrency overrides the concurrency of any loaded config.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		c.concurrency = n
	}
}

func WithOutput(w io.Writer) Option {
	return func(c *Checker) {
		c.out = w
	}
}

// WithErrorOutput sets the writer receiving JSON error records.
func WithErrorOutput(w io.Writer) Option {
	return func(c *Checker) {
		c.errorsOut = format.NewErrorJSONEncoder(w)
	}
}

// WithErrorEncoder sets how error records are written.
func WithErrorEncoder(enc format.ErrorEncoder) Option {
	return func(c *Checker) {
		c.errorsOut = enc
	}
}

func New(opts ...Option) *Checker {
	c := &Checker{
		out:       os.Stdout,
		errorsOut: format.NewErrorJSONEncoder(os.Stderr),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusOf maps an error returned by Run to an exit status.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrPathNotFound):
		return StatusPathNotFound
	default:
		return StatusFailed
	}
}

// Check runs a check of path and turns failures into a status, writing
// the reason to the output.
func (c *Checker) Check(ctx context.Context, path string) Result {
	root, err := filepath.Abs(path)
	if err != nil {
		root = path
	}

	result, err := c.Run(ctx, root)
	switch {
	case errors.Is(err, ErrPathNotFound):
		fmt.Fprintf(c.out, "Path does not exist, aborting: %s\n", root)
	case err != nil:
		fmt.Fprintf(c.out, "Error processing: %s\n", root)
		fmt.Fprintln(c.out, err)
	}
	result.Status = StatusOf(err)
	return result
}

// Run parses every matching file under root.
func (c *Checker) Run(ctx context.Context, root string) (Result, error) {
	result := Result{Parsed: map[string]int{}}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("%s: %w", root, ErrPathNotFound)
		}
		return result, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return result, fmt.Errorf("%s: not a directory", root)
	}

	cfg, err := c.configFor(root)
	if err != nil {
		return result, err
	}
	if c.concurrency > 0 {
		cfg.Concurrency = c.concurrency
	}

	log.Infof("checking %s", root)
	files, err := collectFiles(root, cfg)
	if err != nil {
		return result, err
	}

	for _, typ := range cfg.Types() {
		errs, err := c.parseByType(ctx, root, files[typ.Ext], typ, cfg.Concurrency)
		if err != nil {
			return result, err
		}
		result.Parsed[typ.Ext] = len(files[typ.Ext])
		result.Errors = append(result.Errors, errs...)
	}
	return result, nil
}

func (c *Checker) configFor(root string) (Config, error) {
	if c.config != nil {
		return *c.config, c.config.Validate()
	}
	return LoadConfig(root)
}

// collectFiles buckets the relative paths of regular files under root by
// extension, in lexical order.
func collectFiles(root string, cfg Config) (map[string][]string, error) {
	exts := map[string]bool{}
	for _, typ := range cfg.Types() {
		exts[typ.Ext] = true
	}

	files := map[string][]string{}
	err := fs.WalkDir(os.DirFS(root), ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ext := filepath.Ext(rel)
		if !exts[ext] || !cfg.Matches(rel) {
			return nil
		}
		files[ext] = append(files[ext], rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func (c *Checker) parseByType(ctx context.Context, root string, files []string, typ FileType, concurrency int) ([]parser.SyntaxError, error) {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	perFile := make([][]parser.SyntaxError, len(files))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(concurrency)
	for i, rel := range files {
		i, rel := i, rel
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			errs, err := parseFile(root, rel, typ.Entry)
			if err != nil {
				return err
			}
			perFile[i] = errs
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	var all []parser.SyntaxError
	for i, errs := range perFile {
		if len(errs) == 0 {
			continue
		}
		for _, e := range errs {
			if err := c.errorsOut.Encode(e); err != nil {
				return nil, fmt.Errorf("write error record: %w", err)
			}
		}
		fmt.Fprintf(c.out, "Found %d syntax errors in: %s\n", len(errs), filepath.FromSlash(files[i]))
		all = append(all, errs...)
	}

	fmt.Fprintf(c.out, "Parsed %d '%s' files in: %s\n", len(files), typ.Ext, root)
	return all, nil
}

func parseFile(root, rel string, entry parser.Entry) ([]parser.SyntaxError, error) {
	path := filepath.Join(root, filepath.FromSlash(rel))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	relPath := filepath.FromSlash(rel)
	log.Debugf("parsing %s as %s", relPath, entry)
	collector := parser.NewErrorCollector(relPath)
	p := parser.New(entry, bytes.NewReader(data),
		parser.WithFile(relPath),
		parser.WithErrorListener(collector),
	)
	p.Finish()

	errs := collector.Errors()
	if len(errs) > 0 {
		log.Debugf("%s: %d syntax errors, first: %s", relPath, len(errs), strings.TrimSpace(errs[0].Message))
	}
	return errs, nil
}
