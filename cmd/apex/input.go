package main

import (
	"fmt"
	"io"
	"os"

	"github.com/apex-dev-tools/apex-parser/apex/codebase"
	"github.com/apex-dev-tools/apex-parser/apex/parser"
)

// readInput reads a file, or standard input when name is "-".
func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// resolveEntry picks the production named by the flag, or the one the
// file extension implies.
func resolveEntry(name, filename string) (parser.Entry, error) {
	if name != "" {
		entry, ok := parser.LookupEntry(name)
		if !ok {
			return 0, fmt.Errorf("unknown entry: %s", name)
		}
		return entry, nil
	}
	if entry, ok := codebase.EntryFor(filename); ok {
		return entry, nil
	}
	return parser.EntryCompilationUnit, nil
}
