package main

import (
	"github.com/spf13/cobra"

	"github.com/apex-dev-tools/apex-parser/apex/codebase"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start a language server publishing syntax errors over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version)
			return server.RunStdio()
		},
	}
}
