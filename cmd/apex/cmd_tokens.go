package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apex-dev-tools/apex-parser/apex/parser"
	"github.com/apex-dev-tools/apex-parser/format"
)

func newTokensCmd() *cobra.Command {
	var includeHidden bool
	var countOnly bool

	cmd := &cobra.Command{
		Use:   "tokens <file|->",
		Short: "Tokenize Apex source and list the tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := readInput(filename, cmd.InOrStdin())
			if err != nil {
				return err
			}

			collector := parser.NewErrorCollector(filename)
			lexer := parser.NewLexer(data, filename)
			lexer.AddErrorListener(collector)
			toks := lexer.All()

			out := cmd.OutOrStdout()
			if countOnly {
				n := 0
				for _, tok := range toks {
					if tok.Channel == parser.DefaultChannel {
						n++
					}
				}
				fmt.Fprintln(out, n)
			} else {
				enc := format.NewTokenLineEncoder(out)
				if includeHidden {
					enc.WithHidden()
				}
				if err := enc.EncodeAll(toks); err != nil {
					return err
				}
			}

			return reportErrors(cmd, filename, data, 1, collector.Errors())
		},
	}

	cmd.Flags().BoolVarP(&includeHidden, "all", "a", false, "include whitespace and comment tokens")
	cmd.Flags().BoolVarP(&countOnly, "count", "c", false, "print only the number of default channel tokens")

	return cmd
}
