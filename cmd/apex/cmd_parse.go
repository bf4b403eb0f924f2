package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apex-dev-tools/apex-parser/apex/parser"
	"github.com/apex-dev-tools/apex-parser/format"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var entryName string
	var includePositions bool
	var includeComments bool
	var stopOnFirst bool
	var startLine int

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Parse Apex source and dump the syntax tree",
		Long: `Parse a .cls, .trigger or .apex file and print its concrete syntax tree.
The production is chosen from the file extension unless --entry names one of
compilationUnit, triggerUnit, anonymousUnit, expression, statement, query,
soqlLiteral, soslLiteral, soslLiteralAlt or literal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := readInput(filename, cmd.InOrStdin())
			if err != nil {
				return err
			}
			entry, err := resolveEntry(entryName, filename)
			if err != nil {
				return err
			}

			opts := []parser.Option{parser.WithFile(filename), parser.WithStartLine(startLine)}
			if includeComments {
				opts = append(opts, parser.WithComments())
			}
			if stopOnFirst {
				opts = append(opts, parser.WithStopOnFirstError())
			}
			p := parser.New(entry, bytes.NewReader(data), opts...)
			node := p.Finish()
			if node == nil {
				return fmt.Errorf("parse %s: no tree produced", filename)
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "json":
				enc := format.NewASTJSONEncoder(out)
				if !includePositions {
					enc.WithoutPositions()
				}
				if err := enc.Encode(node); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "tree":
				if includePositions {
					fmt.Fprint(out, node.StringWithPositions())
				} else {
					fmt.Fprint(out, node.String())
				}
			case "none":
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if includeComments {
				tokens := format.NewTokenLineEncoder(out).WithHidden()
				if err := tokens.EncodeAll(p.Comments()); err != nil {
					return err
				}
			}

			return reportErrors(cmd, filename, p.Source(), startLine, p.Errors())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json, none)")
	cmd.Flags().StringVarP(&entryName, "entry", "e", "", "grammar production to start from")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include source positions")
	cmd.Flags().BoolVar(&includeComments, "comments", false, "list comments after the tree")
	cmd.Flags().BoolVar(&stopOnFirst, "stop-on-first-error", false, "give up at the first syntax error")
	cmd.Flags().IntVar(&startLine, "start-line", 1, "line number of the first input line")

	return cmd
}

// reportErrors prints errs with source context and fails the command when
// there are any.
func reportErrors(cmd *cobra.Command, filename string, src []byte, startLine int, errs []parser.SyntaxError) error {
	if len(errs) == 0 {
		return nil
	}
	reporter := format.NewTextReporter(cmd.ErrOrStderr(), src)
	reporter.LineOffset = startLine - 1
	for _, e := range errs {
		e.Path = filename
		if err := reporter.Encode(e); err != nil {
			return err
		}
	}
	return &exitError{status: 1, err: fmt.Errorf("%d syntax errors in %s", len(errs), filename)}
}
