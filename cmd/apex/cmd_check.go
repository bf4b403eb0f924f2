package main

import (
	"github.com/spf13/cobra"

	"github.com/apex-dev-tools/apex-parser/check"
)

func newCheckCmd() *cobra.Command {
	var projectMode bool
	var configPath string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Check .cls and .trigger files under a directory for syntax errors",
		Long: `Parse every .cls file as a class and every .trigger file as a trigger,
printing one JSON record per syntax error to stderr and a summary per file
type to stdout. With --project the package directories of an sfdx-project.json
found in path, or one directory below it, are checked instead.

Exit status is 0 when the files could be checked, 1 when processing failed
and 2 when the path does not exist.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			opts := []check.Option{
				check.WithOutput(cmd.OutOrStdout()),
				check.WithErrorOutput(cmd.ErrOrStderr()),
				check.WithConcurrency(concurrency),
			}
			if configPath != "" {
				cfg, err := check.ReadConfig(configPath)
				if err != nil {
					return err
				}
				opts = append(opts, check.WithConfig(cfg))
			}
			checker := check.New(opts...)

			var status int
			if projectMode {
				status = check.MaxStatus(checker.CheckProject(cmd.Context(), path))
			} else {
				status = checker.Check(cmd.Context(), path).Status
			}
			if status != check.StatusOK {
				return &exitError{status: status}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&projectMode, "project", "p", false, "check the package directories of an SFDX project")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: .apexcheck.yaml or .apexcheck.toml in path)")
	cmd.Flags().IntVarP(&concurrency, "jobs", "j", 0, "files parsed at once (default: number of CPUs)")

	return cmd
}
