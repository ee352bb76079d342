package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jra3/tdb/internal/convention"
	"github.com/jra3/tdb/internal/errs"
)

var conventionCommit bool

var conventionCmd = &cobra.Command{
	Use:   "convention",
	Short: "Run or record configuration-driven conventions",
}

var conventionEnforceCmd = &cobra.Command{
	Use:   "enforce <name>",
	Short: "Run a named convention from the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runConventionEnforce,
}

var conventionRecordCmd = &cobra.Command{
	Use:   "record [args...]",
	Short: "Not yet implemented",
	RunE:  runConventionRecord,
}

func init() {
	conventionEnforceCmd.Flags().BoolVar(&conventionCommit, "commit", false, "apply the convention's effects instead of a dry run")
	conventionCmd.AddCommand(conventionEnforceCmd, conventionRecordCmd)
	rootCmd.AddCommand(conventionCmd)
}

func runConventionEnforce(cmd *cobra.Command, args []string) error {
	s, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	conv, ok := cfg.Conventions[args[0]]
	if !ok {
		return errs.New("cmd.runConventionEnforce", errs.KindUnknownTemplate, nil)
	}

	fr, err := convention.Enforce(cmd.Context(), s, conv, cfg.Templates, cfg.Dictionary, conventionCommit)
	if err != nil {
		return err
	}

	for i, report := range fr.Reports {
		summary := report.Summarize()
		fmt.Fprintf(cmd.OutOrStdout(), "command %d: %d files, %d updated, %d forgotten\n",
			i+1, summary.FileCount, summary.UpdateCount, summary.ForgetCount)
		for path, messages := range summary.Messages {
			for _, msg := range messages {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", path, msg)
			}
		}
	}
	return nil
}

func runConventionRecord(cmd *cobra.Command, args []string) error {
	return convention.Record(args)
}
