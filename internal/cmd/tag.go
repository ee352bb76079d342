package cmd

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jra3/tdb/internal/pipeline"
	"github.com/jra3/tdb/internal/statistics"
	"github.com/jra3/tdb/internal/store"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Inspect or clean up the tag vocabulary",
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every tag name in the store",
	Args:  cobra.NoArgs,
	RunE:  runTagList,
}

var tagCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete tag rows with no remaining file associations",
	Args:  cobra.NoArgs,
	RunE:  runTagClean,
}

var tagStatisticsCmd = &cobra.Command{
	Use:   "statistics [TAG]",
	Short: "Show tag usage counts, or co-occurrence counts for one tag",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTagStatistics,
}

func init() {
	tagCmd.AddCommand(tagListCmd, tagCleanCmd, tagStatisticsCmd)
	rootCmd.AddCommand(tagCmd)
}

func runTagList(cmd *cobra.Command, args []string) error {
	s, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := pipeline.Drive(cmd.Context(), s.DB(), pipeline.Pipeline{})
	if err != nil {
		return err
	}
	names, err := pipeline.TagNames.Collect(results)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
	return nil
}

func runTagClean(cmd *cobra.Command, args []string) error {
	s, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var removed []string
	err = s.WithTx(cmd.Context(), func(tx *sql.Tx) error {
		unused, err := store.CleanUnusedTags(cmd.Context(), tx)
		for _, tg := range unused {
			removed = append(removed, tg.Name)
		}
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d unused tags\n", len(removed))
	return nil
}

func runTagStatistics(cmd *cobra.Command, args []string) error {
	s, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := pipeline.DriveForced(cmd.Context(), s.DB(), pipeline.Pipeline{}, pipeline.Mapped)
	if err != nil {
		return err
	}
	owned := results.Owned

	if len(args) == 1 {
		target := args[0]
		for _, pc := range statistics.PairCounts(owned) {
			if pc.A != target && pc.B != target {
				continue
			}
			other := pc.B
			if other == target {
				other = pc.A
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", other, statistics.FormatCount(pc.Count))
		}
		return nil
	}

	for _, tc := range statistics.TagCounts(owned) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", tc.Name, statistics.FormatCount(tc.Count))
	}
	return nil
}
