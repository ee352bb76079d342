package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jra3/tdb/internal/logging"
	"github.com/jra3/tdb/internal/store"
	"github.com/jra3/tdb/internal/update"
)

var updateClean bool

var updateCmd = &cobra.Command{
	Use:   "update <paths...>",
	Short: "Reconcile the store with the tags actually on disk",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&updateClean, "clean", false, "remove tag rows left with no remaining associations")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	s, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runID := logging.RunID()
	log := logging.Component(newLogger(cmd), "update").With("run_id", runID)

	ctx := cmd.Context()
	result, err := update.Reconcile(ctx, s, args)
	if err != nil {
		return err
	}
	log.Info("reconciled",
		"files_inserted", len(result.ToInsertFiles), "files_deleted", len(result.ToDeleteFiles),
		"tags_inserted", len(result.ToInsertTags),
		"assocs_inserted", len(result.ToInsertAssocs), "assocs_deleted", len(result.ToDeleteAssocs))

	if updateClean {
		var removed int
		err := s.WithTx(ctx, func(tx *sql.Tx) error {
			unused, err := store.CleanUnusedTags(ctx, tx)
			removed = len(unused)
			return err
		})
		if err != nil {
			return err
		}
		log.Info("cleaned unused tags", "count", removed)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "files: +%d -%d  tags: +%d  associations: +%d -%d\n",
		len(result.ToInsertFiles), len(result.ToDeleteFiles), len(result.ToInsertTags),
		len(result.ToInsertAssocs), len(result.ToDeleteAssocs))
	return nil
}
