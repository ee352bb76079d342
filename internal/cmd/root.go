// Package cmd wires the tdb command tree: a cobra root with persistent
// --db/--verbose/--config flags, and update/query/tag/convention as
// child command groups over the store.
package cmd

import (
	"errors"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tdb",
	Short: "Tag files in place and query them like a database",
	Long: `tdb tags real files with extended attributes and keeps a SQLite
index of those tags in sync. Queries read the index; "tdb update"
reconciles the index against whatever is actually on disk.`,
}

// Execute runs the root command, swallowing a broken pipe on stdout
// (e.g. piping into "head") instead of surfacing it as a failure.
func Execute() error {
	err := rootCmd.Execute()
	if errors.Is(err, syscall.EPIPE) {
		return nil
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "path to the tag database (default: config file or built-in default)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default: $TDB_CONFIG, else tdb/config.yaml under $XDG_CONFIG_HOME or ~/.config)")
}
