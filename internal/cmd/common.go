package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jra3/tdb/internal/config"
	"github.com/jra3/tdb/internal/logging"
	"github.com/jra3/tdb/internal/store"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	explicit, _ := cmd.Root().PersistentFlags().GetString("config")
	return config.LoadWithEnv(os.Getenv, explicit)
}

// openStore loads configuration (honoring --config and --db) and opens
// the store it resolves to.
func openStore(cmd *cobra.Command) (*store.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if dbPath, _ := cmd.Root().PersistentFlags().GetString("db"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	return logging.New(cmd.ErrOrStderr(), verbose)
}
