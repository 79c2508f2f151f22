package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lumenlimitless/xenon/internal/config"
	"github.com/lumenlimitless/xenon/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Creates or updates the six storefront tables. Safe to run repeatedly and
from multiple processes; migrations are serialized with an advisory lock.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)

	ctx := cmd.Context()
	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return err
	}

	logger.Info("schema is up to date")
	return nil
}
