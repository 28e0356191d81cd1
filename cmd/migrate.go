package cmd

import (
	"github.com/spf13/cobra"

	"github.com/danielolaszy/sprintlens/internal/config"
	"github.com/danielolaszy/sprintlens/internal/store"
)

// migrateCmd applies the embedded database migrations.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the issues table and report views",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		pool, err := connect(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		return store.Migrate(cmd.Context(), pool)
	},
}
