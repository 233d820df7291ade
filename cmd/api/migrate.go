package main

import (
	"github.com/spf13/cobra"

	"blogapi/internal/database"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()

			db, err := database.ConnectDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.CloseDB()

			return db.RunMigrations(cmd.Context())
		},
	}
}
