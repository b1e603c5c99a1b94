package cli

import (
	"log"

	"quizmaster_backend/internal/app"
	"quizmaster_backend/internal/config"
	"quizmaster_backend/pkg/database"

	"github.com/spf13/cobra"
)

// NewSeedCmd clears subjects and quizzes and loads the bundled catalog.
func NewSeedCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the subject and quiz catalog with the bundled data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configDir)
			if err != nil {
				return err
			}

			db, err := database.InitDB(&cfg.Database)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := database.Migrate(db); err != nil {
				return err
			}

			rdb, err := database.InitRedis(&cfg.Redis)
			if err != nil {
				return err
			}
			if rdb != nil {
				defer rdb.Close()
			}

			application, err := app.New(cfg, db, rdb)
			if err != nil {
				return err
			}
			defer application.Close()
			if err := application.Seed(cmd.Context()); err != nil {
				return err
			}
			log.Println("catalog seeded")
			return nil
		},
	}
}
