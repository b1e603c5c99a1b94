package cli

import (
	"quizmaster_backend/internal/app"
	"quizmaster_backend/internal/config"
	"quizmaster_backend/pkg/logger"

	"github.com/spf13/cobra"
)

// NewServeCmd builds the subcommand that starts the HTTP server.
func NewServeCmd(configDir *string) *cobra.Command {
	var migrate, seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the QuizMaster API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configDir)
			if err != nil {
				return err
			}
			cfg.ForceMigrate = migrate
			cfg.SeedOnStart = seed

			application, err := app.NewApp(cfg, *configDir)
			if err != nil {
				return err
			}
			defer logger.Log.Sync()

			return application.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "run database migrations on start, even in release mode")
	cmd.Flags().BoolVar(&seed, "seed", false, "replace the subject and quiz catalog with the bundled data on start")
	return cmd
}
