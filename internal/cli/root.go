package cli

import (
	"github.com/spf13/cobra"

	"interview-backend/internal/shared/config"
)

var (
	flagDatabaseURL string

	cfg config.Config
)

// NewRootCmd creates the root cobra command for interviewctl.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "interviewctl",
		Short: "Operate the interview backend",
		Long:  "interviewctl runs migrations and inspects interview lifecycle state.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
			if flagDatabaseURL != "" {
				cfg.DatabaseURL = flagDatabaseURL
			}
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagDatabaseURL, "database-url", "", "Postgres URL (default DATABASE_URL)")

	root.AddCommand(
		newMigrateCmd(),
		newBoardCmd(),
		newClassifyCmd(),
		newPromptsCmd(),
	)

	return root
}
