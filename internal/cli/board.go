package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"interview-backend/internal/domain/model"
	"interview-backend/internal/feedback"
	"interview-backend/internal/interviews"
	"interview-backend/internal/lifecycle"
	"interview-backend/internal/shared/storage/db"
)

// boardSource opens the repositories the board command reads from. The
// returned func releases them.
type boardSource func(ctx context.Context) (interviews.Repo, feedback.Repo, func(), error)

var openBoardSource boardSource = func(ctx context.Context) (interviews.Repo, feedback.Repo, func(), error) {
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect: %w", err)
	}
	return &interviews.PGRepo{DB: sqlDB}, &feedback.PGRepo{DB: sqlDB}, func() { sqlDB.Close() }, nil
}

func newBoardCmd() *cobra.Command {
	var (
		userID string
		now    string
	)
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print a user's interviews grouped by lifecycle bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(userID) == "" {
				return fmt.Errorf("--user is required")
			}
			at, err := parseInstant("now", now, time.Now().UTC())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			ivRepo, fbRepo, closeFn, err := openBoardSource(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			list, err := ivRepo.ListByUser(ctx, userID)
			if err != nil {
				return fmt.Errorf("list interviews: %w", err)
			}
			scored, err := fbRepo.ScoredInterviewIDs(ctx, userID)
			if err != nil {
				return fmt.Errorf("list feedback: %w", err)
			}

			board := lifecycle.Partition(at, list, func(id string) bool { return scored[id] })
			printBoard(cmd.OutOrStdout(), at, board, scored)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID (for guests: guest:<id>)")
	cmd.Flags().StringVar(&now, "now", "", "Instant to classify at (RFC3339, default current time)")
	return cmd
}

func printBoard(w io.Writer, at time.Time, board lifecycle.Board, scored map[string]bool) {
	sections := []struct {
		name string
		list []model.Interview
	}{
		{"pendingScheduled", board.PendingScheduled},
		{"missed", board.Missed},
		{"completed", board.Completed},
		{"takeable", board.Takeable},
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, section := range sections {
		fmt.Fprintf(tw, "%s (%d)\n", section.name, len(section.list))
		for _, iv := range section.list {
			schedule := "-"
			if iv.ScheduledFor != nil {
				schedule = iv.ScheduledFor.UTC().Format(time.RFC3339)
			}
			state := lifecycle.Resolve(at, iv, scored[iv.ID])
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", iv.ID, iv.Role, schedule, state)
		}
	}
	tw.Flush()
}
