package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"interview-backend/internal/domain/model"
	"interview-backend/internal/lifecycle"
)

func newClassifyCmd() *cobra.Command {
	var (
		status       string
		scheduledFor string
		now          string
	)
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Print the lifecycle state of an interview at an instant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := model.ParseStatus(status)
			if err != nil {
				return err
			}
			at, err := parseInstant("now", now, time.Now().UTC())
			if err != nil {
				return err
			}
			var schedule *time.Time
			if scheduledFor != "" {
				s, err := parseInstant("scheduled-for", scheduledFor, time.Time{})
				if err != nil {
					return err
				}
				schedule = &s
			}

			state := lifecycle.Classify(at, parsed, schedule)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, state)
			if state == lifecycle.PendingScheduled {
				fmt.Fprintln(out, lifecycle.StartsInLabel(schedule.Sub(at)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Persisted status: scheduled, ready or completed")
	cmd.Flags().StringVar(&scheduledFor, "scheduled-for", "", "Scheduled start (RFC3339)")
	cmd.Flags().StringVar(&now, "now", "", "Instant to classify at (RFC3339, default current time)")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}
