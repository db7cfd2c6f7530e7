package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"shelfmate/internal/bootstrap"
)

func newSessionCmd(dataPath *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Timed reading sessions"}

	var device string
	start := &cobra.Command{
		Use:   "start <isbn>",
		Short: "Start the timer for a book on the shelf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Start(context.Background(), args[0], device)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session started: %s %q at page %d, %s\n", out.SessionID, out.BookTitle, out.StartReadPages, out.StartedAt.Local().Format(time.RFC3339))
				return nil
			})
		},
	}
	start.Flags().StringVar(&device, "device", "cli", "device label stored with the session")

	end := &cobra.Command{
		Use:   "end <final-page>",
		Short: "Stop the timer and credit the validated pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("final page must be a number")
			}
			return withApp(*dataPath, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.End(context.Background(), page)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "session ended: %s %q elapsed=%s\n", out.SessionID, out.BookTitle, time.Duration(out.ElapsedSeconds)*time.Second)
				_, _ = fmt.Fprintf(w, "claimed=%d cap=%d daily-left=%d accepted=%d reason=%s\n", out.RawDelta, out.SpeedCap, out.DailyLeft, out.AcceptedDelta, out.Reason)
				_, _ = fmt.Fprintf(w, "progress %d -> %d / %d note=%s\n", out.ReadPagesBefore, out.ReadPagesAfter, out.TotalPages, out.NotePath)
				if out.MissionsPending {
					_, _ = fmt.Fprintln(w, "missions: update pending, it will apply on the next mission list")
				} else if out.MissionsUpdated > 0 {
					_, _ = fmt.Fprintf(w, "missions advanced: %d\n", out.MissionsUpdated)
				}
				for _, r := range out.Rewards {
					_, _ = fmt.Fprintf(w, "mission complete: %s +%d points\n", r.Title, r.Points)
				}
				return nil
			})
		},
	}

	cancel := &cobra.Command{
		Use:   "cancel",
		Short: "Discard the running session without crediting pages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				if err := app.SessionCLI.Cancel(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "session cancelled")
				return nil
			})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the running session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.GetActive(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %q from page %d, running %s\n", out.SessionID, out.BookTitle, out.StartReadPages, out.Elapsed.Truncate(time.Second))
				return nil
			})
		},
	}

	var isbn string
	history := &cobra.Command{
		Use:   "history",
		Short: "List finished sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				sessions, err := app.SessionCLI.History(context.Background(), isbn)
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range sessions {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t+%d/%d\t%s\n", s.StartedAt.Local().Format("2006-01-02 15:04"), s.BookTitle, time.Duration(s.ElapsedSeconds)*time.Second, s.AcceptedDelta, s.RawDelta, s.Reason)
				}
				return nil
			})
		},
	}
	history.Flags().StringVar(&isbn, "isbn", "", "only sessions of this book")

	session.AddCommand(start, end, cancel, status, history)
	return session
}
