package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"shelfmate/internal/bootstrap"
	missiondto "shelfmate/internal/modules/mission/dto"
	"shelfmate/internal/platform/calendar"
)

func newMissionCmd(dataPath *string) *cobra.Command {
	mission := &cobra.Command{Use: "mission", Short: "Page-count missions"}

	var title, start, end string
	var goal, reward int
	create := &cobra.Command{
		Use:   "create --title <title> --goal <pages> --reward <points>",
		Short: "Create a mission over a date window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := missiondto.CreateInput{Title: title, Goal: goal, Reward: reward}
			var err error
			if start != "" {
				if in.StartDate, err = calendar.Parse(start); err != nil {
					return err
				}
			}
			if end != "" {
				if in.EndDate, err = calendar.Parse(end); err != nil {
					return err
				}
			}
			return withApp(*dataPath, func(app *bootstrap.App) error {
				out, err := app.MissionCLI.Create(context.Background(), in)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "mission created: %s %q %s..%s goal=%d reward=%d difficulty=%s\n", out.ID, out.Title, out.StartDate, out.EndDate, out.Goal, out.Reward, out.Difficulty)
				return nil
			})
		},
	}
	create.Flags().StringVar(&title, "title", "", "mission title")
	create.Flags().StringVar(&start, "start", "", "first day YYYY-MM-DD (default today)")
	create.Flags().StringVar(&end, "end", "", "last day YYYY-MM-DD (default start)")
	create.Flags().IntVar(&goal, "goal", 0, "pages to read")
	create.Flags().IntVar(&reward, "reward", 0, "points on completion")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a mission (earned points stay)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				if err := app.MissionCLI.Delete(context.Background(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "mission deleted")
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List missions with progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				missions, err := app.MissionCLI.List(context.Background())
				if err != nil {
					return err
				}
				printMissions(cmd, missions)
				return nil
			})
		},
	}

	var every time.Duration
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Print missions whenever their progress changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp(*dataPath, func(app *bootstrap.App) error {
				uid, err := app.CurrentUserID(ctx)
				if err != nil {
					return err
				}
				unsubscribe := app.MissionCLI.Watch(uid, func(missions []missiondto.MissionOutput) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "-- %s\n", time.Now().Format("15:04:05"))
					printMissions(cmd, missions)
				})
				defer unsubscribe()

				missions, err := app.MissionCLI.List(ctx)
				if err != nil {
					return err
				}
				printMissions(cmd, missions)

				// Deltas recorded by other processes are drained by List, which publishes to the watcher.
				ticker := time.NewTicker(every)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
						if _, err := app.MissionCLI.List(ctx); err != nil {
							app.Log.Warn("mission refresh failed", "error", err)
						}
					}
				}
			})
		},
	}
	watch.Flags().DurationVar(&every, "every", 5*time.Second, "refresh interval")

	mission.AddCommand(create, del, list, watch)
	return mission
}

func printMissions(cmd *cobra.Command, missions []missiondto.MissionOutput) {
	if len(missions) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no missions")
		return
	}
	for _, m := range missions {
		state := "open"
		if m.Completed {
			state = "done"
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s..%s\t%d/%d\t%.1f%%\t%s\t+%d\t%s\n", m.ID, m.Title, m.StartDate, m.EndDate, m.PagesRead, m.Goal, m.Progress, state, m.Reward, m.Difficulty)
	}
}
