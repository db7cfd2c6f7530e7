package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shelfmate/internal/bootstrap"
)

func newReviewCmd(dataPath *string) *cobra.Command {
	review := &cobra.Command{Use: "review", Short: "Ratings and reviews"}

	var rating int
	var text string
	save := &cobra.Command{
		Use:   "save <isbn>",
		Short: "Write or replace your review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				out, err := app.ReviewCLI.Save(context.Background(), args[0], rating, text)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "review saved for %s rating=%d\n", out.ISBN, out.Rating)
				return nil
			})
		},
	}
	save.Flags().IntVar(&rating, "rating", 0, "rating 1-5 (0 for none)")
	save.Flags().StringVar(&text, "text", "", "review text")

	del := &cobra.Command{
		Use:   "delete <isbn>",
		Short: "Delete your review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				if err := app.ReviewCLI.Delete(context.Background(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "review deleted")
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list <isbn>",
		Short: "List reviews of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				out, err := app.ReviewCLI.List(context.Background(), args[0])
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if out.HasAverage {
					_, _ = fmt.Fprintf(w, "average %.1f over %d reviews\n", out.Average, out.Count)
				} else {
					_, _ = fmt.Fprintf(w, "%d reviews\n", out.Count)
				}
				for _, r := range out.Reviews {
					mine := ""
					if r.Mine {
						mine = " (you)"
					}
					_, _ = fmt.Fprintf(w, "%s%s\t%d\t%s\n", r.Nickname, mine, r.Rating, r.Text)
				}
				return nil
			})
		},
	}

	review.AddCommand(save, del, list)
	return review
}

func newMemoCmd(dataPath *string) *cobra.Command {
	memo := &cobra.Command{Use: "memo", Short: "Reading memos"}

	memo.AddCommand(&cobra.Command{
		Use:   "add <isbn> <text>",
		Short: "Add a memo at the current page",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				out, err := app.ReviewCLI.AddMemo(context.Background(), args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "memo %s at p.%d\n", out.ID, out.PagesAt)
				return nil
			})
		},
	})

	memo.AddCommand(&cobra.Command{
		Use:   "list <isbn>",
		Short: "List memos of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				memos, err := app.ReviewCLI.Memos(context.Background(), args[0])
				if err != nil {
					return err
				}
				if len(memos) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no memos")
					return nil
				}
				for _, m := range memos {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "p.%d\t%s\t%s\n", m.PagesAt, m.CreatedAt.Local().Format("2006-01-02 15:04"), m.Text)
				}
				return nil
			})
		},
	})
	return memo
}
