package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelfmate/internal/bootstrap"
	librarydto "shelfmate/internal/modules/library/dto"
)

func newBookCmd(dataPath *string) *cobra.Command {
	book := &cobra.Command{Use: "book", Short: "Manage the shelf"}

	var in librarydto.AddBookInput
	add := &cobra.Command{
		Use:   "add <isbn>",
		Short: "Add a book; missing metadata is looked up in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ISBN = args[0]
			return withApp(*dataPath, func(app *bootstrap.App) error {
				out, err := app.BookCLI.Add(context.Background(), in)
				if err != nil {
					return err
				}
				printBook(cmd, out)
				return nil
			})
		},
	}
	add.Flags().StringVar(&in.Title, "title", "", "title")
	add.Flags().StringSliceVar(&in.Authors, "author", nil, "author (repeatable)")
	add.Flags().StringVar(&in.Publisher, "publisher", "", "publisher")
	add.Flags().IntVar(&in.TotalPages, "total-pages", 0, "page count (defaults from config)")

	var favoritesOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List books on the shelf",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				books, err := app.BookCLI.List(context.Background(), favoritesOnly)
				if err != nil {
					return err
				}
				if len(books) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no books")
					return nil
				}
				for _, b := range books {
					star := " "
					if b.Favorite {
						star = "*"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%d/%d\t%d%%\n", star, b.ISBN, b.Title, b.ReadPages, b.TotalPages, b.Percent)
				}
				return nil
			})
		},
	}
	list.Flags().BoolVar(&favoritesOnly, "favorites", false, "only favorites")

	show := bookAction(dataPath, "show <isbn>", "Show one book", 1, func(ctx context.Context, app *bootstrap.App, args []string) (librarydto.BookOutput, error) {
		return app.BookCLI.Show(ctx, args[0])
	})
	total := bookAction(dataPath, "pages <isbn> <total>", "Set the total page count", 2, func(ctx context.Context, app *bootstrap.App, args []string) (librarydto.BookOutput, error) {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return librarydto.BookOutput{}, fmt.Errorf("total must be a number")
		}
		return app.BookCLI.SetTotal(ctx, args[0], n)
	})
	read := bookAction(dataPath, "read <isbn> <pages>", "Correct pages read (does not count toward missions)", 2, func(ctx context.Context, app *bootstrap.App, args []string) (librarydto.BookOutput, error) {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return librarydto.BookOutput{}, fmt.Errorf("pages must be a number")
		}
		return app.BookCLI.SetRead(ctx, args[0], n)
	})
	rate := bookAction(dataPath, "rate <isbn> <1-5>", "Rate a book on the shelf", 2, func(ctx context.Context, app *bootstrap.App, args []string) (librarydto.BookOutput, error) {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return librarydto.BookOutput{}, fmt.Errorf("rating must be a number")
		}
		return app.BookCLI.Rate(ctx, args[0], n)
	})
	summary := bookAction(dataPath, "summary <isbn> <text>", "Set a one-line summary", -2, func(ctx context.Context, app *bootstrap.App, args []string) (librarydto.BookOutput, error) {
		return app.BookCLI.Summary(ctx, args[0], strings.Join(args[1:], " "))
	})
	favorite := bookAction(dataPath, "favorite <isbn>", "Toggle favorite", 1, func(ctx context.Context, app *bootstrap.App, args []string) (librarydto.BookOutput, error) {
		return app.BookCLI.Favorite(ctx, args[0])
	})
	importPages := bookAction(dataPath, "import-pages <isbn> <pdf>", "Take the page count from a PDF", 2, func(ctx context.Context, app *bootstrap.App, args []string) (librarydto.BookOutput, error) {
		return app.BookCLI.ImportPages(ctx, args[0], args[1])
	})

	remove := &cobra.Command{
		Use:   "remove <isbn>",
		Short: "Remove a book from the shelf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				if err := app.BookCLI.Remove(context.Background(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
				return nil
			})
		},
	}

	book.AddCommand(add, list, show, total, read, rate, summary, favorite, importPages, remove)
	return book
}

// bookAction builds a command that prints the book it returns. A negative
// nargs means at least -nargs arguments.
func bookAction(dataPath *string, use, short string, nargs int, fn func(ctx context.Context, app *bootstrap.App, args []string) (librarydto.BookOutput, error)) *cobra.Command {
	args := cobra.ExactArgs(nargs)
	if nargs < 0 {
		args = cobra.MinimumNArgs(-nargs)
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, a []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				out, err := fn(context.Background(), app, a)
				if err != nil {
					return err
				}
				printBook(cmd, out)
				return nil
			})
		},
	}
}

func printBook(cmd *cobra.Command, b librarydto.BookOutput) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "isbn: %s\ntitle: %s\n", b.ISBN, b.Title)
	if len(b.Authors) > 0 {
		_, _ = fmt.Fprintf(w, "authors: %s\n", strings.Join(b.Authors, ", "))
	}
	_, _ = fmt.Fprintf(w, "progress: %d/%d (%d%%, %d left)\n", b.ReadPages, b.TotalPages, b.Percent, b.LeftPages)
	if b.Rating > 0 {
		_, _ = fmt.Fprintf(w, "rating: %d\n", b.Rating)
	}
	if b.Summary != "" {
		_, _ = fmt.Fprintf(w, "summary: %s\n", b.Summary)
	}
	_, _ = fmt.Fprintf(w, "favorite: %t finished: %t\nnote: %s\n", b.Favorite, b.Finished, b.NotePath)
}
