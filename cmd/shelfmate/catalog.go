package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shelfmate/internal/bootstrap"
	catalogdto "shelfmate/internal/modules/catalog/dto"
)

func newCatalogCmd(dataPath *string) *cobra.Command {
	catalog := &cobra.Command{Use: "catalog", Short: "Book metadata lookup"}

	var limit int
	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog by title or author",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				books, err := app.CatalogCLI.Search(context.Background(), strings.Join(args, " "), limit)
				if err != nil {
					return err
				}
				printResults(cmd, books)
				return nil
			})
		},
	}
	search.Flags().IntVar(&limit, "limit", 10, "max results")

	lookup := &cobra.Command{
		Use:   "lookup <isbn>...",
		Short: "Look up books by ISBN",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				books, err := app.CatalogCLI.LookupISBN(context.Background(), args)
				if err != nil {
					return err
				}
				printResults(cmd, books)
				return nil
			})
		},
	}

	catalog.AddCommand(search, lookup)
	return catalog
}

func printResults(cmd *cobra.Command, books []catalogdto.BookResult) {
	if len(books) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no results")
		return
	}
	for _, b := range books {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t[%s]\n", b.ISBN, b.Title, strings.Join(b.Authors, ", "), b.Provider)
	}
}

func newPluginCmd(dataPath *string) *cobra.Command {
	plugin := &cobra.Command{Use: "plugin", Short: "Catalog plugin operations"}
	plugin.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List plugin manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				plugins, err := app.CatalogCLI.ListPlugins(context.Background())
				if err != nil {
					return err
				}
				if len(plugins) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
					return nil
				}
				for _, p := range plugins {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s capabilities=%s\n", p.Name, p.Version, p.Enabled, p.Binary, strings.Join(p.Capabilities, ","))
				}
				return nil
			})
		},
	})

	plugin.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate plugin checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				results, err := app.CatalogCLI.Doctor(context.Background())
				if err != nil {
					return err
				}
				if len(results) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
					return nil
				}
				for _, r := range results {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
					if r.Error != "" {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%s", r.Error)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			})
		},
	})
	return plugin
}
