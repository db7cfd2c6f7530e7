package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shelfmate/internal/bootstrap"
	"shelfmate/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataPath string

	root := &cobra.Command{
		Use:           "shelfmate",
		Short:         "Reading tracker with timed sessions and page missions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataPath, "data", defaultDataPath(), "data directory (notes, database, plugins)")

	root.AddCommand(newTUICmd(&dataPath))
	root.AddCommand(newAccountCmd(&dataPath))
	root.AddCommand(newBookCmd(&dataPath))
	root.AddCommand(newCatalogCmd(&dataPath))
	root.AddCommand(newPluginCmd(&dataPath))
	root.AddCommand(newReviewCmd(&dataPath))
	root.AddCommand(newMemoCmd(&dataPath))
	root.AddCommand(newSessionCmd(&dataPath))
	root.AddCommand(newMissionCmd(&dataPath))
	return root
}

func defaultDataPath() string {
	if v := os.Getenv("SHELFMATE_DATA"); v != "" {
		return v
	}
	return "."
}

// withApp builds the application for one command and closes it afterwards.
func withApp(dataPath string, fn func(app *bootstrap.App) error) error {
	cfg, err := config.New(dataPath)
	if err != nil {
		return err
	}
	app, err := bootstrap.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			app.Log.Warn("close app", "error", cerr)
		}
	}()
	return fn(app)
}

func newTUICmd(dataPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the shelfmate terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(*dataPath, bootstrap.RunTUI)
		},
	}
}
