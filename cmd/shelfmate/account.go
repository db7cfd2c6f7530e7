package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"shelfmate/internal/bootstrap"
	identitydto "shelfmate/internal/modules/identity/dto"
)

func newAccountCmd(dataPath *string) *cobra.Command {
	account := &cobra.Command{Use: "account", Short: "Account and rank"}

	var nickname, password string
	register := &cobra.Command{
		Use:   "register <email>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := promptPassword(password, true)
			if err != nil {
				return err
			}
			return withApp(*dataPath, func(app *bootstrap.App) error {
				out, err := app.AccountCLI.Register(context.Background(), args[0], nickname, pw)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s)\n", out.Email, out.Nickname)
				return nil
			})
		},
	}
	register.Flags().StringVar(&nickname, "nickname", "", "display name (defaults to the email's local part)")
	register.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")

	login := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and keep the token on disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := promptPassword(password, false)
			if err != nil {
				return err
			}
			return withApp(*dataPath, func(app *bootstrap.App) error {
				out, err := app.AccountCLI.Login(context.Background(), args[0], pw)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s until %s\n", out.Nickname, out.ExpiresAt.Local().Format("2006-01-02 15:04"))
				return nil
			})
		},
	}

	login.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				if err := app.AccountCLI.Logout(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
				return nil
			})
		},
	}

	profile := &cobra.Command{
		Use:   "profile",
		Short: "Show points, rank and finished books",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				out, err := app.AccountCLI.Profile(context.Background())
				if err != nil {
					return err
				}
				printProfile(cmd, out)
				return nil
			})
		},
	}

	rename := &cobra.Command{
		Use:   "rename <nickname>",
		Short: "Change the display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataPath, func(app *bootstrap.App) error {
				out, err := app.AccountCLI.Rename(context.Background(), args[0])
				if err != nil {
					return err
				}
				printProfile(cmd, out)
				return nil
			})
		},
	}

	account.AddCommand(register, login, logout, profile, rename)
	return account
}

func printProfile(cmd *cobra.Command, p identitydto.ProfileOutput) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "nickname: %s\nemail: %s\npoints: %d\nbooks read: %d\nrank: %s\n", p.Nickname, p.Email, p.TotalPoints, p.BooksReadCount, p.Rank)
	if p.NextRank != "" {
		_, _ = fmt.Fprintf(w, "next: %s in %d points (%.1f%%)\n", p.NextRank, p.PointsToNext, p.PercentToNext)
	}
}

// promptPassword returns flagValue when set, otherwise asks on the terminal with masked input.
func promptPassword(flagValue string, confirm bool) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	var password, again string
	fields := []huh.Field{
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
	}
	if confirm {
		fields = append(fields, huh.NewInput().Title("Repeat password").EchoMode(huh.EchoModePassword).Value(&again).
			Validate(func(s string) error {
				if s != password {
					return errors.New("passwords do not match")
				}
				return nil
			}))
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).WithShowErrors(true).Run(); err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return password, nil
}
