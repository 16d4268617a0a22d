package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"backoffice/internal/app"
	"backoffice/internal/domain/models"
	"backoffice/internal/state"

	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
	loginProvider string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session tokens",
	Long: `Sign in against the backend (default) or the identity provider
(--provider identity). Tokens are kept encrypted in the secure store.
The password may also come from BACKOFFICE_PASSWORD.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if password == "" {
			password = os.Getenv("BACKOFFICE_PASSWORD")
		}
		if strings.TrimSpace(loginUsername) == "" || password == "" {
			return fmt.Errorf("--username and a password are required")
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			var err error
			switch loginProvider {
			case "", state.SourceBackend:
				err = a.Session.Login(ctx, models.Credentials{Username: loginUsername, Password: password})
			case state.SourceIdentity:
				err = a.Session.LoginWithIdentity(ctx, loginUsername, password)
			default:
				return fmt.Errorf("unknown provider %q", loginProvider)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", loginUsername)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Session.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in agent",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			st := a.Session.State().State()
			if !st.Authenticated {
				return fmt.Errorf("not signed in")
			}
			agent, err := a.API.Auth.Me(ctx)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), agent)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d, role %s, via %s)\n",
				agent.Username, agent.ID, agent.Role, st.Source)
			return nil
		})
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account name")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (or BACKOFFICE_PASSWORD)")
	loginCmd.Flags().StringVar(&loginProvider, "provider", state.SourceBackend, "backend or identity")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}
