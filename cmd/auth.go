package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/catalog/internal/api"
	"github.com/marcus/catalog/internal/output"
	"github.com/marcus/catalog/internal/session"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		creds, err := promptCredentials(username)
		if err != nil {
			return report(err)
		}
		return report(withClient(func(c *api.Client, _ *session.Store) error {
			u, err := c.Register(cmd.Context(), creds)
			if err != nil {
				return err
			}
			output.Success("Registered %s (%s). Run 'catalog login' next.", u.Username, u.Role)
			return nil
		}))
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		creds, err := promptCredentials(username)
		if err != nil {
			return report(err)
		}
		return report(withClient(func(c *api.Client, store *session.Store) error {
			tp, err := c.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			if err := store.SetTokens(tp.AccessToken, tp.RefreshToken); err != nil {
				return err
			}
			output.Success("Logged in as %s", creds.Username)
			return nil
		}))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSession()
		if err != nil {
			return report(err)
		}
		defer store.Close()
		if err := store.Clear(); err != nil {
			return report(err)
		}
		output.Success("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		return report(withClient(func(c *api.Client, store *session.Store) error {
			if err := requireSession(store); err != nil {
				return err
			}
			u, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				return output.JSON(u)
			}
			fmt.Printf("%s (%s)\n", u.Username, u.Role)
			return nil
		}))
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the refresh token for a new access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(withClient(func(c *api.Client, store *session.Store) error {
			rt, err := store.RefreshToken()
			if err != nil {
				return err
			}
			if rt == "" {
				return api.ErrNotAuthenticated
			}
			tp, err := c.Refresh(cmd.Context(), rt)
			if err != nil {
				return err
			}
			// servers that do not rotate refresh tokens omit it
			if tp.RefreshToken == "" {
				tp.RefreshToken = rt
			}
			if err := store.SetTokens(tp.AccessToken, tp.RefreshToken); err != nil {
				return err
			}
			output.Success("Session refreshed")
			return nil
		}))
	},
}

func init() {
	registerCmd.Flags().StringP("username", "u", "", "account name (prompted when omitted)")
	loginCmd.Flags().StringP("username", "u", "", "account name (prompted when omitted)")
	addJSONFlag(whoamiCmd.Flags())

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(refreshCmd)
}
