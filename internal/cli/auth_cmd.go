package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSignupCmd(g *globals) *cobra.Command {
	var password, role string

	cmd := &cobra.Command{
		Use:   "signup <username>",
		Short: "Create an account",
		Example: `  eventhub signup alice
  eventhub signup root --role admin --password s3cret`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			u, err := c.Signup(cmd.Context(), args[0], pw, role)
			if err != nil {
				return err
			}
			if g.output == "json" {
				return printJSON(cmd.OutOrStdout(), u)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User registered successfully: %s (%s, id %s)\n", u.Username, u.Role, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&role, "role", "", "account role: user or admin (default user)")
	return cmd
}

func newLoginCmd(g *globals) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and store the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			if err := c.Login(cmd.Context(), args[0], pw); err != nil {
				return err
			}
			sess := c.Session()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s) until %s\n",
				args[0], sess.Role(), sess.ExpiresAt().Local().Format(time.RFC1123))
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session token and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			if err := c.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully")
			return nil
		},
	}
}

func newWhoamiCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			if !c.Session().IsAuthenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			me, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}
			if g.output == "json" {
				return printJSON(cmd.OutOrStdout(), me)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s), token expires %s\n",
				me.ID, me.Role, me.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}
}
