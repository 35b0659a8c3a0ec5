// Package cli implements the eventhub command line: the API server and a
// client that keeps its session in a local file.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gdsc/eventhub/pkg/client"
	"github.com/gdsc/eventhub/pkg/session"
)

// EnvServer is the default API base URL for client commands.
const EnvServer = "EVENTHUB_URL"

const defaultServer = "http://localhost:5000"

// globals are the persistent flags shared by every client command.
type globals struct {
	server      string
	sessionPath string
	output      string
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		printError(root.ErrOrStderr(), err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:           "eventhub",
		Short:         "Event management server and client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return validateOutputFormat(g.output)
		},
	}

	server := os.Getenv(EnvServer)
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVar(&g.server, "server", server, "API base URL (env "+EnvServer+")")
	root.PersistentFlags().StringVar(&g.sessionPath, "session", "", "session file (default $"+session.EnvPath+" or ~/.eventhub/session)")
	root.PersistentFlags().StringVarP(&g.output, "output", "o", "table", "output format (table, json)")

	root.AddCommand(
		newServeCmd(),
		newSignupCmd(g),
		newLoginCmd(g),
		newLogoutCmd(g),
		newWhoamiCmd(g),
		newEventsCmd(g),
	)
	return root
}

// client builds an API client over the hydrated file session.
func (g *globals) client() (*client.Client, error) {
	path := g.sessionPath
	if path == "" {
		p, err := session.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	sess := session.New(session.NewFileStore(path))
	if err := sess.Hydrate(); err != nil {
		return nil, err
	}
	return client.New(g.server, sess), nil
}

// printError shows auth and conflict errors as they are and other API errors
// behind a generic prefix.
func printError(w io.Writer, err error) {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	if apiErr.Inline() {
		fmt.Fprintf(w, "Error: %s\n", apiErr.Message)
		return
	}
	fmt.Fprintf(w, "Error: request failed: %s\n", apiErr.Message)
}
