package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gdsc/eventhub/pkg/client"
)

func newEventsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event"},
		Short:   "Browse and manage events",
	}

	cmd.AddCommand(
		newEventsListCmd(g),
		newEventsGetCmd(g),
		newEventsCreateCmd(g),
		newEventsUpdateCmd(g),
		newEventsDeleteCmd(g),
		newEventsRegisterCmd(g),
		newEventsRegisteredCmd(g),
	)
	return cmd
}

func newEventsListCmd(g *globals) *cobra.Command {
	var opts client.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			page, err := c.ListEvents(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := printEvents(cmd.OutOrStdout(), g.output, page.Events); err != nil {
				return err
			}
			if g.output == "table" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d events\n", len(page.Events), page.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "case-insensitive title filter")
	cmd.Flags().IntVar(&opts.Page, "page", 0, "page number, starting at 1")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "page size (0 returns everything)")
	return cmd
}

func newEventsGetCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			ev, err := c.GetEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printEvent(cmd.OutOrStdout(), g.output, ev)
		},
	}
}

// eventFlags binds one flag per event field.
type eventFlags struct {
	in client.EventInput
}

func (f *eventFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.in.Title, "title", "", "event title")
	cmd.Flags().StringVar(&f.in.Date, "date", "", "event date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.in.Time, "time", "", "event time, e.g. 18:00")
	cmd.Flags().StringVar(&f.in.Location, "location", "", "event location")
	cmd.Flags().StringVar(&f.in.ShortDescription, "short-description", "", "one line summary")
	cmd.Flags().StringVar(&f.in.Description, "description", "", "full description")
	cmd.Flags().StringVar(&f.in.Image, "image", "", "image URL")
}

// patch returns only the fields whose flags were set.
func (f *eventFlags) patch(cmd *cobra.Command) client.EventPatch {
	var p client.EventPatch
	set := func(name string, dst **string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = &v
		}
	}
	set("title", &p.Title, f.in.Title)
	set("date", &p.Date, f.in.Date)
	set("time", &p.Time, f.in.Time)
	set("location", &p.Location, f.in.Location)
	set("short-description", &p.ShortDescription, f.in.ShortDescription)
	set("description", &p.Description, f.in.Description)
	set("image", &p.Image, f.in.Image)
	return p
}

func newEventsCreateCmd(g *globals) *cobra.Command {
	f := &eventFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event (login required)",
		Example: `  eventhub events create --title "Go Meetup" --date 2025-03-14 --time 18:00 \
    --location "Hall A" --short-description "Monthly meetup" \
    --description "Talks and pizza" --image https://example.com/go.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			ev, err := c.CreateEvent(cmd.Context(), f.in)
			if err != nil {
				return err
			}
			return printEvent(cmd.OutOrStdout(), g.output, ev)
		},
	}

	f.register(cmd)
	for _, name := range []string{"title", "date", "time", "location", "short-description", "description", "image"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newEventsUpdateCmd(g *globals) *cobra.Command {
	f := &eventFlags{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an event (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := f.patch(cmd)
			if p == (client.EventPatch{}) {
				return errors.New("nothing to update: set at least one field flag")
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			ev, err := c.UpdateEvent(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			return printEvent(cmd.OutOrStdout(), g.output, ev)
		},
	}

	f.register(cmd)
	return cmd
}

func newEventsDeleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			if err := c.DeleteEvent(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Event deleted successfully")
			return nil
		},
	}
}

func newEventsRegisterCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "register <id>",
		Short: "Register the logged in user for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			if err := c.RegisterForEvent(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registered successfully")
			return nil
		},
	}
}

func newEventsRegisteredCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "registered [user-id]",
		Short: "List events a user registered for (default: yourself)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			userID := c.Session().SubjectID()
			if len(args) == 1 {
				userID = args[0]
			}
			if userID == "" {
				return errors.New("not logged in")
			}
			events, err := c.RegisteredEvents(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return printEvents(cmd.OutOrStdout(), g.output, events)
		},
	}
}
