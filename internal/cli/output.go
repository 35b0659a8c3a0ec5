package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gdsc/eventhub/pkg/client"
)

func validateOutputFormat(output string) error {
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printEvents(w io.Writer, format string, events []client.Event) error {
	if format == "json" {
		if events == nil {
			events = []client.Event{}
		}
		return printJSON(w, events)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDATE\tTIME\tLOCATION\tREGISTERED")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", e.ID, e.Title, e.Date, e.Time, e.Location, len(e.RegisteredUsers))
	}
	return tw.Flush()
}

func printEvent(w io.Writer, format string, e *client.Event) error {
	if format == "json" {
		return printJSON(w, e)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"ID", e.ID},
		{"Title", e.Title},
		{"Date", e.Date},
		{"Time", e.Time},
		{"Location", e.Location},
		{"Summary", e.ShortDescription},
		{"Description", e.Description},
		{"Image", e.Image},
		{"Registered", strings.Join(e.RegisteredUsers, ", ")},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}
