package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/targetplatform/internal/relay"
)

func (c *cli) eventsCmd() *cobra.Command {
	var (
		filter relay.Filter
		kind   string
		since  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recorded device events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if kind != "" {
				filter.Kind = relay.Kind(kind)
				if !filter.Kind.Valid() {
					return fmt.Errorf("unknown event kind %q", kind)
				}
			}
			if since != "" {
				t, err := time.Parse(time.RFC3339, since)
				if err != nil {
					return fmt.Errorf("parsing --since: %w", err)
				}
				filter.Since = t
			}

			cfg, log, err := loadConfig(c.configPath(), true)
			if err != nil {
				return err
			}
			db, err := openDatabase(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // read-only command

			records, err := relay.NewRecorder(db.DB).List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if asJSON {
				return printEventsJSON(cmd.OutOrStdout(), records)
			}
			return printEvents(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().StringVar(&filter.Variant, "variant", "", "only events of this variant")
	cmd.Flags().StringVar(&filter.Device, "device", "", "only events of this device name")
	cmd.Flags().StringVar(&kind, "kind", "", "discovered or lost")
	cmd.Flags().StringVar(&since, "since", "", "only events at or after this RFC3339 time")
	cmd.Flags().IntVar(&filter.Limit, "limit", 50, "maximum events (at most 500)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per line")
	return cmd
}

func printEvents(w io.Writer, records []relay.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tVARIANT\tDEVICE\tKIND\tLOCAL")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%t\n",
			r.ID, r.At.Format(time.RFC3339), r.Variant, r.Device, r.Kind, r.Local)
	}
	return tw.Flush()
}

func printEventsJSON(w io.Writer, records []relay.Record) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding event %d: %w", r.ID, err)
		}
	}
	return nil
}
