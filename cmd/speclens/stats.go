package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/HendryAvila/speclens/internal/usage"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)

func newStatsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the usage log per tool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.env.Usage.Records(cmd.Context())
			if err != nil {
				return fmt.Errorf("reading usage log: %w", err)
			}
			stats := usage.Summarize(records)
			if asJSON {
				data, err := json.MarshalIndent(stats, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			return writeStats(cmd.OutOrStdout(), stats, lastCall(records), time.Now())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the statistics as JSON")
	return cmd
}

// lastCall returns the newest record timestamp, or the zero time.
func lastCall(records []usage.Record) time.Time {
	var last time.Time
	for _, r := range records {
		if r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}
	return last
}

// writeStats prints a human-readable report: totals, then one row per
// tool in the order Summarize chose.
func writeStats(w io.Writer, s usage.Stats, last, now time.Time) error {
	if s.TotalCalls == 0 {
		_, err := fmt.Fprintln(w, "No tool calls recorded yet.")
		return err
	}

	fmt.Fprintln(w, titleStyle.Render("Usage statistics"))
	fmt.Fprintf(w, "Calls:          %s\n", humanize.Comma(int64(s.TotalCalls)))
	fmt.Fprintf(w, "Tokens:         %s\n", humanize.Comma(int64(s.TotalTokens)))
	fmt.Fprintf(w, "Avg tokens:     %s\n", humanize.Comma(int64(s.AverageTokens)))
	fmt.Fprintf(w, "Avg duration:   %.1fms\n", s.AverageDuration)
	if !last.IsZero() {
		fmt.Fprintf(w, "Last call:      %s\n", humanize.RelTime(last, now, "ago", "from now"))
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TOOL\tCALLS\tERRORS\tTOKENS\tAVG TOKENS\tAVG MS\t")
	for _, t := range s.ByTool {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			t.Tool,
			humanize.Comma(int64(t.Calls)),
			humanize.Comma(int64(t.Errors)),
			humanize.Comma(int64(t.Tokens)),
			humanize.Comma(int64(t.AverageTokens)),
			fmt.Sprintf("%.1f", t.AverageDurationMs),
		)
	}
	return tw.Flush()
}
