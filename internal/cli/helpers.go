package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/notchtrack/notchtrack/internal/logbook"
)

func resolveDate(dateFlag string) (time.Time, error) {
	if dateFlag == "" {
		now := time.Now().In(time.Local)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}

	parsed, err := time.ParseInLocation("2006-01-02", dateFlag, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date: %w", err)
	}
	return parsed, nil
}

func formatEntry(entry logbook.Entry, now time.Time) string {
	builder := strings.Builder{}
	builder.Grow(32 + len(entry.Description))

	builder.WriteString(entry.StartTime.In(time.Local).Format("15:04"))
	builder.WriteString("-")
	if entry.EndTime != nil {
		builder.WriteString(entry.EndTime.In(time.Local).Format("15:04"))
	} else {
		builder.WriteString("now")
	}
	builder.WriteString(" (")
	builder.WriteString(formatDuration(entry.Duration(now)))
	builder.WriteString(")")

	if entry.Description != "" {
		builder.WriteString(" ")
		builder.WriteString(entry.Description)
	}

	return builder.String()
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%dh%02dm", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

func printMissingDay(cmd *cobra.Command, date time.Time) {
	fmt.Fprintf(cmd.OutOrStdout(), "No entries for %s\n", date.Format("2006-01-02"))
}

func printDay(cmd *cobra.Command, date time.Time, entries []logbook.Entry) {
	out := cmd.OutOrStdout()
	now := time.Now()

	fmt.Fprintf(out, "%s\n", date.Format("2006-01-02"))
	var total time.Duration
	for i, entry := range entries {
		total += entry.Duration(now)
		fmt.Fprintf(out, "%d. %s\n", i+1, formatEntry(entry, now))
	}
	fmt.Fprintf(out, "Total: %s\n", formatDuration(total))
}
