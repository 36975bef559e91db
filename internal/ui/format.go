package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/wasabi/internal/task"
)

// PrintOpts configures task printing behavior.
type PrintOpts struct {
	Verbose      bool // Show full topics
	ShowDuration bool // Show duration column
	ShowVersion  bool // Show version token column
	MaxDescWidth int  // Maximum topic width (0 = auto)
}

// CalcMaxDescWidth calculates the maximum topic width based on options.
func (o PrintOpts) CalcMaxDescWidth(defaultWidth int) int {
	if o.MaxDescWidth > 0 {
		return o.MaxDescWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	tw := termWidth()
	// Base: "  #12345  HH:MM-HH:MM  " = ~24 chars
	// Duration suffix: "  Xh" = ~6 chars
	// Tag: "[tag]" = up to 32 chars
	overhead := 24 + 32
	if o.ShowDuration {
		overhead += 6
	}
	available := tw - overhead
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintTaskRow prints a single task row with consistent formatting.
func PrintTaskRow(w io.Writer, t *task.Task, opts PrintOpts, maxDescWidth int) {
	topic := truncate(t.Topic, maxDescWidth)

	var b strings.Builder
	fmt.Fprintf(&b, "  #%-5d %s-%s  %s", t.ID, t.Start, t.End, topic)
	if t.Tag != "" {
		b.WriteString(" " + formatTag("["+t.Tag+"]"))
	}
	if opts.ShowDuration {
		b.WriteString("  " + formatMuted(FormatDuration(t.Duration())))
	}
	if opts.ShowVersion {
		b.WriteString("  " + formatMuted("v"+t.Version.String()))
	}
	fmt.Fprintln(w, b.String())
}

// PrintTaskDetail prints every field of a task.
func PrintTaskDetail(w io.Writer, t *task.Task) {
	fmt.Fprintf(w, "%s\n", formatHeader(fmt.Sprintf("Task #%d: %s", t.ID, t.Topic)))
	fmt.Fprintf(w, "  calendar    #%d\n", t.CalendarID)
	fmt.Fprintf(w, "  date        %s\n", t.Date.Format("Monday, January 2, 2006"))
	fmt.Fprintf(w, "  time        %s-%s (%s)\n", t.Start, t.End, FormatDuration(t.Duration()))
	printOptional(w, "tag", t.Tag)
	printOptional(w, "location", t.Location)
	printOptional(w, "link", t.Link)
	printOptional(w, "notes", t.Notes)
	fmt.Fprintf(w, "  created     %s by %s\n", t.CreatedAt.Format("2006-01-02 15:04"), orDash(t.CreatedBy))
	fmt.Fprintf(w, "  updated     %s by %s\n", t.Version.Time().Format("2006-01-02 15:04:05"), orDash(t.UpdatedBy))
	fmt.Fprintf(w, "  version     %s\n", t.Version)
}

func printOptional(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %-11s %s\n", label, value)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}
