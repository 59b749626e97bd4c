// Package summary renders the pending transaction for the confirmation
// prompt: one section per bucket plus the aggregate size figures.
package summary

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/pakt-dev/pakt/pkg/classify"
	"github.com/pakt-dev/pakt/pkg/history"
	"github.com/pakt-dev/pakt/pkg/model"
)

var (
	headerGreen  = color.New(color.FgGreen, color.Bold)
	headerRed    = color.New(color.FgRed, color.Bold)
	headerYellow = color.New(color.FgYellow, color.Bold)
	headerBlue   = color.New(color.FgBlue, color.Bold)
	muted        = color.New(color.FgHiBlack)
)

// DisableColor turns off all color output, for --no-color and non-TTYs.
func DisableColor() {
	color.NoColor = true
}

// Render writes the full transaction summary.
func Render(w io.Writer, s *classify.Summary) {
	section(w, headerGreen, "Installing", s.Installed)
	section(w, headerGreen, "Reinstalling", s.Reinstalled)
	section(w, headerBlue, "Upgrading", s.Upgraded)
	section(w, headerYellow, "Downgrading", s.Downgraded)
	section(w, headerRed, "Removing", s.Removed)
	section(w, headerRed, "Auto-Removing", s.AutoRemoved)

	fmt.Fprintf(w, "Summary: %d package(s) altered\n", s.Altered())
	if s.DownloadSize > 0 {
		fmt.Fprintf(w, "Total download size: %s\n", FormatSize(s.DownloadSize))
	}
	switch {
	case s.SpaceChange > 0:
		fmt.Fprintf(w, "Disk space required: %s\n", FormatSize(s.SpaceChange))
	case s.SpaceChange < 0:
		fmt.Fprintf(w, "Disk space to free: %s\n", FormatSize(-s.SpaceChange))
	}
}

func section(w io.Writer, header *color.Color, title string, changes []model.PackageChange) {
	if len(changes) == 0 {
		return
	}
	header.Fprintf(w, "%s:\n", title)
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, change := range changes {
		version := change.Version
		if change.OldVersion != "" {
			version = change.OldVersion + " -> " + change.Version
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", change.Name, version, FormatSize(change.Size))
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}

// RenderHistory writes the ledger overview: id, command, date, altered,
// requesting user.
func RenderHistory(w io.Writer, entries []*history.Entry) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCommand\tDate and Time\tAltered\tRequested-By")
	for _, entry := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			entry.ID, commandLine(entry), entry.Date, entry.Altered, entry.RequestedBy)
	}
	_ = tw.Flush()
}

// RenderEntry writes the detail view of one recorded transaction.
func RenderEntry(w io.Writer, entry *history.Entry) {
	fmt.Fprintf(w, "Transaction %d\n", entry.ID)
	muted.Fprintf(w, "  Date: %s\n", entry.Date)
	muted.Fprintf(w, "  Requested-By: %s\n", entry.RequestedBy)
	muted.Fprintf(w, "  Command: %s\n", commandLine(entry))
	if entry.Purged {
		headerYellow.Fprintln(w, "  Purge: enabled")
	}
	fmt.Fprintln(w)

	Render(w, &classify.Summary{
		Installed:   entry.Installed,
		Reinstalled: entry.Reinstalled,
		Upgraded:    entry.Upgraded,
		Downgraded:  entry.Downgraded,
		Removed:     entry.Removed,
		AutoRemoved: entry.AutoRemoved,
	})
}

func commandLine(entry *history.Entry) string {
	return strings.Join(entry.Command, " ")
}

// FormatSize renders a byte count in human units.
func FormatSize(bytes int64) string {
	const unit = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "kMG"[exp])
}
