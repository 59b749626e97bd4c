// Package progress defines the sink the downloader pushes progress events
// into. The core never depends on a concrete rendering library; the terminal
// bar below is one implementation of the interface.
package progress

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// Sink receives aggregate download progress. Advance is monotonic; Discount
// rolls back bytes that were counted for a download later found corrupt.
type Sink interface {
	Advance(n int64)
	Discount(n int64)
	SetStatus(status string)
}

// Nop is a Sink that drops every event. Used in tests and download-only
// scripting contexts.
type Nop struct{}

// Advance implements Sink.
func (Nop) Advance(int64) {}

// Discount implements Sink.
func (Nop) Discount(int64) {}

// SetStatus implements Sink.
func (Nop) SetStatus(string) {}

// Bar renders progress to the terminal.
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar returns a Bar expecting total bytes overall.
func NewBar(total int64, description string) *Bar {
	return &Bar{
		bar: progressbar.NewOptions64(total,
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		),
	}
}

// Advance implements Sink.
func (b *Bar) Advance(n int64) {
	_ = b.bar.Add64(n)
}

// Discount implements Sink.
func (b *Bar) Discount(n int64) {
	_ = b.bar.Add64(-n)
}

// SetStatus implements Sink.
func (b *Bar) SetStatus(status string) {
	b.bar.Describe(status)
}

// Finish completes the bar and clears the line.
func (b *Bar) Finish() {
	_ = b.bar.Finish()
}
