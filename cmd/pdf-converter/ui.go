package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// UI provides user-friendly output utilities.
type UI struct {
	out     io.Writer
	err     io.Writer
	noColor bool
}

// NewUI creates a new UI instance. Color is disabled when requested or
// when stdout is not a terminal.
func NewUI(out, errOut io.Writer, noColor bool) *UI {
	return &UI{
		out:     out,
		err:     errOut,
		noColor: noColor || !IsTerminal(out),
	}
}

// Success prints a success message.
func (ui *UI) Success(format string, args ...interface{}) {
	ui.print(ui.out, color.FgGreen, "✓", format, args...)
}

// Warning prints a warning message.
func (ui *UI) Warning(format string, args ...interface{}) {
	ui.print(ui.err, color.FgYellow, "⚠", format, args...)
}

// Error prints an error message.
func (ui *UI) Error(format string, args ...interface{}) {
	ui.print(ui.err, color.FgRed, "✗", format, args...)
}

// Info prints an info message.
func (ui *UI) Info(format string, args ...interface{}) {
	ui.print(ui.out, color.FgCyan, "ℹ", format, args...)
}

func (ui *UI) print(w io.Writer, attr color.Attribute, symbol, format string, args ...interface{}) {
	line := fmt.Sprintf("%s %s\n", symbol, fmt.Sprintf(format, args...))
	if ui.noColor {
		fmt.Fprint(w, line)
		return
	}
	c := color.New(attr)
	c.EnableColor()
	c.Fprint(w, line)
}

// PageProgress renders page-by-page conversion progress.
type PageProgress struct {
	bar *progressbar.ProgressBar
}

// NewPageProgress creates a progress bar writing to w. The total is set on
// the first update because the page count is only known once the document
// is open.
func (ui *UI) NewPageProgress(description string) *PageProgress {
	bar := progressbar.NewOptions(
		-1,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(ui.err),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionEnableColorCodes(!ui.noColor),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(ui.err, "\n")
		}),
	)
	return &PageProgress{bar: bar}
}

// Update records that done of total pages have been processed.
func (p *PageProgress) Update(done, total int) {
	if p.bar.GetMax() != total {
		p.bar.ChangeMax(total)
	}
	_ = p.bar.Set(done)
}

// Finish completes the progress bar.
func (p *PageProgress) Finish() {
	_ = p.bar.Finish()
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
