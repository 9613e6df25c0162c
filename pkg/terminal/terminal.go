// Package terminal is for terminal outputting
package terminal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
)

type Terminal struct {
	out     io.Writer
	verbose io.Writer
	err     io.Writer

	Green  func(format string, a ...interface{}) string
	Yellow func(format string, a ...interface{}) string
	Red    func(format string, a ...interface{}) string
	Blue   func(format string, a ...interface{}) string
	Bold   func(format string, a ...interface{}) string
}

func New() (t *Terminal) {
	return &Terminal{
		out:     os.Stdout,
		verbose: os.Stdout,
		err:     os.Stderr,
		Green:   color.New(color.FgGreen).SprintfFunc(),
		Yellow:  color.New(color.FgYellow).SprintfFunc(),
		Red:     color.New(color.FgRed).SprintfFunc(),
		Blue:    color.New(color.FgBlue).SprintfFunc(),
		Bold:    color.New(color.Bold).SprintfFunc(),
	}
}

// NewTestTerminal writes to buffers and does not colorize.
func NewTestTerminal() (t *Terminal, out *bytes.Buffer, verbose *bytes.Buffer, err *bytes.Buffer) {
	out = &bytes.Buffer{}
	verbose = &bytes.Buffer{}
	err = &bytes.Buffer{}
	return &Terminal{
		out:     out,
		verbose: verbose,
		err:     err,
		Green:   fmt.Sprintf,
		Yellow:  fmt.Sprintf,
		Red:     fmt.Sprintf,
		Blue:    fmt.Sprintf,
		Bold:    fmt.Sprintf,
	}, out, verbose, err
}

// Print writes machine-readable output to stdout.
func (t *Terminal) Print(a string) {
	fmt.Fprintln(t.out, a)
}

func (t *Terminal) Vprint(a string) {
	fmt.Fprintln(t.verbose, a)
}

func (t *Terminal) Vprintf(format string, a ...interface{}) {
	fmt.Fprintf(t.verbose, format, a...)
}

func (t *Terminal) Eprint(a string) {
	fmt.Fprintln(t.err, a)
}

func (t *Terminal) Errprint(err error, a string) {
	t.Eprint(t.Red("Error: %s", err.Error()))
	if a != "" {
		t.Eprint(t.Red("%s", a))
	}
	if directive := rperrors.Directive(err); directive != "" {
		t.Eprint(t.Yellow(directive))
	}
}

// Warn prints a non-fatal problem.
func (t *Terminal) Warn(format string, a ...interface{}) {
	t.Eprint(t.Yellow("Warning: "+format, a...))
}

// VerboseWriter is where tables and progress output go.
func (t *Terminal) VerboseWriter() io.Writer {
	return t.verbose
}

func (t *Terminal) NewSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(t.err))
	s.Suffix = " " + suffix
	return s
}

// Countdown renders a bounded wait as a bar that fills as time runs out.
type Countdown struct {
	bar         *progressbar.ProgressBar
	description string
	total       time.Duration
}

func (t *Terminal) NewCountdown(description string, total time.Duration) *Countdown {
	bar := progressbar.NewOptions(int(total.Seconds()),
		progressbar.OptionSetWriter(t.verbose),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return &Countdown{bar: bar, description: description, total: total}
}

func (c *Countdown) Update(elapsed time.Duration) {
	if elapsed > c.total {
		elapsed = c.total
	}
	remaining := c.total - elapsed
	c.bar.Describe(fmt.Sprintf("%s %ds", c.description, int(remaining.Seconds())))
	_ = c.bar.Set(int(elapsed.Seconds()))
}

func (c *Countdown) Finish() {
	_ = c.bar.Finish()
}
