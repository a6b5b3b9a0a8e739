// Package output renders command results for terminals, pipes and machines.
//
// The same result can be shown as styled text (TTY), markdown (pipes and
// agents), JSON, or raw HTML for commands that produce markup.
package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Mode is an output format.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
	ModeHTML     Mode = "html"
)

// ParseMode returns the mode for s, or ModeAuto for unknown values.
func ParseMode(s string) Mode {
	switch m := Mode(s); m {
	case ModeText, ModeMarkdown, ModeJSON, ModeHTML:
		return m
	case "md":
		return ModeMarkdown
	default:
		return ModeAuto
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec
}
