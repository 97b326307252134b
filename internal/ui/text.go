package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Mode selects how text is rendered. It is decided once at startup from
// --no-color, the NO_COLOR environment variable, and terminal detection,
// then passed explicitly to everything that builds display text. There is
// no process-global color switch and no re-parse to change it.
type Mode struct {
	Color bool
}

// DetectMode returns the rendering mode for this invocation. noColorFlag is
// the value of --no-color; NO_COLOR (https://no-color.org/) and fatih/color's
// own terminal detection are also honored.
func DetectMode(noColorFlag bool) Mode {
	if noColorFlag {
		return Mode{Color: false}
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return Mode{Color: false}
	}
	return Mode{Color: !color.NoColor}
}

// Formatter applies semantic formatting to text. With color enabled it
// renders through its color; without, it falls back to plain-text
// decoration (backticks for code, quotes for highlighted values).
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments for the given mode and returns the result.
func (f Formatter) Sprint(m Mode, a ...interface{}) string {
	text := fmt.Sprint(a...)
	if !m.Color {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// Sprintf formats according to a format specifier for the given mode.
func (f Formatter) Sprintf(m Mode, format string, a ...interface{}) string {
	text := fmt.Sprintf(format, a...)
	if !m.Color {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// Semantic formatters for different types of CLI output.
var (
	// Code formats runnable commands or code snippets.
	// Yellow with color, `backticks` without.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path formats file or directory paths.
	// Yellow with color, no decoration without (paths are self-evident).
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Flag formats CLI flags like --keyfile or --quiet.
	// Yellow with color, no decoration without (-- prefix is sufficient).
	Flag = Formatter{color.New(color.FgYellow), "", ""}

	// Success formats success indicators and messages.
	// Green with color, unchanged without.
	Success = Formatter{color.New(color.FgGreen), "", ""}

	// Error formats error indicators and messages.
	// Red with color, unchanged without.
	Error = Formatter{color.New(color.FgRed), "", ""}

	// Info formats informational hints, tips, and directional indicators.
	// Cyan with color, unchanged without.
	Info = Formatter{color.New(color.FgCyan), "", ""}

	// Highlight formats emphasized user values like key names and labels.
	// Cyan with color, 'single quotes' without.
	Highlight = Formatter{color.New(color.FgCyan), "'", "'"}

	// Muted formats de-emphasized or secondary text.
	// Gray with color, (parentheses) without.
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}
)
