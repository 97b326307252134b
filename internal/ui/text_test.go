package ui

import (
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatterWithColor(t *testing.T) {
	// fatih/color disables itself when stdout is not a terminal; force it
	// on so Sprint emits escape codes under go test.
	color.NoColor = false
	m := Mode{Color: true}

	// Code formatter should not have backticks when color is enabled.
	result := Code.Sprint(m, "sealer -g -o key.enc")
	if strings.Contains(result, "`") {
		t.Errorf("Code.Sprint should not contain backticks when color is enabled, got: %s", result)
	}

	// Verify it contains ANSI escape codes (color output).
	if !strings.Contains(result, "\x1b[") {
		t.Errorf("Code.Sprint should contain ANSI escape codes when color is enabled, got: %s", result)
	}
}

func TestFormatterWithoutColor(t *testing.T) {
	m := Mode{Color: false}

	tests := []struct {
		name      string
		formatter Formatter
		input     string
		want      string
	}{
		{"Code adds backticks", Code, "sealer -E", "`sealer -E`"},
		{"Path has no decoration", Path, "secrets.enc", "secrets.enc"},
		{"Flag has no decoration", Flag, "--keyfile", "--keyfile"},
		{"Success has no decoration", Success, "✓", "✓"},
		{"Error has no decoration", Error, "✗", "✗"},
		{"Info has no decoration", Info, "→", "→"},
		{"Highlight adds quotes", Highlight, "work-laptop", "'work-laptop'"},
		{"Muted adds parentheses", Muted, "cached", "(cached)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.formatter.Sprint(m, tt.input)
			if got != tt.want {
				t.Errorf("%s.Sprint(%q) = %q, want %q", tt.name, tt.input, got, tt.want)
			}
		})
	}
}

func TestDetectModeHonorsNoColor(t *testing.T) {
	os.Unsetenv("NO_COLOR")
	if m := DetectMode(true); m.Color {
		t.Error("DetectMode(true) should disable color")
	}

	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")
	if m := DetectMode(false); m.Color {
		t.Error("DetectMode should honor NO_COLOR environment variable")
	}
}
