// Package util provides text helpers shared by the TUI and the CLI.
package util

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks a truncated string.
const Ellipsis = "…"

// Truncate cuts s to at most width terminal cells, ending it with an
// ellipsis when anything was removed. ANSI escape codes and wide characters
// are measured by their visible width.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, Ellipsis)
}

// TruncateLeft is Truncate keeping the end of s, for paths where the last
// elements matter most.
func TruncateLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w <= width {
		return s
	}
	return ansi.TruncateLeft(s, w-width+1, Ellipsis)
}
