package format

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const ellipsis = "..."

// truncate shortens s to width terminal cells, marking the cut with "...".
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	if width < len(ellipsis) {
		return ansi.Truncate(s, width, "")
	}
	return ansi.Truncate(s, width, ellipsis)
}

// pad truncates s and fills it up to width cells. Alignment is "left" or "right".
func pad(s string, width int, alignment string) string {
	s = truncate(s, width)
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if alignment == "right" {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// oneLine folds line breaks and tabs so a value fits in a table cell.
func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(s)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
