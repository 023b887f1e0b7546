// Package ui holds the pieces shared by every screen of the terminal UI.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/theme"
)

const (
	headerLines = 1
	statusLines = 1
)

// Frame splits the terminal into a header line, the body of the active
// view and a status line.
type Frame struct {
	width  int
	height int
}

// NewFrame sizes a frame to the terminal.
func NewFrame(width, height int) Frame {
	return Frame{width: width, height: height}
}

// Body returns the space left for the active view.
func (f Frame) Body() (width, height int) {
	return f.width, max(f.height-headerLines-statusLines, 0)
}

// BodyTop is the terminal row the body starts on. Views count rows from
// there, mouse events count from the top of the terminal.
func (f Frame) BodyTop() int {
	return headerLines
}

// Render stacks the header, body and status line. The summary is right
// aligned in the header.
func (f Frame) Render(title, summary, body, status string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		f.bar(theme.HeaderStyle, title, summary),
		body,
		f.bar(theme.StatusBarStyle, status, ""),
	)
}

// bar fills the full width with style's background.
func (f Frame) bar(style lipgloss.Style, left, right string) string {
	l := style.Render(left)
	var r string
	if right != "" {
		r = style.Render(right)
	}

	gap := max(f.width-lipgloss.Width(l)-lipgloss.Width(r), 0)
	fill := lipgloss.NewStyle().
		Background(style.GetBackground()).
		Width(gap).
		Render("")
	return lipgloss.JoinHorizontal(lipgloss.Top, l, fill, r)
}
