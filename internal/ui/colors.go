package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/rosterx/internal/projection"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// avatarColors maps avatar palette classes to terminal colors.
var avatarColors = map[string]lipgloss.Color{
	"bg-blue-500":   "#3B82F6",
	"bg-green-500":  "#22C55E",
	"bg-yellow-500": "#EAB308",
	"bg-red-500":    "#EF4444",
	"bg-purple-500": "#A855F7",
	"bg-pink-500":   "#EC4899",
	"bg-indigo-500": "#6366F1",
	"bg-teal-500":   "#14B8A6",
}

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	label lipgloss.Style
}

var _ Painter = (*Palette)(nil)

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		label: NewStyle(h).Width(12),
	}
}

func (p *Palette) On(s string, bg lipgloss.Color) string {
	return lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Padding(0, 1).Render(s)
}

func (p *Palette) As(s string, fg lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(fg).Render(s)
}

// AvatarColor resolves a palette class to its terminal color, defaulting to the first entry.
func AvatarColor(class string) lipgloss.Color {
	if c, ok := avatarColors[class]; ok {
		return c
	}
	return avatarColors[projection.Palette[0]]
}

// Avatar renders initials on the record's palette color.
func Avatar(rec projection.DisplayRecord) string {
	initials := rec.Initials
	if initials == "" {
		initials = "?"
	}
	return styles.On(initials, AvatarColor(rec.ColorClass))
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
