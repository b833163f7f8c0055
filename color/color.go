// Package color names the ANSI colors of CLI output. They follow the
// terminal theme, unlike the fixed tui palette in style.
package color

import "github.com/charmbracelet/lipgloss"

// New wraps an ANSI code or hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")

	HiRed    = New("9")
	HiPurple = New("13")
)

// Title colors for section headers.
var (
	TitleFg = New("230")
	TitleBg = New("62")
)

// Accent marks the primary action in help lines.
var Accent = New("#f4a259")
