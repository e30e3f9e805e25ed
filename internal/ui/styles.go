package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): primary text
// - Accent (soft green #A3BE8C, configurable): permalinks, titles, highlights
// - Muted (gray): secondary info, hints
// - No colored success/error/warning - unicode symbols only

const defaultAccent = "#A3BE8C"

var (
	// Accent style for permalinks, note titles, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)
)

// accentColor is the configured accent, empty when theming is disabled.
var accentColor = defaultAccent

// codeTheme is the Chroma theme used for rendered code blocks.
var codeTheme string

// ConfigureTheme applies a user-configured accent color. "none", "off",
// "default", and unparsable values disable the accent.
func ConfigureTheme(accent string) {
	color, ok := normalizeAccentColor(accent)
	if !ok {
		if strings.TrimSpace(accent) == "" {
			return // keep the default palette
		}
		accentColor = ""
		Accent = lipgloss.NewStyle()
		AccentBold = lipgloss.NewStyle().Bold(true)
		return
	}
	accentColor = color
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// ConfigureCodeTheme sets the Chroma theme for rendered code blocks.
func ConfigureCodeTheme(theme string) {
	codeTheme = strings.TrimSpace(theme)
}

// AccentColor returns the active accent color, if any.
func AccentColor() (string, bool) {
	if accentColor == "" {
		return "", false
	}
	return accentColor, true
}

// normalizeAccentColor validates an accent setting: ANSI codes "0"-"255"
// or hex colors "#RGB" / "#RRGGBB" (the short form expands).
func normalizeAccentColor(input string) (string, bool) {
	s := strings.TrimSpace(input)
	switch strings.ToLower(s) {
	case "", "none", "off", "default":
		return "", false
	}

	if strings.HasPrefix(s, "#") {
		hex := strings.ToLower(s[1:])
		for _, c := range hex {
			if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
				return "", false
			}
		}
		switch len(hex) {
		case 3:
			var b strings.Builder
			b.WriteByte('#')
			for i := 0; i < 3; i++ {
				b.WriteByte(hex[i])
				b.WriteByte(hex[i])
			}
			return b.String(), true
		case 6:
			return "#" + hex, true
		default:
			return "", false
		}
	}

	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 255 {
		return strconv.Itoa(n), true
	}
	return "", false
}
