// Package ui provides the visual styling for the docchat panel.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light Mode Colors (Default)
	LightForeground = lipgloss.Color("#1b1f24")
	LightMuted      = lipgloss.Color("#8a919c")
	LightBorder     = lipgloss.Color("#d0d4da")
	LightAnswerBg   = lipgloss.Color("#e5e6ea")
	LightAnswerFg   = lipgloss.Color("#000000")

	// Dark Mode Colors
	DarkForeground = lipgloss.Color("#f2f2f2")
	DarkMuted      = lipgloss.Color("#6b7585")
	DarkBorder     = lipgloss.Color("#2a3850")
	DarkAnswerBg   = lipgloss.Color("#2a3040")
	DarkAnswerFg   = lipgloss.Color("#f2f2f2")

	// Same in both modes
	QuestionBg = lipgloss.Color("#0099FF")
	QuestionFg = lipgloss.Color("#ffffff")
	Success    = lipgloss.Color("#2e9e44")
)

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	AnswerBg   lipgloss.Color
	AnswerFg   lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Muted:      LightMuted,
		Border:     LightBorder,
		AnswerBg:   LightAnswerBg,
		AnswerFg:   LightAnswerFg,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		AnswerBg:   DarkAnswerBg,
		AnswerFg:   DarkAnswerFg,
		IsDark:     true,
	}
}

// ThemeByName maps a config value to a theme. Unknown names fall back to
// terminal detection.
func ThemeByName(name string) Theme {
	switch name {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		return DetectTheme()
	}
}

// DetectTheme auto-detects based on terminal or returns light mode
func DetectTheme() Theme {
	// COLORFGBG is "foreground;background"; low background indexes are dark.
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
			if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
				return DarkTheme()
			}
		}
	}

	if os.Getenv("DOCCHAT_DARK_MODE") == "1" {
		return DarkTheme()
	}

	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	Title  lipgloss.Style
	Footer lipgloss.Style
	Muted  lipgloss.Style

	Question lipgloss.Style
	Answer   lipgloss.Style

	Input    lipgloss.Style
	FileName lipgloss.Style
	Success  lipgloss.Style
	Spinner  lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	bubble := lipgloss.NewStyle().
		Padding(0, 1).
		MarginBottom(1)

	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true).
			Align(lipgloss.Center),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Question: bubble.
			Background(QuestionBg).
			Foreground(QuestionFg),

		// Answers are markdown rendered by glamour, so they get a rule instead
		// of a background.
		Answer: lipgloss.NewStyle().
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.AnswerBg).
			Foreground(theme.AnswerFg).
			MarginBottom(1),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		FileName: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Italic(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Spinner: lipgloss.NewStyle().
			Foreground(QuestionBg),
	}
}

// GlamourStyle names the glamour standard style matching the theme.
func (t Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}
