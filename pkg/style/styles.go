package style

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)
)

// Guard state styles
var (
	GuardedStyle = lipgloss.NewStyle().
			Foreground(GuardedColor).
			Bold(true)

	UnguardedStyle = lipgloss.NewStyle().
			Foreground(UnguardedColor).
			Bold(true)

	LinkStyle = lipgloss.NewStyle().
			Foreground(LinkColor)
)

// Operation indicator styles
var (
	SuccessIndicator = SuccessStyle.Render("✓")
	ErrorIndicator   = ErrorStyle.Render("✗")
	WarningIndicator = WarningStyle.Render("!")
	InfoIndicator    = InfoStyle.Render("•")
)

// Success formats a one-line success message
func Success(format string, args ...interface{}) string {
	return SuccessIndicator + " " + fmt.Sprintf(format, args...)
}

// Warning formats a one-line warning
func Warning(msg string) string {
	return WarningIndicator + " " + WarningStyle.Render(msg)
}

// Failure formats the diagnostic printed when a command fails
func Failure(action string, err error) string {
	return ErrorIndicator + " " + ErrorStyle.Render(action+" failed:") + " " + err.Error()
}

// Path renders a filesystem path
func Path(p string) string {
	return PathStyle.Render(p)
}

// GuardState renders a project's guard state
func GuardState(sentinel string) string {
	if sentinel == "" {
		return UnguardedStyle.Render("unguarded")
	}
	return GuardedStyle.Render("guarded") + " " + MutedStyle.Render("("+sentinel+")")
}

func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}
