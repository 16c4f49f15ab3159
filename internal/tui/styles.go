package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Brand color for the WISHKEEP banner.
const brandViolet = "#9A6FF0"

// WISHKEEP ASCII art (filled block style).
var wishkeepArt = []string{
	"██╗    ██╗██╗███████╗██╗  ██╗██╗  ██╗███████╗███████╗██████╗ ",
	"██║    ██║██║██╔════╝██║  ██║██║ ██╔╝██╔════╝██╔════╝██╔══██╗",
	"██║ █╗ ██║██║███████╗███████║█████╔╝ █████╗  █████╗  ██████╔╝",
	"██║███╗██║██║╚════██║██╔══██║██╔═██╗ ██╔══╝  ██╔══╝  ██╔═══╝ ",
	"╚███╔███╔╝██║███████║██║  ██║██║  ██╗███████╗███████╗██║     ",
	" ╚══╝╚══╝ ╚═╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚══════╝╚═╝     ",
}

// Styles contains all lipgloss styles for the TUI.
type Styles struct {
	Banner    lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	System    lipgloss.Style
	Tips      lipgloss.Style
	Error     lipgloss.Style
	Tool      lipgloss.Style // Running tool indicator
	Prompt    lipgloss.Style
	Separator lipgloss.Style
	StatusBar lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Banner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(brandViolet)),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		System:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240")),
		Tips:      lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Tool:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
}

// RenderBanner returns the WISHKEEP ASCII art banner as a styled string.
func (s Styles) RenderBanner() string {
	var b strings.Builder
	for _, line := range wishkeepArt {
		_, _ = b.WriteString(s.Banner.Render(line))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}

// welcomeTips contains getting started tips displayed under the banner.
var welcomeTips = []string{
	"Tips for getting started:",
	"  • Talk naturally: \"add Dune to my books\", \"what's on my restaurant list?\"",
	"  • Mark things off the same way: \"we ate at Jade Palace yesterday\"",
	"  • Use /help to see available commands",
	"  • Press Ctrl+C to cancel, Ctrl+D to exit",
}

// RenderWelcomeTips returns styled welcome tips.
func (s Styles) RenderWelcomeTips() string {
	var b strings.Builder
	for _, tip := range welcomeTips {
		_, _ = b.WriteString(s.Tips.Render(tip))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}
