// Package tui provides Bubble Tea TUI components for the braket-devices CLI.
//
// TUI rules:
//   - TUI is opt-in only (--tui flag)
//   - TUI is read-only (list and inspect)
//   - TUI shows the same payloads as the other output formats
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pithecene-io/braket-devices/types"
)

// Palette. Each color has a light- and a dark-background variant.
var (
	accent  = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"}
	online  = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	pending = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	offline = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	muted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	focus   = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	text    = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	LabelStyle    = lipgloss.NewStyle().Foreground(muted)
	ValueStyle    = lipgloss.NewStyle().Foreground(text)
	SuccessStyle  = lipgloss.NewStyle().Foreground(online)
	WarningStyle  = lipgloss.NewStyle().Foreground(pending)
	ErrorStyle    = lipgloss.NewStyle().Foreground(offline)
	MutedStyle    = lipgloss.NewStyle().Foreground(muted)
	SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(focus)
	HelpStyle     = lipgloss.NewStyle().Foreground(muted).MarginTop(1)

	// BoxStyle frames the inspect view.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(1, 2)

	// StatBoxStyle frames one per-status device count in the browser header.
	StatBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(focus).
			Padding(0, 2).
			Width(14).
			Align(lipgloss.Center)
)

// StatusStyle returns the style for a device status. LOADING marks rows
// whose status has not resolved yet.
func StatusStyle(status string) lipgloss.Style {
	switch types.DeviceStatus(status) {
	case types.DeviceStatusOnline:
		return SuccessStyle
	case types.DeviceStatusLoading:
		return WarningStyle
	case types.DeviceStatusOffline, types.DeviceStatusRetired:
		return ErrorStyle
	case types.DeviceStatusUnknown:
		return MutedStyle
	default:
		return ValueStyle
	}
}
