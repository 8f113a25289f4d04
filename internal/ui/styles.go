// Package ui holds the lipgloss styles. Two palettes back the persisted
// light/dark theme preference.
package ui

import "github.com/charmbracelet/lipgloss"

// Theme bundles the styles used throughout the dashboard.
type Theme struct {
	Name string

	Title       lipgloss.Style
	Header      lipgloss.Style
	Dim         lipgloss.Style
	Divider     lipgloss.Style
	Temp        lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Error       lipgloss.Style
	ErrorText   lipgloss.Style
	Selected    lipgloss.Style
	Input       lipgloss.Style
	InputActive lipgloss.Style
	Badge       lipgloss.Style
	FooterKey   lipgloss.Style
	FooterDesc  lipgloss.Style
	Spinner     lipgloss.Style
}

// Light is the default palette, tuned for light terminal backgrounds.
func Light() Theme {
	var (
		accent = lipgloss.Color("#005FAF")
		text   = lipgloss.Color("#1C1C1C")
		dim    = lipgloss.Color("#6C6C6C")
		faint  = lipgloss.Color("#A8A8A8")
		red    = lipgloss.Color("#AF0000")
		warm   = lipgloss.Color("#AF5F00")
	)
	return Theme{
		Name:        "light",
		Title:       lipgloss.NewStyle().Bold(true).Foreground(accent),
		Header:      lipgloss.NewStyle().Foreground(accent),
		Dim:         lipgloss.NewStyle().Foreground(dim),
		Divider:     lipgloss.NewStyle().Foreground(faint),
		Temp:        lipgloss.NewStyle().Foreground(warm).Bold(true),
		Label:       lipgloss.NewStyle().Foreground(dim),
		Value:       lipgloss.NewStyle().Foreground(text),
		Error:       lipgloss.NewStyle().Foreground(red).Bold(true),
		ErrorText:   lipgloss.NewStyle().Foreground(red),
		Selected:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		Input:       lipgloss.NewStyle().Foreground(text),
		InputActive: lipgloss.NewStyle().Foreground(accent).Bold(true),
		Badge:       lipgloss.NewStyle().Foreground(accent).Bold(true),
		FooterKey:   lipgloss.NewStyle().Foreground(warm).Bold(true),
		FooterDesc:  lipgloss.NewStyle().Foreground(dim),
		Spinner:     lipgloss.NewStyle().Foreground(accent),
	}
}

// Dark mirrors Light with brighter foregrounds.
func Dark() Theme {
	var (
		accent = lipgloss.Color("#00FFFF")
		text   = lipgloss.Color("#FFFFFF")
		dim    = lipgloss.Color("#666666")
		faint  = lipgloss.Color("#444444")
		red    = lipgloss.Color("#FF5F5F")
		warm   = lipgloss.Color("#FFFF00")
	)
	return Theme{
		Name:        "dark",
		Title:       lipgloss.NewStyle().Bold(true).Foreground(accent),
		Header:      lipgloss.NewStyle().Foreground(accent),
		Dim:         lipgloss.NewStyle().Foreground(dim),
		Divider:     lipgloss.NewStyle().Foreground(faint),
		Temp:        lipgloss.NewStyle().Foreground(warm).Bold(true),
		Label:       lipgloss.NewStyle().Foreground(dim),
		Value:       lipgloss.NewStyle().Foreground(text),
		Error:       lipgloss.NewStyle().Foreground(red).Bold(true),
		ErrorText:   lipgloss.NewStyle().Foreground(red),
		Selected:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		Input:       lipgloss.NewStyle().Foreground(text),
		InputActive: lipgloss.NewStyle().Foreground(accent).Bold(true),
		Badge:       lipgloss.NewStyle().Foreground(accent).Bold(true),
		FooterKey:   lipgloss.NewStyle().Foreground(warm).Bold(true),
		FooterDesc:  lipgloss.NewStyle().Foreground(dim),
		Spinner:     lipgloss.NewStyle().Foreground(accent),
	}
}

// ByName returns the palette for a persisted theme name.
func ByName(name string) Theme {
	if name == "dark" {
		return Dark()
	}
	return Light()
}
