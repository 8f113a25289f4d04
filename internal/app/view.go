package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/skycast/skycast/internal/format"
	"github.com/skycast/skycast/internal/weather"
)

// View renders the full dashboard.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderSearch())
	sections = append(sections, m.theme.Divider.Render(strings.Repeat("─", m.width)))

	if m.errMsg != "" {
		sections = append(sections, m.renderErrorBar())
	}

	switch {
	case m.state == StateLoading && !m.haveWeather:
		sections = append(sections, "")
		sections = append(sections, m.theme.Spinner.Render("  ⟳ Loading weather data..."))

	case m.haveWeather:
		sections = append(sections, m.renderLocation())
		sections = append(sections, "")
		sections = append(sections, m.renderCurrent())
		sections = append(sections, "")
		sections = append(sections, m.renderForecast())

	case m.errMsg == "":
		sections = append(sections, m.renderWelcome())
	}

	sections = append(sections, "")
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("☁️  SKYCAST")
	mode := m.theme.Badge.Render("  [" + m.theme.Name + "]")
	unit := "°C"
	if m.unit == format.Fahrenheit {
		unit = "°F"
	}
	return title + mode + m.theme.Badge.Render(" ["+unit+"]")
}

func (m Model) renderSearch() string {
	var b strings.Builder

	prompt := m.theme.Input.Render("Search: ")
	if m.searchFocused {
		prompt = m.theme.InputActive.Render("Search: ")
	}
	b.WriteString(prompt)

	if m.query == "" && !m.searchFocused {
		b.WriteString(m.theme.Dim.Render("press / to search for a city"))
	} else {
		b.WriteString(m.theme.Input.Render(m.query))
		if m.searchFocused {
			b.WriteString(m.theme.InputActive.Render("▌"))
		}
	}
	if m.searching {
		b.WriteString(m.theme.Spinner.Render("  ⟳"))
	}

	if !m.searchFocused {
		return b.String()
	}

	// Dropdown: suggestions while typing, recent searches otherwise.
	choices := m.visibleChoices()
	label := "SUGGESTIONS"
	empty := "No suggestions"
	if strings.TrimSpace(m.query) == "" {
		label = "RECENT SEARCHES"
		empty = "No recent searches"
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Label.Render("  " + label))
	if len(choices) == 0 {
		b.WriteString("\n")
		b.WriteString(m.theme.Dim.Render("  " + empty))
		return b.String()
	}

	for i, loc := range choices {
		b.WriteString("\n")
		line := "  " + loc.Label()
		if i == m.selected {
			line = m.theme.Selected.Render("> " + loc.Label())
		}
		b.WriteString(line)
	}
	return b.String()
}

func (m Model) renderErrorBar() string {
	bar := m.theme.Error.Render("Error: ") + m.theme.ErrorText.Render(m.errMsg)
	if m.location.Valid() {
		bar += m.theme.Dim.Render("  (press r to retry)")
	}
	return bar
}

func (m Model) renderLocation() string {
	name := m.theme.Header.Render(m.location.Label())
	updated := m.theme.Dim.Render("  updated " + format.RelativeTime(m.lastUpdated))
	if m.state == StateLoading {
		updated += m.theme.Spinner.Render("  ⟳")
	}
	return name + updated
}

func (m Model) renderCurrent() string {
	cond := weather.LookupCondition(m.current.ConditionID, m.current.Description)
	sys := m.unit.Measurement()

	headline := fmt.Sprintf("%s  %s  %s",
		cond.Icon,
		m.theme.Temp.Render(format.Temperature(m.current.Temp, m.unit)),
		m.theme.Value.Render(cond.Description),
	)

	rows := []struct {
		label, value string
	}{
		{"Feels like", format.Temperature(m.current.FeelsLike, m.unit)},
		{"Humidity", format.Humidity(m.current.Humidity)},
		{"Wind", format.WindSpeed(m.current.WindSpeed, sys) + " " + format.WindDirection(m.current.WindDeg)},
		{"Pressure", format.Pressure(m.current.Pressure, sys)},
		{"Visibility", format.Visibility(m.current.Visibility, sys)},
		{"Sunrise", format.Time(time.Unix(m.current.Sunrise, 0))},
		{"Sunset", format.Time(time.Unix(m.current.Sunset, 0))},
	}

	var b strings.Builder
	b.WriteString(headline)
	for _, r := range rows {
		b.WriteString("\n  ")
		b.WriteString(m.theme.Label.Render(padRight(r.label, 11)))
		b.WriteString(m.theme.Value.Render(r.value))
	}
	return b.String()
}

func (m Model) renderForecast() string {
	if len(m.forecast) == 0 {
		return ""
	}

	cards := make([]string, 0, len(m.forecast))
	for _, day := range m.forecast {
		cond := weather.LookupCondition(day.Summary.ConditionID, day.Summary.Description)
		lines := []string{
			m.theme.Header.Render(padRight(format.Day(day.Timestamp, true), 12)),
			padRight(cond.Icon, 12),
			m.theme.Temp.Render(format.Temperature(day.Summary.TempMax, m.unit)) +
				m.theme.Dim.Render(" / "+format.Temperature(day.Summary.TempMin, m.unit)),
			m.theme.Dim.Render(format.Humidity(float64(day.Summary.Humidity))),
			m.theme.Dim.Render(format.WindSpeed(day.Summary.WindSpeed, m.unit.Measurement())),
		}
		cards = append(cards, strings.Join(lines, "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) renderWelcome() string {
	return "\n" + m.theme.Header.Render("  Welcome to SkyCast") + "\n" +
		m.theme.Dim.Render("  Search for a location (/) or use your current location (g) to get started.")
}

func (m Model) renderFooter() string {
	key := func(k, desc string) string {
		return m.theme.FooterKey.Render(k) + m.theme.FooterDesc.Render(" "+desc)
	}

	if m.searchFocused {
		return strings.Join([]string{
			key("enter", "Go"),
			key("↑↓", "Select"),
			key("ctrl+x", "Clear recent"),
			key("esc", "Cancel"),
		}, "  ")
	}

	parts := []string{key("/", "Search"), key("g", "My location")}
	if m.location.Valid() {
		parts = append(parts, key("r", "Refresh"))
	}
	parts = append(parts,
		key("u", "Units"),
		key("t", "Theme"),
		key("q", "Quit"),
	)
	return strings.Join(parts, "  ")
}

// padRight pads s with spaces to the given visible width.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
