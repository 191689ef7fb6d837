// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mensahub/mensad/internal/i18n"
	"github.com/mensahub/mensad/internal/model"
)

// weeksModel holds the state for the weeks list.
type weeksModel struct {
	// Data
	all []model.PlanWeek // master list, newest first

	// State
	lines       []model.PlanWeek // filtered view of the master list
	cursor      int
	filter      string
	isFiltering bool
	loading     bool
	err         error
	keys        weeksKeyMap
	help        help.Model
	width       int
}

func newWeeksModel() weeksModel {
	return weeksModel{
		loading: true,
		keys:    newWeeksKeyMap(),
		help:    help.New(),
	}
}

// rebuildLines applies the filter to the master list.
func (m *weeksModel) rebuildLines() {
	m.lines = nil
	lowerFilter := strings.ToLower(m.filter)
	for _, w := range m.all {
		if m.filter != "" && !strings.Contains(strings.ToLower(w.Key()), lowerFilter) {
			continue
		}
		m.lines = append(m.lines, w)
	}

	// Reset cursor if it's out of bounds after filtering
	if m.cursor >= len(m.lines) {
		m.cursor = 0
	}
}

func (m weeksModel) Init() tea.Cmd {
	return nil
}

func (m weeksModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case weeksLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.all = msg.weeks
		m.rebuildLines()

	case tea.KeyMsg:
		// If we are in filtering mode, capture all input for the filter.
		if m.isFiltering {
			switch msg.Type {
			case tea.KeyEsc:
				m.isFiltering = false
				m.filter = ""
				m.rebuildLines()
			case tea.KeyEnter:
				m.isFiltering = false
			case tea.KeyBackspace:
				if len(m.filter) > 0 {
					m.filter = m.filter[:len(m.filter)-1]
					m.rebuildLines()
				}
			case tea.KeyRunes:
				m.filter += string(msg.Runes)
				m.rebuildLines()
			}
			return m, nil
		}

		// Not in filtering mode, handle commands.
		switch {
		case key.Matches(msg, m.keys.Filter):
			m.isFiltering = true
			m.filter = "" // Start with a fresh filter
			m.rebuildLines()
			return m, nil
		case key.Matches(msg, m.keys.Quit), msg.String() == "esc":
			if m.filter != "" {
				m.filter = ""
				m.isFiltering = false
				m.rebuildLines()
				return m, nil
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.lines)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Reload):
			m.loading = true
			return m, loadWeeksCmd()
		case key.Matches(msg, m.keys.Open):
			if m.cursor >= 0 && m.cursor < len(m.lines) {
				w := m.lines[m.cursor]
				return m, func() tea.Msg { return openWeekMsg{year: w.Year, week: w.Week} }
			}
		}
	}
	return m, nil
}

func (m weeksModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n", m.err))
	}

	title := mainTitleStyle.Render("🍽️ " + i18n.T("tui.title"))

	var listItems []string
	listItems = append(listItems, lipgloss.NewStyle().Bold(true).Render(i18n.T("tui.weeks_title")), "")
	switch {
	case m.loading:
		listItems = append(listItems, helpStyle.Render(i18n.T("tui.loading")))
	case len(m.lines) == 0:
		listItems = append(listItems, helpStyle.Render(i18n.T("tui.no_weeks")))
	default:
		for i, w := range m.lines {
			line := fmt.Sprintf("%s  %s", w.Key(), i18n.T("tui.days", w.Days))
			if !w.FetchedAt.IsZero() {
				line = fmt.Sprintf("%s  (%s)", line, w.FetchedAt.Format("2006-01-02"))
			}
			if m.cursor == i {
				listItems = append(listItems, selectedItemStyle.Render("▸ "+line))
			} else {
				listItems = append(listItems, itemStyle.Render("  "+line))
			}
		}
	}

	paneStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtle).Padding(1, 2)
	listPane := paneStyle.Width(50).Render(lipgloss.JoinVertical(lipgloss.Left, listItems...))

	var filterStatus string
	if m.isFiltering {
		filterStatus = i18n.T("tui.filtering", m.filter)
	} else if m.filter != "" {
		filterStatus = i18n.T("tui.filter_active", m.filter)
	} else {
		filterStatus = i18n.T("tui.filter_hint")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title, "", listPane, "",
		helpStyle.Render(filterStatus),
		m.help.View(m.keys),
	)
}
