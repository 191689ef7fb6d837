// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mensahub/mensad/internal/db"
	"github.com/mensahub/mensad/internal/i18n"
	"github.com/mensahub/mensad/internal/model"
)

// detailModel shows a single stored week as a category/day grid.
type detailModel struct {
	year   int
	week   int
	plan   *model.MealPlan
	table  table.Model
	keys   detailKeyMap
	help   help.Model
	status string
	width  int
	err    error
}

func newDetailModel(year, week int) detailModel {
	m := detailModel{
		year: year,
		week: week,
		keys: newDetailKeyMap(),
		help: help.New(),
	}
	m.reload()
	return m
}

// reload fetches the plan from the database and rebuilds the table.
func (m *detailModel) reload() {
	plan, err := db.GetMealPlan(m.year, m.week)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.plan = plan
	m.rebuildTable()
}

// rebuildTable lays the plan out as one row per category with one column
// per day. Column widths depend on the day count and terminal width, so
// resizing rebuilds the whole table.
func (m *detailModel) rebuildTable() {
	if m.plan == nil {
		return
	}
	m.plan.SortDays()
	days := m.plan.Days

	width := m.width
	if width <= 0 {
		width = 120
	}
	catWidth := 14
	dayWidth := 24
	if len(days) > 0 {
		// Cells get padding on both sides, leave room for the doc margins too.
		if w := (width - catWidth - 4 - 2*len(days)) / len(days); w >= 12 {
			dayWidth = w
		}
	}

	columns := []table.Column{{Title: i18n.T("tui.category"), Width: catWidth}}
	for _, d := range days {
		columns = append(columns, table.Column{Title: d.Weekday, Width: dayWidth})
	}

	var rows []table.Row
	for _, cat := range model.Categories() {
		row := table.Row{string(cat)}
		for _, d := range days {
			row = append(row, truncateCell(d.Meals[cat], dayWidth))
		}
		rows = append(rows, row)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSubtle).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorWhite).
		Background(colorHighlight).
		Bold(false)
	t.SetStyles(s)

	m.table = t
}

// truncateCell shortens a meal text so it fits into its table column.
func truncateCell(s string, width int) string {
	if width < 4 || len([]rune(s)) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

func (m detailModel) Init() tea.Cmd {
	return nil
}

func (m *detailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.rebuildTable()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return backToWeeksMsg{} }
		case key.Matches(msg, m.keys.Reload):
			m.status = ""
			m.reload()
			return m, nil
		case key.Matches(msg, m.keys.Copy):
			if m.plan != nil {
				if err := clipboard.WriteAll(planJSON(m.plan)); err != nil {
					m.status = i18n.T("tui.copy_failed", err)
				} else {
					m.status = i18n.T("tui.copied")
				}
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *detailModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n", m.err))
	}

	planKey := fmt.Sprintf("KW %02d/%d", m.week, m.year)
	var b strings.Builder
	b.WriteString(titleStyle.Render("📅 Speisenplan "+planKey) + "\n\n")

	if m.plan == nil {
		b.WriteString(helpStyle.Render(i18n.T("show.not_found", planKey)) + "\n")
	} else {
		b.WriteString(m.table.View() + "\n")
		if !m.plan.FetchedAt.IsZero() {
			b.WriteString(helpStyle.Render(i18n.T("show.fetched_at", m.plan.FetchedAt.Format("2006-01-02 15:04"))) + "\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusMessageStyle.Render(m.status) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// planJSON renders the plan as indented JSON for clipboard export. The
// shape matches `mensad show --json`.
func planJSON(p *model.MealPlan) string {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}
