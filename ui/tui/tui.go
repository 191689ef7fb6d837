// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the interactive meal plan browser for mensad.
// This file, tui.go, is the main entry point for the TUI, containing the
// top-level model that routes between the weeks list and the detail view.
package tui // import "github.com/mensahub/mensad/ui/tui"

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mensahub/mensad/internal/db"
	"github.com/mensahub/mensad/internal/logging"
	"github.com/mensahub/mensad/internal/model"
)

// viewState represents which part of the UI is currently active.
type viewState int

const (
	// weeksView is the list of stored plan weeks.
	weeksView viewState = iota
	detailView
)

// weeksLoadedMsg delivers the stored week listing to the weeks view.
type weeksLoadedMsg struct {
	weeks []model.PlanWeek
	err   error
}

// openWeekMsg asks the root model to show a single stored week.
type openWeekMsg struct {
	year int
	week int
}

// backToWeeksMsg signals a return from the detail view to the weeks list.
type backToWeeksMsg struct{}

// mainModel is the top-level model for the TUI. It acts as a state machine
// and router, delegating updates and view rendering to the active sub-model.
type mainModel struct {
	state  viewState
	weeks  weeksModel
	detail *detailModel
	width  int
	height int
}

// initialModel creates the starting state of the TUI, beginning at the
// weeks list.
func initialModel() mainModel {
	return mainModel{
		state: weeksView,
		weeks: newWeeksModel(),
	}
}

// Init is the first function that will be called by the Bubble Tea runtime.
// It kicks off the initial command to load the stored weeks.
func (m mainModel) Init() tea.Cmd {
	return loadWeeksCmd()
}

// Update is the main message loop. It handles all events (like key presses
// and window size changes) and delegates them to the active sub-model.
func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings that work everywhere.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case openWeekMsg:
		m.state = detailView
		d := newDetailModel(msg.year, msg.week)
		m.detail = &d
		// Push the current window size so the table lays out correctly.
		var updated tea.Model
		updated, cmd = m.detail.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.detail = updated.(*detailModel)
		return m, cmd
	}

	// Delegate updates to the currently active view.
	switch m.state {
	case detailView:
		if _, ok := msg.(backToWeeksMsg); ok {
			m.state = weeksView
			return m, loadWeeksCmd()
		}
		var updated tea.Model
		updated, cmd = m.detail.Update(msg)
		m.detail = updated.(*detailModel)
	default: // weeksView
		var updated tea.Model
		updated, cmd = m.weeks.Update(msg)
		m.weeks = updated.(weeksModel)
	}

	return m, cmd
}

// View renders the TUI. It delegates rendering to the active sub-model.
func (m mainModel) View() string {
	switch m.state {
	case detailView:
		return m.detail.View()
	default: // weeksView
		return m.weeks.View()
	}
}

// loadWeeksCmd is a tea.Cmd that fetches the stored week listing.
func loadWeeksCmd() tea.Cmd {
	return func() tea.Msg {
		weeks, err := db.ListPlanWeeks()
		return weeksLoadedMsg{weeks: weeks, err: err}
	}
}

// Run is the main entrypoint for the TUI. It initializes and runs the
// Bubble Tea program.
func Run() {
	if _, err := tea.NewProgram(initialModel(), tea.WithAltScreen()).Run(); err != nil {
		logging.Errorf("TUI run error: %v", err)
		os.Exit(1)
	}
}
