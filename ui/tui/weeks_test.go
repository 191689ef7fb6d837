// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mensahub/mensad/internal/i18n"
	"github.com/mensahub/mensad/internal/model"
)

func testWeeks() []model.PlanWeek {
	return []model.PlanWeek{
		{Year: 2025, Week: 8, FetchedAt: time.Date(2025, 2, 17, 8, 0, 0, 0, time.UTC), Days: 5},
		{Year: 2025, Week: 7, FetchedAt: time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC), Days: 5},
		{Year: 2024, Week: 52, Days: 3},
	}
}

func TestWeeksRebuildLines_Filter(t *testing.T) {
	m := newWeeksModel()
	m.all = testWeeks()

	m.rebuildLines()
	if len(m.lines) != 3 {
		t.Fatalf("expected 3 lines without filter, got %d", len(m.lines))
	}

	m.filter = "2025"
	m.rebuildLines()
	if len(m.lines) != 2 {
		t.Fatalf("expected 2 lines for filter '2025', got %d", len(m.lines))
	}

	// Key() renders "KW 07/2025", so a zero-padded week matches too.
	m.filter = "kw 07"
	m.rebuildLines()
	if len(m.lines) != 1 {
		t.Fatalf("expected 1 line for filter 'kw 07', got %d", len(m.lines))
	}
	if m.lines[0].Week != 7 {
		t.Fatalf("expected week 7, got %d", m.lines[0].Week)
	}

	// Cursor must be reset when filtering shrinks the list.
	m.filter = ""
	m.rebuildLines()
	m.cursor = 2
	m.filter = "52"
	m.rebuildLines()
	if m.cursor != 0 {
		t.Fatalf("expected cursor reset to 0, got %d", m.cursor)
	}
}

func TestWeeksUpdate_FilteringMode_InputAndBackspace(t *testing.T) {
	m := newWeeksModel()
	m.all = testWeeks()
	m.loading = false
	m.isFiltering = true
	m.rebuildLines()

	modelIface, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	mv := modelIface.(weeksModel)
	if mv.filter != "2" {
		t.Fatalf("expected filter to be '2', got %q", mv.filter)
	}

	modelIface, _ = mv.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}})
	mv = modelIface.(weeksModel)
	if mv.filter != "24" {
		t.Fatalf("expected filter to be '24', got %q", mv.filter)
	}
	if len(mv.lines) != 1 {
		t.Fatalf("expected 1 line while filtering for '24', got %d", len(mv.lines))
	}

	modelIface, _ = mv.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	mv = modelIface.(weeksModel)
	if mv.filter != "2" {
		t.Fatalf("expected filter to be '2' after backspace, got %q", mv.filter)
	}

	modelIface, _ = mv.Update(tea.KeyMsg{Type: tea.KeyEnter})
	mv = modelIface.(weeksModel)
	if mv.isFiltering {
		t.Fatalf("expected isFiltering to be false after Enter")
	}
	if mv.filter != "2" {
		t.Fatalf("expected committed filter to survive Enter, got %q", mv.filter)
	}

	// Esc clears the committed filter instead of quitting.
	modelIface, cmd := mv.Update(tea.KeyMsg{Type: tea.KeyEsc})
	mv = modelIface.(weeksModel)
	if cmd != nil {
		t.Fatalf("expected no command when esc clears the filter")
	}
	if mv.filter != "" || len(mv.lines) != 3 {
		t.Fatalf("expected cleared filter with full list, got filter %q and %d lines", mv.filter, len(mv.lines))
	}
}

func TestWeeksUpdate_CursorAndOpen(t *testing.T) {
	m := newWeeksModel()
	m.loading = false
	m.all = testWeeks()
	m.rebuildLines()

	modelIface, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	mv := modelIface.(weeksModel)
	if mv.cursor != 1 {
		t.Fatalf("expected cursor 1 after down, got %d", mv.cursor)
	}

	modelIface, cmd := mv.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected a command from Enter")
	}
	msg := cmd()
	open, ok := msg.(openWeekMsg)
	if !ok {
		t.Fatalf("expected openWeekMsg, got %#v", msg)
	}
	if open.year != 2025 || open.week != 7 {
		t.Fatalf("expected KW 7/2025 to open, got KW %d/%d", open.week, open.year)
	}

	mv = modelIface.(weeksModel)
	modelIface, _ = mv.Update(tea.KeyMsg{Type: tea.KeyUp})
	mv = modelIface.(weeksModel)
	if mv.cursor != 0 {
		t.Fatalf("expected cursor 0 after up, got %d", mv.cursor)
	}
}

func TestWeeksUpdate_LoadedMsg(t *testing.T) {
	m := newWeeksModel()
	if !m.loading {
		t.Fatalf("expected a fresh model to be loading")
	}

	modelIface, _ := m.Update(weeksLoadedMsg{weeks: testWeeks()})
	mv := modelIface.(weeksModel)
	if mv.loading {
		t.Fatalf("expected loading to be false after weeksLoadedMsg")
	}
	if len(mv.lines) != 3 {
		t.Fatalf("expected 3 lines after load, got %d", len(mv.lines))
	}
}

func TestWeeksView_States(t *testing.T) {
	i18n.Init("en")

	m := newWeeksModel()
	if out := m.View(); !strings.Contains(out, "Loading") {
		t.Fatalf("expected loading indicator, got:\n%s", out)
	}

	m.loading = false
	if out := m.View(); !strings.Contains(out, "No meal plans stored yet") {
		t.Fatalf("expected empty notice, got:\n%s", out)
	}

	m.all = testWeeks()
	m.rebuildLines()
	out := m.View()
	if !strings.Contains(out, "KW 08/2025") || !strings.Contains(out, "KW 52/2024") {
		t.Fatalf("expected week keys in view, got:\n%s", out)
	}
	if !strings.Contains(out, "5 days") {
		t.Fatalf("expected day counts in view, got:\n%s", out)
	}
}
