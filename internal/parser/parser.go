// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// package parser turns the Speisenplan's positioned text rows into a weekly
// meal plan. The layout is a table: a header row with "Montag 10.02.25" style
// cells, a category label column on the left (Tagesgericht, Vegetarisch,
// Pizza & Pasta, Wok) and one column per service day. Long meal names wrap
// onto continuation rows that leave the label column empty.
package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mensahub/mensad/internal/model"
	"github.com/mensahub/mensad/internal/pdfext"
)

// ErrNoPlan is returned when no page yields both a week marker and a
// parsable plan table.
var ErrNoPlan = errors.New("no meal plan found in document")

var (
	weekRe    = regexp.MustCompile(`KW\s*(\d+)`)
	dateRe    = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{2,4})`)
	weekdayRe = regexp.MustCompile(`(Montag|Dienstag|Mittwoch|Donnerstag|Freitag)`)
)

// Parse scans the extracted pages for a weekly plan. The first page carrying
// both a "KW <n>" marker and a parsable table wins. The plan year comes from
// the first date found on that page; pages without any date fall back to the
// current year.
func Parse(pages [][]pdfext.Row) (*model.MealPlan, error) {
	for _, rows := range pages {
		text := pageText(rows)

		wm := weekRe.FindStringSubmatch(text)
		if wm == nil {
			continue
		}
		week, _ := strconv.Atoi(wm[1])

		year := time.Now().Year()
		if t, ok := parseGermanDate(text); ok {
			year = t.Year()
		}

		days := parseTable(rows)
		if len(days) == 0 {
			continue
		}

		plan := &model.MealPlan{Year: year, Week: week, Days: days}
		plan.SortDays()
		return plan, nil
	}
	return nil, ErrNoPlan
}

// pageText joins all rows for the page-level week and date scans.
func pageText(rows []pdfext.Row) string {
	parts := make([]string, 0, len(rows))
	for _, r := range rows {
		parts = append(parts, r.Text())
	}
	return strings.Join(parts, "\n")
}

// parseTable locates the weekday header row and walks the rows below it,
// clustering each into a label cell plus one cell per day column.
func parseTable(rows []pdfext.Row) []model.Day {
	headerIdx := -1
	for i, r := range rows {
		if weekdayRe.MatchString(r.Text()) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil
	}

	days, dayColumns := headerDays(rows[headerIdx])
	if len(days) == 0 {
		return nil
	}

	body := rows[headerIdx+1:]
	columns := append([]float64{labelColumn(body, dayColumns)}, dayColumns...)

	// Meal texts accumulate per day until the next category row.
	acc := make([][]string, len(days))
	var current model.Category

	flush := func() {
		if current == "" {
			return
		}
		for idx, parts := range acc {
			if len(parts) > 0 {
				days[idx].Meals[current] = strings.Join(parts, " ")
			}
		}
		acc = make([][]string, len(days))
	}

	for _, row := range body {
		if len(row.Words) == 0 {
			continue
		}
		cells := pdfext.ClusterCells(row, columns)
		label := strings.TrimSpace(cells[0])

		switch {
		case label == "":
			// continuation row
		case matchCategory(label) != "":
			flush()
			current = matchCategory(label)
		case categoryByPrefix(label) != "":
			// First line of a wrapped category label, e.g. "Pizza &".
			flush()
			current = categoryByPrefix(label)
		case isCategoryFragment(label):
			// Trailing line of a wrapped label, e.g. "Pasta".
		default:
			// Text outside the label/category scheme means the table is
			// over (footers, price notes).
			flush()
			return days
		}

		if current == "" {
			continue
		}
		for idx, cell := range cells[1:] {
			if idx >= len(days) {
				break
			}
			if cell = strings.TrimSpace(cell); cell != "" {
				acc[idx] = append(acc[idx], cell)
			}
		}
	}
	flush()
	return days
}

// headerDays splits the header row into day cells. A new cell starts at each
// weekday word; a cell only counts when it carries both the weekday and a
// date. Returns the days plus the X position of each day column.
func headerDays(row pdfext.Row) ([]model.Day, []float64) {
	var days []model.Day
	var columns []float64

	var cellWords []string
	var cellX float64
	open := false

	flush := func() {
		if !open {
			return
		}
		cell := strings.Join(cellWords, " ")
		dm := weekdayRe.FindStringSubmatch(cell)
		t, ok := parseGermanDate(cell)
		if dm != nil && ok {
			days = append(days, model.Day{
				Date:    t.Format(model.DateLayout),
				Weekday: dm[1],
				Meals:   make(map[model.Category]string),
			})
			columns = append(columns, cellX)
		}
		open = false
	}

	for _, w := range row.Words {
		if weekdayRe.MatchString(w.Text) {
			flush()
			cellWords = []string{w.Text}
			cellX = w.X
			open = true
			continue
		}
		if open {
			cellWords = append(cellWords, w.Text)
		}
	}
	flush()
	return days, columns
}

// labelColumn estimates the X position of the category label column: the
// leftmost word start below the header, bounded away from the first day
// column.
func labelColumn(body []pdfext.Row, dayColumns []float64) float64 {
	label := 0.0
	found := false
	for _, r := range body {
		if len(r.Words) == 0 {
			continue
		}
		x := r.Words[0].X
		if len(dayColumns) > 0 && x >= dayColumns[0] {
			continue
		}
		if !found || x < label {
			label = x
			found = true
		}
	}
	return label
}

// matchCategory returns the category whose name the label contains, or "".
func matchCategory(label string) model.Category {
	for _, cat := range model.Categories() {
		if strings.Contains(label, string(cat)) {
			return cat
		}
	}
	return ""
}

// categoryByPrefix resolves a label that is the leading piece of a wrapped
// category name.
func categoryByPrefix(label string) model.Category {
	for _, cat := range model.Categories() {
		if strings.HasPrefix(string(cat), label) {
			return cat
		}
	}
	return ""
}

// isCategoryFragment reports whether the label looks like a piece of a
// wrapped category name ("Pizza &" / "Pasta").
func isCategoryFragment(label string) bool {
	for _, cat := range model.Categories() {
		if strings.Contains(string(cat), label) {
			return true
		}
	}
	return false
}

// parseGermanDate finds the first dd.mm.yy or dd.mm.yyyy date in s.
func parseGermanDate(s string) (time.Time, bool) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	raw := m[1] + "." + m[2] + "." + m[3]
	layout := "02.01.06"
	if len(m[3]) == 4 {
		layout = "02.01.2006"
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
