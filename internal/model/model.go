// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures for Mensad: weekly meal
// plans, the meals they reference, and the service action log.
package model // import "github.com/mensahub/mensad/internal/model"

import (
	"fmt"
	"sort"
	"time"
)

// Category is one of the fixed meal categories printed on the Speisenplan.
type Category string

const (
	CategoryTagesgericht Category = "Tagesgericht"
	CategoryVegetarisch  Category = "Vegetarisch"
	CategoryPizzaPasta   Category = "Pizza & Pasta"
	CategoryWok          Category = "Wok"
)

// Categories returns all known categories in display order.
func Categories() []Category {
	return []Category{CategoryTagesgericht, CategoryVegetarisch, CategoryPizzaPasta, CategoryWok}
}

// Weekdays lists the German weekday names as they appear in the plan header,
// Monday through Friday. The cafeteria does not serve on weekends.
var Weekdays = []string{"Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag"}

// DateLayout is the ISO date format used for Day.Date.
const DateLayout = "2006-01-02"

// Day is a single service day within a weekly plan.
type Day struct {
	// Date in ISO form (YYYY-MM-DD).
	Date string `json:"date"`
	// Weekday is the German weekday name from the plan header.
	Weekday string `json:"weekday"`
	// Meals maps each offered category to the printed meal text.
	// Categories with no offering that day (holidays, closures) are absent.
	Meals map[Category]string `json:"meals"`
}

// Meal is a deduplicated meal name as stored in the database.
type Meal struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MealPlan is one ISO week of the cafeteria's offerings.
type MealPlan struct {
	Year      int       `json:"year"`
	Week      int       `json:"week"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
	Days      []Day     `json:"days"`
}

// Key returns the human-readable plan identifier, e.g. "KW 47/2025".
func (p MealPlan) Key() string {
	return fmt.Sprintf("KW %02d/%d", p.Week, p.Year)
}

// Day returns the day with the given ISO date, or nil if the plan has none.
func (p *MealPlan) Day(date string) *Day {
	for i := range p.Days {
		if p.Days[i].Date == date {
			return &p.Days[i]
		}
	}
	return nil
}

// SortDays orders the plan's days chronologically. Parsers may emit days in
// table-column order; storage and rendering rely on date order.
func (p *MealPlan) SortDays() {
	sort.Slice(p.Days, func(i, j int) bool { return p.Days[i].Date < p.Days[j].Date })
}

// WeekOf returns the ISO year and week that contain t.
func WeekOf(t time.Time) (year, week int) {
	return t.ISOWeek()
}

// PlanWeek is a summary row for a stored plan, used by listings.
type PlanWeek struct {
	Year      int       `json:"year"`
	Week      int       `json:"week"`
	FetchedAt time.Time `json:"fetched_at"`
	Days      int       `json:"days"`
}

// Key returns the identifier in the same form as MealPlan.Key.
func (w PlanWeek) Key() string {
	return fmt.Sprintf("KW %02d/%d", w.Week, w.Year)
}

// MealUsage reports how often a meal is referenced by stored plan days,
// summed across all categories.
type MealUsage struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ActionLogEntry is a single row in the service action log. Timestamps are
// stored as strings because the underlying column differs between backends.
type ActionLogEntry struct {
	ID        int    `json:"id"`
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}
