// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Mensad.
// This file contains the SQLite implementation of the database store.
package db // import "github.com/mensahub/mensad/internal/db"

import (
	"fmt"

	"github.com/mensahub/mensad/internal/model"
	"github.com/uptrace/bun"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct {
	bun *bun.DB
}

// BunDB exposes the underlying Bun handle.
func (s *SqliteStore) BunDB() *bun.DB { return s.bun }

// UpsertMealPlan stores a weekly plan, replacing the stored days when the week
// already exists.
func (s *SqliteStore) UpsertMealPlan(plan *model.MealPlan) (bool, error) {
	created, err := UpsertMealPlanBun(s.bun, plan)
	if err == nil {
		_ = s.LogAction("STORE_PLAN", fmt.Sprintf("plan: %s, days: %d, created: %t", plan.Key(), len(plan.Days), created))
	}
	return created, err
}

// GetMealPlan retrieves the plan for a specific ISO year and week.
func (s *SqliteStore) GetMealPlan(year, week int) (*model.MealPlan, error) {
	return GetMealPlanBun(s.bun, year, week)
}

// GetLatestMealPlan retrieves the most recent stored plan.
func (s *SqliteStore) GetLatestMealPlan() (*model.MealPlan, error) {
	return GetLatestMealPlanBun(s.bun)
}

// ListPlanWeeks returns a summary of all stored weeks, newest first.
func (s *SqliteStore) ListPlanWeeks() ([]model.PlanWeek, error) {
	return ListPlanWeeksBun(s.bun)
}

// DeleteMealPlan removes a stored week and its days.
func (s *SqliteStore) DeleteMealPlan(year, week int) error {
	err := DeleteMealPlanBun(s.bun, year, week)
	if err == nil {
		_ = s.LogAction("DELETE_PLAN", fmt.Sprintf("plan: KW %02d/%d", week, year))
	}
	return err
}

// GetAllMeals retrieves all deduplicated meal names.
func (s *SqliteStore) GetAllMeals() ([]model.Meal, error) {
	return GetAllMealsBun(s.bun)
}

// GetMealByName retrieves a single meal by its exact name.
func (s *SqliteStore) GetMealByName(name string) (*model.Meal, error) {
	return GetMealByNameBun(s.bun, name)
}

// RenameMeal changes a meal's name.
func (s *SqliteStore) RenameMeal(id int, name string) error {
	err := RenameMealBun(s.bun, id, name)
	if err == nil {
		_ = s.LogAction("RENAME_MEAL", fmt.Sprintf("meal_id: %d, new_name: '%s'", id, name))
	}
	return err
}

// MergeMeals re-points plan days from the duplicate meals to the canonical one
// and deletes the duplicates.
func (s *SqliteStore) MergeMeals(canonicalID int, duplicateIDs []int) error {
	err := MergeMealsBun(s.bun, canonicalID, duplicateIDs)
	if err == nil && len(duplicateIDs) > 0 {
		_ = s.LogAction("MERGE_MEALS", fmt.Sprintf("canonical_id: %d, merged: %d", canonicalID, len(duplicateIDs)))
	}
	return err
}

// CountMealUsage returns every meal with its plan day reference count.
func (s *SqliteStore) CountMealUsage() ([]model.MealUsage, error) {
	return CountMealUsageBun(s.bun)
}

// OrphanedMeals returns meals no stored plan day references.
func (s *SqliteStore) OrphanedMeals() ([]model.Meal, error) {
	return OrphanedMealsBun(s.bun)
}

// CountPlans returns the number of stored weekly plans.
func (s *SqliteStore) CountPlans() (int, error) { return CountPlansBun(s.bun) }

// CountDays returns the number of stored plan days.
func (s *SqliteStore) CountDays() (int, error) { return CountDaysBun(s.bun) }

// CountMeals returns the number of distinct stored meals.
func (s *SqliteStore) CountMeals() (int, error) { return CountMealsBun(s.bun) }

// CategoryUsage returns how many stored days carry an offering per category.
func (s *SqliteStore) CategoryUsage() (map[model.Category]int, error) {
	return CategoryUsageBun(s.bun)
}

// MostServedMeals returns the most frequently served meals.
func (s *SqliteStore) MostServedMeals(limit int) ([]model.MealUsage, error) {
	return MostServedMealsBun(s.bun, limit)
}

// GetAllActionLogEntries retrieves all entries from the action log, most recent first.
func (s *SqliteStore) GetAllActionLogEntries() ([]model.ActionLogEntry, error) {
	return GetAllActionLogEntriesBun(s.bun)
}

// LogAction records a service action log event.
func (s *SqliteStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

// ExportDataForBackup retrieves all data from the database for a backup.
// It uses a transaction to ensure a consistent snapshot of the data.
func (s *SqliteStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

// ImportDataFromBackup restores the database from a backup data structure.
// It performs a full wipe-and-replace within a single transaction to ensure atomicity.
func (s *SqliteStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}

// IntegrateDataFromBackup restores data from a backup in a non-destructive way,
// skipping entries that already exist.
func (s *SqliteStore) IntegrateDataFromBackup(backup *model.BackupData) error {
	return IntegrateDataFromBackupBun(s.bun, backup)
}
