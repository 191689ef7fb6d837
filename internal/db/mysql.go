// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Mensad.
// This file contains the MySQL/MariaDB implementation of the database store.
// All queries go through the portable Bun helpers; only error mapping and
// dialect selection differ between backends.
package db // import "github.com/mensahub/mensad/internal/db"

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/mensahub/mensad/internal/model"
	"github.com/uptrace/bun"
)

// MySQLStore is the MySQL implementation of the Store interface.
// DSNs should include `?parseTime=true` so DATETIME columns scan correctly.
type MySQLStore struct {
	bun *bun.DB
}

// BunDB exposes the underlying Bun handle.
func (s *MySQLStore) BunDB() *bun.DB { return s.bun }

func (s *MySQLStore) UpsertMealPlan(plan *model.MealPlan) (bool, error) {
	created, err := UpsertMealPlanBun(s.bun, plan)
	if err == nil {
		_ = s.LogAction("STORE_PLAN", fmt.Sprintf("plan: %s, days: %d, created: %t", plan.Key(), len(plan.Days), created))
	}
	return created, err
}

func (s *MySQLStore) GetMealPlan(year, week int) (*model.MealPlan, error) {
	return GetMealPlanBun(s.bun, year, week)
}

func (s *MySQLStore) GetLatestMealPlan() (*model.MealPlan, error) {
	return GetLatestMealPlanBun(s.bun)
}

func (s *MySQLStore) ListPlanWeeks() ([]model.PlanWeek, error) {
	return ListPlanWeeksBun(s.bun)
}

func (s *MySQLStore) DeleteMealPlan(year, week int) error {
	err := DeleteMealPlanBun(s.bun, year, week)
	if err == nil {
		_ = s.LogAction("DELETE_PLAN", fmt.Sprintf("plan: KW %02d/%d", week, year))
	}
	return err
}

func (s *MySQLStore) GetAllMeals() ([]model.Meal, error) {
	return GetAllMealsBun(s.bun)
}

func (s *MySQLStore) GetMealByName(name string) (*model.Meal, error) {
	return GetMealByNameBun(s.bun, name)
}

func (s *MySQLStore) RenameMeal(id int, name string) error {
	err := RenameMealBun(s.bun, id, name)
	if err == nil {
		_ = s.LogAction("RENAME_MEAL", fmt.Sprintf("meal_id: %d, new_name: '%s'", id, name))
	}
	return err
}

func (s *MySQLStore) MergeMeals(canonicalID int, duplicateIDs []int) error {
	err := MergeMealsBun(s.bun, canonicalID, duplicateIDs)
	if err == nil && len(duplicateIDs) > 0 {
		_ = s.LogAction("MERGE_MEALS", fmt.Sprintf("canonical_id: %d, merged: %d", canonicalID, len(duplicateIDs)))
	}
	return err
}

func (s *MySQLStore) CountMealUsage() ([]model.MealUsage, error) {
	return CountMealUsageBun(s.bun)
}

func (s *MySQLStore) OrphanedMeals() ([]model.Meal, error) {
	return OrphanedMealsBun(s.bun)
}

func (s *MySQLStore) CountPlans() (int, error) { return CountPlansBun(s.bun) }

func (s *MySQLStore) CountDays() (int, error) { return CountDaysBun(s.bun) }

func (s *MySQLStore) CountMeals() (int, error) { return CountMealsBun(s.bun) }

func (s *MySQLStore) CategoryUsage() (map[model.Category]int, error) {
	return CategoryUsageBun(s.bun)
}

func (s *MySQLStore) MostServedMeals(limit int) ([]model.MealUsage, error) {
	return MostServedMealsBun(s.bun, limit)
}

func (s *MySQLStore) GetAllActionLogEntries() ([]model.ActionLogEntry, error) {
	return GetAllActionLogEntriesBun(s.bun)
}

func (s *MySQLStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

func (s *MySQLStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

func (s *MySQLStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}

func (s *MySQLStore) IntegrateDataFromBackup(backup *model.BackupData) error {
	return IntegrateDataFromBackupBun(s.bun, backup)
}
