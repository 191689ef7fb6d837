// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"github.com/mensahub/mensad/internal/model"
	"github.com/uptrace/bun"
)

// Store defines the interface for all database operations in Mensad.
// This allows for multiple database backends to be implemented.
type Store interface {
	// BunDB exposes the underlying Bun handle for adapters like the
	// meal searcher. Prefer the typed methods below for everything else.
	BunDB() *bun.DB

	// Meal plan methods
	UpsertMealPlan(plan *model.MealPlan) (created bool, err error)
	GetMealPlan(year, week int) (*model.MealPlan, error)
	GetLatestMealPlan() (*model.MealPlan, error)
	ListPlanWeeks() ([]model.PlanWeek, error)
	DeleteMealPlan(year, week int) error

	// Meal methods
	GetAllMeals() ([]model.Meal, error)
	GetMealByName(name string) (*model.Meal, error)
	RenameMeal(id int, name string) error
	MergeMeals(canonicalID int, duplicateIDs []int) error
	CountMealUsage() ([]model.MealUsage, error)
	OrphanedMeals() ([]model.Meal, error)

	// Statistics methods
	CountPlans() (int, error)
	CountDays() (int, error)
	CountMeals() (int, error)
	CategoryUsage() (map[model.Category]int, error)
	MostServedMeals(limit int) ([]model.MealUsage, error)

	// Action log methods
	GetAllActionLogEntries() ([]model.ActionLogEntry, error)
	LogAction(action string, details string) error

	// Backup methods
	ExportDataForBackup() (*model.BackupData, error)
	ImportDataFromBackup(backup *model.BackupData) error
	IntegrateDataFromBackup(backup *model.BackupData) error
}
