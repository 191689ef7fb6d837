// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.
package cli

import (
	"github.com/mensahub/mensad/internal/analyze"
	"github.com/mensahub/mensad/internal/api"
	"github.com/mensahub/mensad/internal/db"
	"github.com/mensahub/mensad/internal/dedupe"
	"github.com/mensahub/mensad/internal/fetch"
	"github.com/mensahub/mensad/internal/model"
)

// cliPlanStore adapts the db package-level helpers to the store interfaces
// the fetcher and the API server consume. The helpers delegate to the store
// installed by setupDefaultServices.
type cliPlanStore struct{}

func (c *cliPlanStore) UpsertMealPlan(plan *model.MealPlan) (bool, error) {
	return db.UpsertMealPlan(plan)
}

func (c *cliPlanStore) GetMealPlan(year, week int) (*model.MealPlan, error) {
	return db.GetMealPlan(year, week)
}

func (c *cliPlanStore) GetLatestMealPlan() (*model.MealPlan, error) {
	return db.GetLatestMealPlan()
}

func (c *cliPlanStore) ListPlanWeeks() ([]model.PlanWeek, error) {
	return db.ListPlanWeeks()
}

func (c *cliPlanStore) LogAction(action string, details string) error {
	return db.LogAction(action, details)
}

// cliMealStore adapts the db package-level helpers to the meal-centric
// interfaces deduplication and analysis consume.
type cliMealStore struct{}

func (c *cliMealStore) GetAllMeals() ([]model.Meal, error) {
	return db.GetAllMeals()
}

func (c *cliMealStore) GetMealByName(name string) (*model.Meal, error) {
	return db.GetMealByName(name)
}

func (c *cliMealStore) RenameMeal(id int, name string) error {
	return db.RenameMeal(id, name)
}

func (c *cliMealStore) MergeMeals(canonicalID int, duplicateIDs []int) error {
	return db.MergeMeals(canonicalID, duplicateIDs)
}

func (c *cliMealStore) CountPlans() (int, error) { return db.CountPlans() }

func (c *cliMealStore) CountDays() (int, error) { return db.CountDays() }

func (c *cliMealStore) CountMeals() (int, error) { return db.CountMeals() }

func (c *cliMealStore) MostServedMeals(limit int) ([]model.MealUsage, error) {
	return db.MostServedMeals(limit)
}

func (c *cliMealStore) OrphanedMeals() ([]model.Meal, error) {
	return db.OrphanedMeals()
}

func (c *cliMealStore) CategoryUsage() (map[model.Category]int, error) {
	return db.CategoryUsage()
}

// ensure adapters satisfy the consumer interfaces at compile time
var _ fetch.PlanStore = (*cliPlanStore)(nil)
var _ api.Store = (*cliPlanStore)(nil)
var _ dedupe.MealStore = (*cliMealStore)(nil)
var _ analyze.StatsStore = (*cliMealStore)(nil)
