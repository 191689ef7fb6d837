// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// Package state provides a concurrency-safe, in-memory cache for transient
// application state shared between different parts of the application (the
// fetch scheduler writes the current plan, the HTTP API and TUI read it).
package state

import (
	"sync"

	"github.com/mensahub/mensad/internal/model"
)

// PlanCache is a simple, concurrency-safe, in-memory "mailbox" holding the
// most recently fetched meal plan. Readers get a deep copy so no caller can
// mutate the cached plan under another reader. The zero value is an empty
// cache ready for use.
type PlanCache struct {
	value *model.MealPlan
	mu    sync.RWMutex
}

// NewPlanCache returns an empty cache.
func NewPlanCache() *PlanCache {
	return &PlanCache{}
}

// Set stores a copy of the plan in the cache. It overwrites any existing
// value. Passing nil clears the cache.
func (p *PlanCache) Set(plan *model.MealPlan) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if plan == nil {
		p.value = nil
		return
	}
	// Store a copy so the caller's original plan isn't held by the cache.
	p.value = copyPlan(plan)
}

// Get retrieves a copy of the cached plan, or nil when nothing is cached.
// This method is safe for concurrent use by multiple goroutines.
func (p *PlanCache) Get() *model.MealPlan {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.value == nil {
		return nil
	}

	// Return a copy so that multiple goroutines can read the plan and one
	// mutating its copy doesn't affect others.
	return copyPlan(p.value)
}

// Clear drops the cached plan.
func (p *PlanCache) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = nil
}

// copyPlan deep-copies a plan including each day's meal map.
func copyPlan(plan *model.MealPlan) *model.MealPlan {
	out := &model.MealPlan{
		Year:      plan.Year,
		Week:      plan.Week,
		FetchedAt: plan.FetchedAt,
		Days:      make([]model.Day, len(plan.Days)),
	}
	for i, d := range plan.Days {
		day := model.Day{Date: d.Date, Weekday: d.Weekday}
		if d.Meals != nil {
			day.Meals = make(map[model.Category]string, len(d.Meals))
			for cat, name := range d.Meals {
				day.Meals[cat] = name
			}
		}
		out.Days[i] = day
	}
	return out
}
