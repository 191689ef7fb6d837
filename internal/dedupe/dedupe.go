// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// Package dedupe finds and merges duplicate meal names. Years of weekly
// plans accumulate near-identical spellings of the same dish (allergen code
// variants, truncated sides, reordered ingredients); this package groups
// them by fuzzy similarity and collapses each group onto one canonical
// name.
package dedupe

import (
	"sort"

	"github.com/mensahub/mensad/internal/logging"
	"github.com/mensahub/mensad/internal/model"
	"github.com/mensahub/mensad/util/mapst"
	"github.com/mensahub/mensad/util/slicest"
)

// MealStore is the slice of the database layer deduplication works on.
type MealStore interface {
	GetAllMeals() ([]model.Meal, error)
	GetMealByName(name string) (*model.Meal, error)
	RenameMeal(id int, name string) error
	MergeMeals(canonicalID int, duplicateIDs []int) error
}

// Preview is the result of a deduplication scan before anything is changed.
type Preview struct {
	TotalMeals int               `json:"total_meals"`
	Groups     []Group           `json:"groups"`
	Mapping    map[string]string `json:"mapping"`
}

// MergeCount is the number of meals that would disappear when the preview
// is applied.
func (p *Preview) MergeCount() int {
	return slicest.Reduce(p.Groups, func(g Group, n int) int {
		return n + len(g.Names) - 1
	})
}

// Plan scans all stored meal names and reports the duplicate groups found.
// Nothing is modified. threshold <= 0 selects DefaultThreshold.
func Plan(s MealStore, threshold float64) (*Preview, error) {
	meals, err := s.GetAllMeals()
	if err != nil {
		return nil, err
	}
	names := slicest.Map(meals, func(m model.Meal) string { return m.Name })

	groups, mapping := GroupDuplicates(names, threshold)
	return &Preview{TotalMeals: len(names), Groups: groups, Mapping: mapping}, nil
}

// Apply rewrites the database following a canonical mapping. For each group
// the canonical name is created by renaming one member if no meal carries
// it yet; the remaining members are merged into it, rewriting plan
// references. It returns how many meals were renamed and how many merged
// away.
func Apply(s MealStore, mapping map[string]string) (renamed, merged int, err error) {
	members := make(map[string][]string)
	for old, canonical := range mapping {
		if old == canonical {
			continue
		}
		members[canonical] = append(members[canonical], old)
	}

	canonicals := mapst.SortedKeys(members)

	for _, canonical := range canonicals {
		group := members[canonical]
		sort.Strings(group)

		target, err := s.GetMealByName(canonical)
		if err != nil {
			return renamed, merged, err
		}

		var dupIDs []int
		for _, old := range group {
			meal, err := s.GetMealByName(old)
			if err != nil {
				return renamed, merged, err
			}
			if meal == nil {
				continue
			}
			if target == nil {
				// No meal carries the canonical name yet; this one becomes it.
				if err := s.RenameMeal(meal.ID, canonical); err != nil {
					return renamed, merged, err
				}
				logging.Debugf("Renamed meal %d %q -> %q", meal.ID, old, canonical)
				renamed++
				target = &model.Meal{ID: meal.ID, Name: canonical}
				continue
			}
			dupIDs = append(dupIDs, meal.ID)
		}

		if target != nil && len(dupIDs) > 0 {
			if err := s.MergeMeals(target.ID, dupIDs); err != nil {
				return renamed, merged, err
			}
			logging.Debugf("Merged %d meals into %d %q", len(dupIDs), target.ID, canonical)
			merged += len(dupIDs)
		}
	}
	return renamed, merged, nil
}
