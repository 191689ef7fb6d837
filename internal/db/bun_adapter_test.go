package db

import (
	"testing"

	"github.com/mensahub/mensad/internal/model"
)

func TestUpsertMealPlan_CreateAndReplace(t *testing.T) {
	_ = newTestDB(t)

	plan := sampleWeekPlan()
	created, err := UpsertMealPlan(plan)
	if err != nil {
		t.Fatalf("UpsertMealPlan failed: %v", err)
	}
	if !created {
		t.Fatalf("expected first upsert to create the plan")
	}

	got, err := GetMealPlan(2025, 7)
	if err != nil {
		t.Fatalf("GetMealPlan failed: %v", err)
	}
	if got == nil {
		t.Fatalf("expected stored plan, got nil")
	}
	if len(got.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(got.Days))
	}
	if got.Days[0].Date != "2025-02-10" || got.Days[2].Date != "2025-02-13" {
		t.Fatalf("days not ordered by date: %+v", got.Days)
	}
	if got.Days[0].Meals[model.CategoryTagesgericht] != "Rindergulasch mit Spätzle (1,3)" {
		t.Fatalf("unexpected Tagesgericht: %q", got.Days[0].Meals[model.CategoryTagesgericht])
	}
	// Tuesday had no Wok offering; the category must be absent, not empty.
	if _, ok := got.Days[1].Meals[model.CategoryWok]; ok {
		t.Fatalf("expected no Wok entry on Tuesday")
	}

	// A refetched PDF replaces the stored week wholesale.
	updated := sampleWeekPlan()
	updated.Days[0].Meals[model.CategoryTagesgericht] = "Hähnchencurry mit Basmatireis"
	updated.Days = updated.Days[:2]
	created, err = UpsertMealPlan(updated)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if created {
		t.Fatalf("expected second upsert to replace, not create")
	}

	got, err = GetMealPlan(2025, 7)
	if err != nil {
		t.Fatalf("GetMealPlan after replace failed: %v", err)
	}
	if len(got.Days) != 2 {
		t.Fatalf("expected 2 days after replace, got %d", len(got.Days))
	}
	if got.Days[0].Meals[model.CategoryTagesgericht] != "Hähnchencurry mit Basmatireis" {
		t.Fatalf("replace did not take: %q", got.Days[0].Meals[model.CategoryTagesgericht])
	}

	// The replaced meal name stays in the meals table for dedup bookkeeping.
	old, err := GetMealByName("Rindergulasch mit Spätzle (1,3)")
	if err != nil {
		t.Fatalf("GetMealByName failed: %v", err)
	}
	if old == nil {
		t.Fatalf("expected replaced meal to remain stored")
	}

	// Storing logs an action.
	entries, err := GetAllActionLogEntries()
	if err != nil {
		t.Fatalf("GetAllActionLogEntries failed: %v", err)
	}
	foundStore := false
	for _, e := range entries {
		if e.Action == "STORE_PLAN" {
			foundStore = true
			break
		}
	}
	if !foundStore {
		t.Fatalf("expected STORE_PLAN action log entry")
	}
}

func TestGetMealPlan_MissingReturnsNil(t *testing.T) {
	_ = newTestDB(t)

	got, err := GetMealPlan(2031, 14)
	if err != nil {
		t.Fatalf("unexpected error for missing plan: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing plan, got %+v", got)
	}

	latest, err := GetLatestMealPlan()
	if err != nil {
		t.Fatalf("unexpected error for empty database: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil latest plan on empty database")
	}
}

func TestGetLatestMealPlan_PicksNewestWeek(t *testing.T) {
	_ = newTestDB(t)

	older := sampleWeekPlan()
	if _, err := UpsertMealPlan(older); err != nil {
		t.Fatalf("upsert older plan: %v", err)
	}
	newer := sampleWeekPlan()
	newer.Week = 8
	newer.Days = []model.Day{
		{
			Date:    "2025-02-17",
			Weekday: "Montag",
			Meals:   map[model.Category]string{model.CategoryTagesgericht: "Königsberger Klopse"},
		},
	}
	if _, err := UpsertMealPlan(newer); err != nil {
		t.Fatalf("upsert newer plan: %v", err)
	}

	latest, err := GetLatestMealPlan()
	if err != nil {
		t.Fatalf("GetLatestMealPlan failed: %v", err)
	}
	if latest == nil || latest.Week != 8 {
		t.Fatalf("expected latest plan to be week 8, got %+v", latest)
	}
}

func TestListPlanWeeks(t *testing.T) {
	_ = newTestDB(t)

	if _, err := UpsertMealPlan(sampleWeekPlan()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second := sampleWeekPlan()
	second.Week = 8
	second.Days = second.Days[:1]
	if _, err := UpsertMealPlan(second); err != nil {
		t.Fatalf("upsert second: %v", err)
	}

	weeks, err := ListPlanWeeks()
	if err != nil {
		t.Fatalf("ListPlanWeeks failed: %v", err)
	}
	if len(weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(weeks))
	}
	if weeks[0].Week != 8 || weeks[1].Week != 7 {
		t.Fatalf("expected newest week first, got %+v", weeks)
	}
	if weeks[0].Days != 1 || weeks[1].Days != 3 {
		t.Fatalf("unexpected day counts: %+v", weeks)
	}
	if weeks[1].Key() != "KW 07/2025" {
		t.Fatalf("unexpected week key: %s", weeks[1].Key())
	}
}

func TestDeleteMealPlan(t *testing.T) {
	_ = newTestDB(t)

	if _, err := UpsertMealPlan(sampleWeekPlan()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := DeleteMealPlan(2025, 7); err != nil {
		t.Fatalf("DeleteMealPlan failed: %v", err)
	}
	got, err := GetMealPlan(2025, 7)
	if err != nil {
		t.Fatalf("GetMealPlan after delete failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected plan to be gone after delete")
	}
	days, err := CountDays()
	if err != nil {
		t.Fatalf("CountDays failed: %v", err)
	}
	if days != 0 {
		t.Fatalf("expected no plan days after delete, got %d", days)
	}

	// Deleting a week that does not exist is not an error.
	if err := DeleteMealPlan(2030, 1); err != nil {
		t.Fatalf("deleting missing week should not error: %v", err)
	}
}

func TestMergeMeals_RepointsReferences(t *testing.T) {
	_ = newTestDB(t)

	plan := sampleWeekPlan()
	// Two spellings of the same dish on different days.
	plan.Days[0].Meals[model.CategoryTagesgericht] = "Rindergulasch mit Spätzle (1,3)"
	plan.Days[1].Meals[model.CategoryTagesgericht] = "Rindergulasch mit Spätzle"
	if _, err := UpsertMealPlan(plan); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	canonical, err := GetMealByName("Rindergulasch mit Spätzle")
	if err != nil || canonical == nil {
		t.Fatalf("canonical meal lookup failed: %v %v", canonical, err)
	}
	dup, err := GetMealByName("Rindergulasch mit Spätzle (1,3)")
	if err != nil || dup == nil {
		t.Fatalf("duplicate meal lookup failed: %v %v", dup, err)
	}

	if err := MergeMeals(canonical.ID, []int{dup.ID}); err != nil {
		t.Fatalf("MergeMeals failed: %v", err)
	}

	// The duplicate row is gone and both days now reference the canonical name.
	gone, err := GetMealByName("Rindergulasch mit Spätzle (1,3)")
	if err != nil {
		t.Fatalf("lookup after merge failed: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected duplicate meal to be deleted after merge")
	}
	got, err := GetMealPlan(2025, 7)
	if err != nil {
		t.Fatalf("GetMealPlan failed: %v", err)
	}
	for _, day := range got.Days[:2] {
		if day.Meals[model.CategoryTagesgericht] != "Rindergulasch mit Spätzle" {
			t.Fatalf("day %s still references old name: %q", day.Date, day.Meals[model.CategoryTagesgericht])
		}
	}

	// Merging with an empty duplicate list is a no-op.
	if err := MergeMeals(canonical.ID, nil); err != nil {
		t.Fatalf("empty merge should not error: %v", err)
	}
}

func TestCountMealUsage_OrphansAndCategories(t *testing.T) {
	_ = newTestDB(t)

	if _, err := UpsertMealPlan(sampleWeekPlan()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	s := store.(*SqliteStore)
	if _, err := GetOrCreateMealBun(s.bun, "Verwaistes Gericht"); err != nil {
		t.Fatalf("create orphan meal: %v", err)
	}

	usage, err := CountMealUsage()
	if err != nil {
		t.Fatalf("CountMealUsage failed: %v", err)
	}
	byName := make(map[string]int, len(usage))
	for _, u := range usage {
		byName[u.Name] = u.Count
	}
	if byName["Rindergulasch mit Spätzle (1,3)"] != 1 {
		t.Fatalf("expected usage 1 for Rindergulasch, got %d", byName["Rindergulasch mit Spätzle (1,3)"])
	}
	if byName["Verwaistes Gericht"] != 0 {
		t.Fatalf("expected usage 0 for orphan, got %d", byName["Verwaistes Gericht"])
	}
	// Sorted most used first; the orphan must come last among these.
	if usage[len(usage)-1].Count > usage[0].Count {
		t.Fatalf("usage not sorted descending")
	}

	orphans, err := OrphanedMeals()
	if err != nil {
		t.Fatalf("OrphanedMeals failed: %v", err)
	}
	if len(orphans) != 1 || orphans[0].Name != "Verwaistes Gericht" {
		t.Fatalf("unexpected orphans: %+v", orphans)
	}

	cats, err := CategoryUsage()
	if err != nil {
		t.Fatalf("CategoryUsage failed: %v", err)
	}
	if cats[model.CategoryTagesgericht] != 3 {
		t.Fatalf("expected 3 Tagesgericht days, got %d", cats[model.CategoryTagesgericht])
	}
	if cats[model.CategoryWok] != 2 {
		t.Fatalf("expected 2 Wok days, got %d", cats[model.CategoryWok])
	}

	top, err := MostServedMeals(2)
	if err != nil {
		t.Fatalf("MostServedMeals failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 top meals, got %d", len(top))
	}
	for _, u := range top {
		if u.Count == 0 {
			t.Fatalf("MostServedMeals returned unreferenced meal: %+v", u)
		}
	}
}

func TestSearchAndFilterMeals(t *testing.T) {
	_ = newTestDB(t)

	if _, err := UpsertMealPlan(sampleWeekPlan()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	s := store.(*SqliteStore)

	found, err := SearchMealsBun(s.bun, "gulasch")
	if err != nil {
		t.Fatalf("SearchMealsBun failed: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Rindergulasch mit Spätzle (1,3)" {
		t.Fatalf("unexpected search result: %+v", found)
	}

	// Empty query returns everything.
	all, err := SearchMealsBun(s.bun, "")
	if err != nil {
		t.Fatalf("empty search failed: %v", err)
	}
	total, _ := CountMeals()
	if len(all) != total {
		t.Fatalf("expected %d meals from empty search, got %d", total, len(all))
	}

	// Expression filter: anything with Hähnchen that is not a Wok dish.
	filtered, err := FilterMealsByExpressionBun(s.bun, "hähnchen & !nudeln")
	if err != nil {
		t.Fatalf("FilterMealsByExpressionBun failed: %v", err)
	}
	if len(filtered) != 0 {
		t.Fatalf("expected no match (only Hähnchen dish is a noodle dish), got %+v", filtered)
	}
	filtered, err = FilterMealsByExpressionBun(s.bun, "hähnchen | lachs")
	if err != nil {
		t.Fatalf("FilterMealsByExpressionBun failed: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 matches for hähnchen|lachs, got %+v", filtered)
	}

	if _, err := FilterMealsByExpressionBun(s.bun, "bad word"); err == nil {
		t.Fatalf("expected invalid expression to error")
	}
}
