// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package analyze

import (
	"math"
	"reflect"
	"testing"

	"github.com/mensahub/mensad/internal/model"
)

type fakeStats struct {
	meals      []model.Meal
	usageLimit int
}

func (f *fakeStats) CountPlans() (int, error) { return 4, nil }
func (f *fakeStats) CountDays() (int, error)  { return 20, nil }
func (f *fakeStats) CountMeals() (int, error) { return len(f.meals), nil }

func (f *fakeStats) GetAllMeals() ([]model.Meal, error) { return f.meals, nil }

func (f *fakeStats) MostServedMeals(limit int) ([]model.MealUsage, error) {
	f.usageLimit = limit
	return []model.MealUsage{{ID: 1, Name: "Käsespätzle", Count: 9}}, nil
}

func (f *fakeStats) OrphanedMeals() ([]model.Meal, error) {
	return []model.Meal{{ID: 7, Name: "Altes Gericht"}, {ID: 8, Name: "Noch eins"}}, nil
}

func (f *fakeStats) CategoryUsage() (map[model.Category]int, error) {
	return map[model.Category]int{
		model.CategoryTagesgericht: 20,
		model.CategoryVegetarisch:  18,
		model.CategoryPizzaPasta:   15,
		model.CategoryWok:          12,
	}, nil
}

func sampleStats() *fakeStats {
	return &fakeStats{meals: []model.Meal{
		{ID: 1, Name: "Rindergulasch mit Spätzle a, c"},
		{ID: 2, Name: "Rindergulasch mit Spätzle"},
		{ID: 3, Name: "Hähnchenbrust mit Reis"},
		{ID: 4, Name: "Feiertag - Mensa geschlossen"},
		{ID: 5, Name: "Käsespätzle"},
		{ID: 6, Name: "Pommes rot-weiß"},
	}}
}

func TestRun(t *testing.T) {
	s := sampleStats()
	r, err := Run(s)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if r.Plans != 4 || r.Days != 20 || r.Meals != 6 {
		t.Errorf("counts = %d/%d/%d, want 4/20/6", r.Plans, r.Days, r.Meals)
	}
	if r.WithAllergens != 1 {
		t.Errorf("WithAllergens = %d, want 1", r.WithAllergens)
	}

	if len(r.TopWords) != 14 {
		t.Fatalf("expected 14 distinct words, got %d: %v", len(r.TopWords), r.TopWords)
	}
	wantTop := []WordCount{{"mit", 3}, {"rindergulasch", 2}, {"spätzle", 2}}
	if !reflect.DeepEqual(r.TopWords[:3], wantTop) {
		t.Errorf("top words = %v, want %v", r.TopWords[:3], wantTop)
	}

	if r.NameLengths.Min != 11 || r.NameLengths.Max != 30 || r.NameLengths.Median != 25 {
		t.Errorf("name lengths = %+v", r.NameLengths)
	}
	if math.Abs(r.NameLengths.Average-131.0/6.0) > 0.001 {
		t.Errorf("average length = %f", r.NameLengths.Average)
	}

	if len(r.DuplicateGroups) != 1 {
		t.Fatalf("expected 1 duplicate group, got %+v", r.DuplicateGroups)
	}
	g := r.DuplicateGroups[0]
	if g.Normalized != "rindergulasch mit spätzle" || len(g.Names) != 2 {
		t.Errorf("unexpected group: %+v", g)
	}
	if r.DuplicateMealCount() != 2 {
		t.Errorf("DuplicateMealCount = %d, want 2", r.DuplicateMealCount())
	}

	wantSpecial := []KeywordCount{
		{"Feiertag", 1}, {"geschlossen", 1}, {"Mensa", 1},
		{"Kiosk", 0}, {"Weihnachten", 0}, {"Ferien", 0},
	}
	if !reflect.DeepEqual(r.SpecialEntries, wantSpecial) {
		t.Errorf("special entries = %v", r.SpecialEntries)
	}

	if r.Proteins[0] != (KeywordCount{"Rind", 2}) || r.Proteins[1] != (KeywordCount{"Hähnchen", 1}) {
		t.Errorf("proteins = %v", r.Proteins)
	}
	if r.Sides[0] != (KeywordCount{"Spätzle", 3}) || r.Sides[1] != (KeywordCount{"Reis", 1}) || r.Sides[2] != (KeywordCount{"Pommes", 1}) {
		t.Errorf("sides = %v", r.Sides)
	}

	if s.usageLimit != 15 {
		t.Errorf("MostServedMeals limit = %d, want 15", s.usageLimit)
	}
	if len(r.MostServed) != 1 || r.MostServed[0].Name != "Käsespätzle" {
		t.Errorf("most served = %v", r.MostServed)
	}
	if r.Orphaned != 2 {
		t.Errorf("Orphaned = %d, want 2", r.Orphaned)
	}
	if r.CategoryUsage[model.CategoryWok] != 12 {
		t.Errorf("category usage = %v", r.CategoryUsage)
	}
}

func TestRunEmptyStore(t *testing.T) {
	r, err := Run(&fakeStats{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if r.Meals != 0 || r.WithAllergens != 0 {
		t.Errorf("unexpected counts: %+v", r)
	}
	if r.NameLengths != (NameLengths{}) {
		t.Errorf("expected zero length stats, got %+v", r.NameLengths)
	}
	if len(r.DuplicateGroups) != 0 || len(r.TopWords) != 0 {
		t.Errorf("expected empty distributions, got %+v", r)
	}
}

func TestNormalizeSimple(t *testing.T) {
	cases := map[string]string{
		"Rindergulasch mit Spätzle a, c": "rindergulasch mit spätzle",
		"Käsespätzle a1":                 "käsespätzle",
		"Pommes (1,3)":                   "pommes (1 3)",
		"":                               "",
	}
	for in, want := range cases {
		if got := normalizeSimple(in); got != want {
			t.Errorf("normalizeSimple(%q) = %q, want %q", in, got, want)
		}
	}
}
