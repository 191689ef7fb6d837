// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package dedupe

import "testing"

func TestAreDuplicates_AllergenVariants(t *testing.T) {
	if !AreDuplicates("Rindergulasch mit Spätzle a, c", "Rindergulasch mit Spätzle", 0) {
		t.Fatal("allergen code variant should be a duplicate")
	}
}

func TestAreDuplicates_ProteinGuard(t *testing.T) {
	if AreDuplicates("Gulasch vom Rind mit Nudeln", "Gulasch vom Schwein mit Nudeln", 0) {
		t.Fatal("different proteins must never merge")
	}
	// Umlaut names detect their protein after folding.
	if AreDuplicates("Hähnchenbrust mit Reis", "Lachsfilet mit Reis", 0) {
		t.Fatal("poultry and fish must never merge")
	}
}

func TestAreDuplicates_SameProteinDifferentDish(t *testing.T) {
	if AreDuplicates("Hähnchencurry mit Reis", "Putencurry mit Reis", 0) {
		t.Fatal("different dishes with the same protein should not merge")
	}
}

func TestAreDuplicates_ExtendedSides(t *testing.T) {
	// Same dish name, one listing more sides.
	if !AreDuplicates("Hähnchenschnitzel mit Pommes", "Hähnchenschnitzel mit Pommes und Salat", 0) {
		t.Fatal("extended sides variant should be a duplicate")
	}
}

func TestAreDuplicates_WokName(t *testing.T) {
	if !AreDuplicates("Wok Jakarta Gemüse mit Reis", "Wok Jakarta Hähnchen dazu Nudeln", 0) {
		t.Fatal("same wok name should be a duplicate")
	}
}

func TestAreDuplicates_ThresholdTightens(t *testing.T) {
	a := "Putengeschnetzeltes Rahmsauce Reis"
	b := "Putengeschnetzeltes Rahmsauce Nudeln"
	if !AreDuplicates(a, b, 0) {
		t.Fatal("expected a duplicate at the default threshold")
	}
	if AreDuplicates(a, b, 0.95) {
		t.Fatal("expected no duplicate at threshold 0.95")
	}
}

func TestGroupDuplicates(t *testing.T) {
	names := []string{
		"Wok Jakarta Hähnchen dazu Nudeln",
		"Rindergulasch mit Spätzle a, c",
		"Käsespätzle",
		"Rindergulasch mit Spätzle",
		"Wok Jakarta Gemüse mit Reis",
	}

	groups, mapping := GroupDuplicates(names, 0)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d: %+v", len(groups), groups)
	}

	if groups[0].Canonical != "Rindergulasch mit Spätzle" {
		t.Errorf("unexpected canonical for group 0: %q", groups[0].Canonical)
	}
	if len(groups[0].Names) != 2 {
		t.Errorf("unexpected group 0 members: %v", groups[0].Names)
	}
	if groups[1].Canonical != "Wok Jakarta Hähnchen dazu Nudeln" {
		t.Errorf("unexpected canonical for group 1: %q", groups[1].Canonical)
	}

	if got := mapping["Rindergulasch mit Spätzle a, c"]; got != "Rindergulasch mit Spätzle" {
		t.Errorf("mapping for code variant = %q", got)
	}
	if got := mapping["Wok Jakarta Gemüse mit Reis"]; got != "Wok Jakarta Hähnchen dazu Nudeln" {
		t.Errorf("mapping for wok variant = %q", got)
	}
	if _, ok := mapping["Käsespätzle"]; ok {
		t.Error("ungrouped name must not appear in the mapping")
	}
}

func TestChooseCanonical(t *testing.T) {
	got := ChooseCanonical([]string{"Gulasch a, c", "Gulasch dazu Reis"})
	if got != "Gulasch dazu Reis" {
		t.Fatalf("expected the complete description, got %q", got)
	}

	// The canonical name never carries allergen codes.
	got = ChooseCanonical([]string{"Pizza Salami a", "Pizza Salami"})
	if got != "Pizza Salami" {
		t.Fatalf("expected codes stripped, got %q", got)
	}
}
