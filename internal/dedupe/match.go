// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package dedupe

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultThreshold is the overall similarity a pair of normalized names
// needs to be considered duplicates.
const DefaultThreshold = 0.88

// ratio is the character-level similarity of two strings in [0, 1].
func ratio(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

// proteinGroups holds one keyword group per animal protein, written in the
// folded form Normalize produces.
var proteinGroups = [][]string{
	{"rind", "rindfleisch", "beef"},
	{"schwein", "schweinefleisch", "pork"},
	{"haehnchen", "huhn", "huehnchen", "gefluegel", "pute", "chicken", "poultry"},
	{"lamm", "lammfleisch", "lamb"},
	{"fisch", "fish", "lachs", "seelachs", "thunfisch"},
}

// proteinType returns the index of the protein group mentioned in text, or
// -1 when none is.
func proteinType(text string) int {
	lower := strings.ToLower(text)
	for i, group := range proteinGroups {
		for _, kw := range group {
			if strings.Contains(lower, kw) {
				return i
			}
		}
	}
	return -1
}

// AreDuplicates reports whether two meal names describe the same meal.
// Names naming different proteins never match. threshold <= 0 selects
// DefaultThreshold.
func AreDuplicates(a, b string, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	normA, _, _ := Normalize(a)
	normB, _, _ := Normalize(b)

	pa, pb := proteinType(normA), proteinType(normB)
	if pa >= 0 && pb >= 0 && pa != pb {
		return false
	}

	if normA == normB {
		return true
	}
	if ratio(normA, normB) >= 0.95 {
		return true
	}

	dishA := foldUmlauts(strings.ToLower(DishName(a)))
	dishB := foldUmlauts(strings.ToLower(DishName(b)))
	if len(dishA) > 5 {
		if dishA == dishB {
			return true
		}
		if ratio(dishA, dishB) >= 0.90 {
			return true
		}
	}

	if ratio(normA, normB) >= threshold {
		return true
	}

	mainA, _ := MainComponents(normA)
	mainB, _ := MainComponents(normB)
	return ratio(mainA, mainB) >= 0.92
}

// Group is one set of duplicate meal names and the canonical name chosen
// for them.
type Group struct {
	Canonical string   `json:"canonical"`
	Names     []string `json:"names"`
}

// GroupDuplicates partitions names into duplicate groups. Names are
// compared against each group's first member, so grouping is greedy over
// the sorted input. The returned mapping assigns every grouped name its
// canonical replacement.
func GroupDuplicates(names []string, threshold float64) ([]Group, map[string]string) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	processed := make(map[string]bool, len(sorted))
	var groups []Group

	for i, seed := range sorted {
		if processed[seed] {
			continue
		}
		processed[seed] = true

		group := []string{seed}
		for _, cand := range sorted[i+1:] {
			if processed[cand] {
				continue
			}
			if AreDuplicates(seed, cand, threshold) {
				group = append(group, cand)
				processed[cand] = true
			}
		}
		if len(group) > 1 {
			groups = append(groups, Group{Canonical: ChooseCanonical(group), Names: group})
		}
	}

	mapping := make(map[string]string)
	for _, g := range groups {
		for _, n := range g.Names {
			mapping[n] = g.Canonical
		}
	}
	return groups, mapping
}

var ingredientWords = []string{"Gemüse", "Reis", "Kartoffeln", "Sauce"}

// ChooseCanonical picks the best display name for a group of duplicates.
// It scores the cleaned variants: more words, "dazu"/"mit" phrasing and
// named ingredients score up, distance from an ideal length of 70 and
// formatting artifacts score down. Ties go to the longer name.
func ChooseCanonical(names []string) string {
	type scored struct {
		score  float64
		length int
		clean  string
	}

	list := make([]scored, 0, len(names))
	for _, name := range names {
		_, _, clean := Normalize(name)
		lower := strings.ToLower(clean)

		score := float64(len(strings.Fields(clean)) * 2)
		if strings.Contains(lower, "dazu") {
			score += 10
		}
		if strings.Contains(lower, "mit") {
			score += 5
		}

		length := utf8.RuneCountInString(clean)
		score -= math.Abs(float64(length-70)) * 0.05

		if !strings.Contains(clean, "  ") {
			score += 2
		}
		if strings.Count(clean, "-") <= 2 {
			score++
		}
		for _, w := range ingredientWords {
			if strings.Contains(clean, w) {
				score += 3
				break
			}
		}

		list = append(list, scored{score: score, length: length, clean: clean})
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		return list[i].length > list[j].length
	})
	return list[0].clean
}
