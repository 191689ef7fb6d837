// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// Package analyze builds a statistics report over the stored meal data:
// how names are distributed, which duplicate patterns exist and which
// entries are not meals at all. The report is what the dedupe threshold
// gets judged against before anyone runs an apply.
package analyze

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mensahub/mensad/internal/dedupe"
	"github.com/mensahub/mensad/internal/model"
	"github.com/mensahub/mensad/util/slicest"
)

var (
	tokenSepRe   = regexp.MustCompile(`[\s,]+`)
	simpleCodeRe = regexp.MustCompile(`^[a-z][0-9]?$`)
)

const (
	topWordLimit    = 20
	mostServedLimit = 15
)

// StatsStore is the slice of the database layer the report reads from.
type StatsStore interface {
	CountPlans() (int, error)
	CountDays() (int, error)
	CountMeals() (int, error)
	GetAllMeals() ([]model.Meal, error)
	MostServedMeals(limit int) ([]model.MealUsage, error)
	OrphanedMeals() ([]model.Meal, error)
	CategoryUsage() (map[model.Category]int, error)
}

// WordCount is one word with its occurrence count.
type WordCount struct {
	Word  string
	Count int
}

// KeywordCount is one tracked keyword with the number of meal names
// mentioning it.
type KeywordCount struct {
	Keyword string
	Count   int
}

// NameLengths describes the distribution of meal name lengths in runes.
type NameLengths struct {
	Min     int
	Max     int
	Median  int
	Average float64
}

// NormGroup is a set of meal names that collapse onto the same simple
// normalization.
type NormGroup struct {
	Normalized string
	Names      []string
}

// Report is the full analysis result.
type Report struct {
	Plans int
	Days  int
	Meals int

	WithAllergens int

	TopWords        []WordCount
	NameLengths     NameLengths
	DuplicateGroups []NormGroup
	SpecialEntries  []KeywordCount
	Proteins        []KeywordCount
	Sides           []KeywordCount
	MostServed      []model.MealUsage
	Orphaned        int
	CategoryUsage   map[model.Category]int
}

// DuplicateMealCount is the number of meals involved in any duplicate
// group.
func (r *Report) DuplicateMealCount() int {
	return slicest.Reduce(r.DuplicateGroups, func(g NormGroup, n int) int {
		return n + len(g.Names)
	})
}

var (
	specialKeywords = []string{"Feiertag", "geschlossen", "Mensa", "Kiosk", "Weihnachten", "Ferien"}
	proteinKeywords = []string{"Hähnchen", "Geflügel", "Rind", "Schwein", "Fisch", "Vegetarisch", "Vegan"}
	sideKeywords    = []string{"Reis", "Kartoffeln", "Pommes", "Nudeln", "Spätzle", "Püree", "Salzkartoffeln"}
)

// Run reads the store and assembles the report.
func Run(s StatsStore) (*Report, error) {
	r := &Report{}
	var err error

	if r.Plans, err = s.CountPlans(); err != nil {
		return nil, err
	}
	if r.Days, err = s.CountDays(); err != nil {
		return nil, err
	}
	if r.Meals, err = s.CountMeals(); err != nil {
		return nil, err
	}

	meals, err := s.GetAllMeals()
	if err != nil {
		return nil, err
	}
	names := slicest.Map(meals, func(m model.Meal) string { return m.Name })

	for _, name := range names {
		if _, codes, _ := dedupe.Normalize(name); len(codes) > 0 {
			r.WithAllergens++
		}
	}

	r.TopWords = topWords(names, topWordLimit)
	r.NameLengths = nameLengths(names)
	r.DuplicateGroups = duplicateGroups(names)
	r.SpecialEntries = countKeywords(names, specialKeywords)
	r.Proteins = sortedByCount(countKeywords(names, proteinKeywords))
	r.Sides = sortedByCount(countKeywords(names, sideKeywords))

	if r.MostServed, err = s.MostServedMeals(mostServedLimit); err != nil {
		return nil, err
	}
	orphans, err := s.OrphanedMeals()
	if err != nil {
		return nil, err
	}
	r.Orphaned = len(orphans)

	if r.CategoryUsage, err = s.CategoryUsage(); err != nil {
		return nil, err
	}
	return r, nil
}

func topWords(names []string, limit int) []WordCount {
	freq := make(map[string]int)
	for _, name := range names {
		for _, w := range strings.Fields(strings.ToLower(name)) {
			freq[w]++
		}
	}

	out := make([]WordCount, 0, len(freq))
	for w, c := range freq {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func nameLengths(names []string) NameLengths {
	if len(names) == 0 {
		return NameLengths{}
	}

	lengths := make([]int, len(names))
	sum := 0
	for i, name := range names {
		lengths[i] = utf8.RuneCountInString(name)
		sum += lengths[i]
	}
	sort.Ints(lengths)

	return NameLengths{
		Min:     lengths[0],
		Max:     lengths[len(lengths)-1],
		Median:  lengths[len(lengths)/2],
		Average: float64(sum) / float64(len(lengths)),
	}
}

// normalizeSimple lowercases a name and drops standalone allergen code
// tokens. Coarser than dedupe.Normalize: parenthesised markers and number
// codes stay, so only near-exact spelling variants group together.
func normalizeSimple(name string) string {
	var kept []string
	for _, tok := range tokenSepRe.Split(strings.ToLower(name), -1) {
		if tok == "" || simpleCodeRe.MatchString(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

func duplicateGroups(names []string) []NormGroup {
	byNorm := make(map[string][]string)
	for _, name := range names {
		norm := normalizeSimple(name)
		byNorm[norm] = append(byNorm[norm], name)
	}

	var groups []NormGroup
	for norm, members := range byNorm {
		if len(members) < 2 {
			continue
		}
		sort.Strings(members)
		groups = append(groups, NormGroup{Normalized: norm, Names: members})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Normalized < groups[j].Normalized })
	return groups
}

func countKeywords(names, keywords []string) []KeywordCount {
	return slicest.Map(keywords, func(kw string) KeywordCount {
		kc := KeywordCount{Keyword: kw}
		lowerKw := strings.ToLower(kw)
		for _, name := range names {
			if strings.Contains(strings.ToLower(name), lowerKw) {
				kc.Count++
			}
		}
		return kc
	})
}

func sortedByCount(counts []KeywordCount) []KeywordCount {
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts
}
