// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package dedupe

import (
	"regexp"
	"sort"
	"strings"
)

var (
	tokenSepRe   = regexp.MustCompile(`[\s,]+`)
	letterCodeRe = regexp.MustCompile(`^[a-z][0-9]?$`)
	numberCodeRe = regexp.MustCompile(`^[0-9]$`)
	parenRe      = regexp.MustCompile(`\([^)]*\)`)
	ampRe        = regexp.MustCompile(`\s*&\s*`)
	dashRe       = regexp.MustCompile(`\s*-\s*`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

var umlautFolder = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")

func foldUmlauts(s string) string {
	return umlautFolder.Replace(s)
}

// Normalize strips allergen and additive codes from a meal name. It returns
// the comparison form (lowercased, umlauts folded), the sorted set of codes
// found, and the cleaned display name with codes and parenthesised markers
// removed. Codes are standalone tokens like "a", "a1" or "3" delimited by
// commas or whitespace.
func Normalize(name string) (normalized string, codes []string, clean string) {
	if name == "" {
		return "", nil, ""
	}

	var kept []string
	for _, tok := range tokenSepRe.Split(name, -1) {
		if tok == "" {
			continue
		}
		if letterCodeRe.MatchString(tok) || numberCodeRe.MatchString(tok) {
			codes = append(codes, tok)
			continue
		}
		kept = append(kept, tok)
	}

	stripped := strings.Join(kept, " ")
	stripped = parenRe.ReplaceAllString(stripped, " ")
	stripped = ampRe.ReplaceAllString(stripped, " ")
	stripped = spaceRe.ReplaceAllString(stripped, " ")
	stripped = strings.TrimSpace(stripped)

	clean = dashRe.ReplaceAllString(stripped, " ")
	clean = spaceRe.ReplaceAllString(clean, " ")
	clean = strings.Trim(clean, " ,-")

	normalized = foldUmlauts(strings.ToLower(clean))

	if len(codes) > 0 {
		sort.Strings(codes)
		codes = compactStrings(codes)
	}
	return normalized, codes, clean
}

func compactStrings(s []string) []string {
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// DishName extracts the dish part of a meal name, before ingredients and
// sides. Wok dishes keep their two-word name ("Wok Jakarta") or everything
// up to and including "Wok" ("Power Sweet Wok"); other names cut at the
// first separator word or fall back to the first three words.
func DishName(name string) string {
	_, _, clean := Normalize(name)

	if strings.Contains(strings.ToLower(clean), "wok") {
		words := strings.Fields(clean)
		wokIdx := -1
		for i, w := range words {
			if strings.EqualFold(w, "wok") {
				wokIdx = i
				break
			}
		}
		if wokIdx == 0 && len(words) > 1 {
			return strings.Join(words[:2], " ")
		}
		if wokIdx > 0 {
			return strings.Join(words[:wokIdx+1], " ")
		}
	}

	words := strings.Fields(clean)
	if len(words) <= 3 {
		return clean
	}
	for i, w := range words {
		switch strings.ToLower(w) {
		case "mit", "dazu", "in", "an":
			if i > 0 {
				return strings.Join(words[:i], " ")
			}
		}
	}
	return strings.Join(words[:3], " ")
}

var componentSeparators = []string{"dazu", "mit", "und", ",", "an", "in", "auf"}

// MainComponents splits a meal name into the core dish and its sides at the
// first separator word. The match is positional, not word-aware, mirroring
// how the plans phrase their side dishes.
func MainComponents(name string) (main, sides string) {
	lower := strings.ToLower(name)

	first := len(name)
	for _, sep := range componentSeparators {
		if pos := strings.Index(lower, sep); pos > 0 && pos < first {
			first = pos
		}
	}

	main = strings.TrimSpace(name[:first])
	if first < len(name) {
		sides = strings.TrimSpace(name[first:])
	}
	return main, sides
}
