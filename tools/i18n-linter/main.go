// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the translation catalogs against the source tree.
// It collects the message IDs the Go code uses, compares them with the
// YAML locale files and reports orphaned keys, keys missing from
// secondary locales and string literals that look like they should be
// translated. Log output is deliberately English only, so the known
// logging helpers are not scanned.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

// location points at the source line a literal was found on.
type location struct {
	path string
	line int
}

func main() {
	fmt.Println("🔍 Running i18n linter...")

	usedKeys, err := findUsedKeys(projectRoot)
	if err != nil {
		fmt.Printf("❌ Error scanning source for message IDs: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Found %d unique message IDs in source code.\n", len(usedKeys))

	localeFiles, err := filepath.Glob(filepath.Join(localesDir, "*.yaml"))
	if err != nil {
		fmt.Printf("❌ Error finding locale files: %v\n", err)
		os.Exit(1)
	}

	primaryKeys, err := loadKeysFromLocale(filepath.Join(localesDir, primaryLocale))
	if err != nil {
		fmt.Printf("❌ Error loading primary locale %s: %v\n", primaryLocale, err)
		os.Exit(1)
	}
	fmt.Printf("✅ Loaded %d keys from primary locale (%s).\n\n", len(primaryKeys), primaryLocale)

	hasOrphaned := reportOrphanedKeys(primaryKeys, usedKeys)
	hasMissing := reportMissingKeys(localeFiles, primaryKeys)
	reportUntranslated(projectRoot, primaryKeys)

	fmt.Println("\n--- Linter finished ---")
	switch {
	case hasMissing:
		fmt.Println("❌ Found issues that need to be addressed.")
		os.Exit(1)
	case hasOrphaned:
		fmt.Println("⚠️  Found orphaned keys. Consider removing them.")
	default:
		fmt.Println("✅ All translation catalogs are consistent!")
	}
}

// reportOrphanedKeys lists keys the primary catalog carries but no source
// file references.
func reportOrphanedKeys(primaryKeys, usedKeys map[string]struct{}) bool {
	fmt.Println("--- Orphaned keys (in primary locale, unused in code) ---")
	var orphaned []string
	for key := range primaryKeys {
		if _, ok := usedKeys[key]; !ok {
			orphaned = append(orphaned, key)
		}
	}
	sort.Strings(orphaned)
	for _, key := range orphaned {
		fmt.Printf("  - Orphaned: %s\n", key)
	}
	if len(orphaned) == 0 {
		fmt.Println("  ✨ None found.")
	}
	fmt.Println()
	return len(orphaned) > 0
}

// reportMissingKeys compares each secondary locale against the primary
// one and lists keys it lacks.
func reportMissingKeys(localeFiles []string, primaryKeys map[string]struct{}) bool {
	fmt.Println("--- Missing keys (in primary locale, absent from others) ---")
	anyMissing := false
	for _, file := range localeFiles {
		if filepath.Base(file) == primaryLocale {
			continue
		}

		fmt.Printf("Checking %s:\n", file)
		secondaryKeys, err := loadKeysFromLocale(file)
		if err != nil {
			fmt.Printf("  - ❌ Error loading %s: %v\n", file, err)
			anyMissing = true
			continue
		}

		var missing []string
		for key := range primaryKeys {
			if _, ok := secondaryKeys[key]; !ok {
				missing = append(missing, key)
			}
		}
		sort.Strings(missing)
		for _, key := range missing {
			fmt.Printf("  - Missing: %s\n", key)
			anyMissing = true
		}
		if len(missing) == 0 {
			fmt.Println("  ✨ All keys present.")
		}
	}
	return anyMissing
}

// reportUntranslated prints literals that look like user-facing text. The
// result is advisory; false positives are expected and the exit code is
// not affected.
func reportUntranslated(root string, primaryKeys map[string]struct{}) {
	untranslated, err := findUntranslatedStrings(root, primaryKeys)
	if err != nil {
		fmt.Printf("❌ Error scanning for untranslated strings: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n--- Potentially untranslated strings ---")
	if len(untranslated) == 0 {
		fmt.Println("  ✨ None found.")
		return
	}

	var literals []string
	for literal := range untranslated {
		literals = append(literals, literal)
	}
	sort.Strings(literals)
	for _, literal := range literals {
		loc := untranslated[literal][0]
		fmt.Printf("  - Potential: %q (found in %s:%d)\n", literal, loc.path, loc.line)
	}
}

// skipDir reports whether a directory is outside the lint scope. The tool
// follows the Go toolchain convention of ignoring dot and underscore
// directories, and skips vendor trees and itself.
func skipDir(name string) bool {
	if name == "." {
		return false
	}
	if name == "tools" || name == "vendor" {
		return true
	}
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// findUsedKeys scans the non-test Go sources for message IDs. Both direct
// i18n.T("...") calls and bare dotted literals count, so IDs passed
// through variables and helper closures are still seen.
func findUsedKeys(root string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	re := regexp.MustCompile(`i18n\.T\("([^"]+)"|\"([a-z]+\.[a-z\._]+)\"`)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if skipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, match := range re.FindAllStringSubmatch(string(content), -1) {
			if match[1] != "" {
				keys[match[1]] = struct{}{}
			} else if match[2] != "" {
				keys[match[2]] = struct{}{}
			}
		}
		return nil
	})

	return keys, err
}

// Call sites whose string arguments never reach the user in translated
// form. The logging helpers stay English on purpose.
var blacklistedFuncs = map[string]struct{}{
	"Print":       {},
	"Println":     {},
	"Printf":      {},
	"Fatal":       {},
	"Fatalf":      {},
	"WriteString": {},
	"Debugf":      {},
	"Infof":       {},
	"Warnf":       {},
	"Errorf":      {},
}

var (
	funcCallRe = regexp.MustCompile(`([a-zA-Z0-9_]+\.)?([a-zA-Z0-9_]+)\("([^"]+)"`)
	keyLikeRe  = regexp.MustCompile(`^[a-z_]+\.[a-z\._]+$`)
	allCapsRe  = regexp.MustCompile(`^[A-Z_]+$`)
	formatRe   = regexp.MustCompile(`^[\s%.,:;()#\d\w-]*%[\s\w-]*$`)
)

var sqlKeywords = []string{
	"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "TRUNCATE ",
	"PRAGMA ", "CREATE ", "ALTER ", "DROP ", "VACUUM",
}

// findUntranslatedStrings scans for hardcoded literals that look like
// user-facing text. A stack of heuristics filters out message IDs, SQL,
// DSNs, time layouts and format-only strings.
func findUntranslatedStrings(root string, knownKeys map[string]struct{}) (map[string][]location, error) {
	untranslated := make(map[string][]location)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if skipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for i, line := range strings.Split(string(content), "\n") {
			for _, match := range funcCallRe.FindAllStringSubmatch(line, -1) {
				funcName := match[2]
				literal := match[3]

				if _, ok := blacklistedFuncs[funcName]; ok {
					continue
				}
				if !looksUserFacing(literal, knownKeys) {
					continue
				}
				untranslated[literal] = append(untranslated[literal], location{path: path, line: i + 1})
			}
		}
		return nil
	})

	return untranslated, err
}

// looksUserFacing applies the false-positive filters to one literal.
func looksUserFacing(literal string, knownKeys map[string]struct{}) bool {
	if _, ok := knownKeys[literal]; ok {
		return false
	}
	if keyLikeRe.MatchString(literal) {
		return false
	}
	if len(literal) < 4 {
		return false
	}
	// DSNs and URLs.
	if strings.HasPrefix(literal, "file:") || strings.HasPrefix(literal, "http") {
		return false
	}
	upper := strings.ToUpper(literal)
	for _, kw := range sqlKeywords {
		if strings.HasPrefix(upper, kw) {
			return false
		}
	}
	// Go time layouts.
	if strings.HasPrefix(literal, "2006-") {
		return false
	}
	if allCapsRe.MatchString(literal) {
		return false
	}
	// Pure format strings carry no prose.
	if formatRe.MatchString(literal) && !strings.Contains(literal, " ") {
		return false
	}
	return true
}

// loadKeysFromLocale reads one YAML catalog and returns its flattened
// dot-separated key set.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML walks a nested YAML document and records every leaf as a
// dot-separated key.
func flattenYAML(prefix string, node interface{}, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]interface{}:
		for k, val := range v {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			flattenYAML(next, val, keys)
		}
	case []interface{}:
		for i, val := range v {
			flattenYAML(fmt.Sprintf("%s[%d]", prefix, i), val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
