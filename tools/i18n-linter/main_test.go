package main

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestFlattenYAMLAndLoadKeys(t *testing.T) {
	m := map[string]interface{}{
		"show": map[string]interface{}{
			"title": "Speisenplan %s",
			"days":  []interface{}{"Montag", "Dienstag"},
		},
		"language": "en",
	}
	keys := make(map[string]struct{})
	flattenYAML("", m, keys)
	if _, ok := keys["show.title"]; !ok {
		t.Fatalf("expected show.title in keys, got %v", keys)
	}
	if _, ok := keys["show.days[0]"]; !ok {
		t.Fatalf("expected show.days[0] in keys, got %v", keys)
	}

	dir := t.TempDir()
	p := filepath.Join(dir, "en.yaml")
	data, _ := yaml.Marshal(m)
	if err := os.WriteFile(p, data, 0600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	got, err := loadKeysFromLocale(p)
	if err != nil {
		t.Fatalf("loadKeysFromLocale failed: %v", err)
	}
	if _, ok := got["show.title"]; !ok {
		t.Fatalf("expected loaded key show.title, got %v", got)
	}
}

func TestFindUsedKeys(t *testing.T) {
	dir := t.TempDir()
	src := `package foo
func f(){
	_ = i18n.T("show.title")
	id := "analyze.most_served"
	_ = id
}`
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "a.go"), []byte(src), 0644); err != nil {
		t.Fatalf("write go: %v", err)
	}

	used, err := findUsedKeys(dir)
	if err != nil {
		t.Fatalf("findUsedKeys failed: %v", err)
	}
	if _, ok := used["show.title"]; !ok {
		t.Fatalf("expected show.title in used keys, got %v", used)
	}
	// Bare dotted literals count as IDs too, so keys passed through
	// variables are not reported as orphaned.
	if _, ok := used["analyze.most_served"]; !ok {
		t.Fatalf("expected analyze.most_served in used keys, got %v", used)
	}
}

func TestFindUsedKeys_SkipsUnderscoreDirs(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "_attic"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	src := `package old
func f(){ _ = i18n.T("attic.key") }`
	if err := os.WriteFile(filepath.Join(dir, "_attic", "a.go"), []byte(src), 0644); err != nil {
		t.Fatalf("write go: %v", err)
	}

	used, err := findUsedKeys(dir)
	if err != nil {
		t.Fatalf("findUsedKeys failed: %v", err)
	}
	if _, ok := used["attic.key"]; ok {
		t.Fatalf("keys under underscore directories must be ignored, got %v", used)
	}
}

func TestFindUntranslatedStrings(t *testing.T) {
	dir := t.TempDir()
	src := `package foo
func f(){
	msg("Gebratene Nudeln mit Gemüse")
	logging.Debugf("Upserted plan for week %d", 7)
	exec("SELECT name FROM meals")
	open("file:mensa.db?cache=shared")
	known("show.title")
	bar("ok")
}`
	if err := os.WriteFile(filepath.Join(dir, "a.go"), []byte(src), 0644); err != nil {
		t.Fatalf("write go: %v", err)
	}

	known := map[string]struct{}{"show.title": {}}
	untranslated, err := findUntranslatedStrings(dir, known)
	if err != nil {
		t.Fatalf("findUntranslatedStrings failed: %v", err)
	}

	if _, ok := untranslated["Gebratene Nudeln mit Gemüse"]; !ok {
		t.Fatalf("expected user-facing literal to be flagged, got %v", untranslated)
	}
	if _, ok := untranslated["Upserted plan for week %d"]; ok {
		t.Fatalf("logging helper arguments must not be flagged")
	}
	if _, ok := untranslated["SELECT name FROM meals"]; ok {
		t.Fatalf("SQL must not be flagged")
	}
	if _, ok := untranslated["file:mensa.db?cache=shared"]; ok {
		t.Fatalf("DSNs must not be flagged")
	}
	if _, ok := untranslated["show.title"]; ok {
		t.Fatalf("known message IDs must not be flagged")
	}
	if _, ok := untranslated["ok"]; ok {
		t.Fatalf("short literals must not be flagged")
	}
}

func TestLooksUserFacing(t *testing.T) {
	known := map[string]struct{}{"dedupe.cli_done": {}}
	cases := []struct {
		literal string
		want    bool
	}{
		{"Hähnchenschnitzel mit Pommes", true},
		{"dedupe.cli_done", false},
		{"fetch.cli_running", false},
		{"2006-01-02", false},
		{"VACUUM", false},
		{"%d-%d", false},
		{"abc", false},
	}
	for _, c := range cases {
		if got := looksUserFacing(c.literal, known); got != c.want {
			t.Errorf("looksUserFacing(%q) = %v, want %v", c.literal, got, c.want)
		}
	}
}
