// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package pdfext

import (
	"reflect"
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestRowsFromTexts_MergesGlyphsIntoWords(t *testing.T) {
	// Per-glyph fragments for "Wok" plus a separate word, deliberately out of
	// order to exercise sorting.
	texts := []pdf.Text{
		{X: 110, Y: 680, W: 5, FontSize: 10, S: "k"},
		{X: 100, Y: 680.5, W: 5, FontSize: 10, S: "W"},
		{X: 105, Y: 680, W: 5, FontSize: 10, S: "o"},
		{X: 130, Y: 680, W: 5, FontSize: 10, S: "X"},
		{X: 100, Y: 700, W: 30, FontSize: 10, S: "Montag"},
		{X: 200, Y: 700, W: 40, FontSize: 10, S: "10.02.25"},
	}

	rows := RowsFromTexts(texts)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(rows), rows)
	}

	// Top row first (higher Y).
	if got := rows[0].Text(); got != "Montag 10.02.25" {
		t.Fatalf("unexpected first row: %q", got)
	}
	if got := rows[1].Text(); got != "Wok X" {
		t.Fatalf("unexpected second row: %q", got)
	}
	if rows[1].Words[0].X != 100 {
		t.Fatalf("expected merged word to keep first glyph X, got %v", rows[1].Words[0].X)
	}
}

func TestRowsFromTexts_SpaceFragmentSplitsWords(t *testing.T) {
	texts := []pdf.Text{
		{X: 100, Y: 500, W: 5, FontSize: 10, S: "m"},
		{X: 105, Y: 500, W: 5, FontSize: 10, S: "it"},
		{X: 110, Y: 500, W: 3, FontSize: 10, S: " "},
		{X: 113, Y: 500, W: 5, FontSize: 10, S: "Reis"},
	}

	rows := RowsFromTexts(texts)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	want := []Word{{X: 100, Text: "mit"}, {X: 113, Text: "Reis"}}
	if !reflect.DeepEqual(rows[0].Words, want) {
		t.Fatalf("unexpected words: %+v", rows[0].Words)
	}
}

func TestClusterCells(t *testing.T) {
	row := Row{
		Y: 600,
		Words: []Word{
			{X: 52, Text: "Tagesgericht"},
			{X: 98, Text: "Rindergulasch"},
			{X: 102, Text: "mit"},
			{X: 110, Text: "Spätzle"},
			{X: 305, Text: "Pizza"},
			{X: 312, Text: "Salami"},
		},
	}
	columns := []float64{50, 100, 200, 300}

	got := ClusterCells(row, columns)
	want := []string{"Tagesgericht", "Rindergulasch mit Spätzle", "", "Pizza Salami"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected cells: %#v", got)
	}
}

func TestClusterCells_NoColumns(t *testing.T) {
	got := ClusterCells(Row{Words: []Word{{X: 1, Text: "x"}}}, nil)
	if len(got) != 0 {
		t.Fatalf("expected no cells without columns, got %#v", got)
	}
}

func TestExtractRows_MissingFile(t *testing.T) {
	if _, err := ExtractRows("testdata/does-not-exist.pdf"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
