// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// Package pdfext extracts positioned text from the Speisenplan PDF. It wraps
// github.com/ledongthuc/pdf behind a small row/word model so everything
// downstream of the library boundary works on plain values and can be tested
// without PDF fixtures.
package pdfext

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Word is a run of glyphs sharing a baseline, with its left X position.
type Word struct {
	X    float64
	Text string
}

// Row is all words on one baseline, left to right.
type Row struct {
	Y     float64
	Words []Word
}

// Text returns the row's words joined with single spaces.
func (r Row) Text() string {
	parts := make([]string, 0, len(r.Words))
	for _, w := range r.Words {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}

// yTolerance groups glyphs whose baselines differ by no more than this many
// points into the same row. The Speisenplan's table rows sit ~10pt apart.
const yTolerance = 2.0

// ExtractRows reads a PDF file and returns its positioned text rows per page,
// top to bottom, words left to right.
func ExtractRows(path string) (pages [][]Row, err error) {
	// The underlying reader panics on malformed files; turn that into an error.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("malformed pdf %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pages = append(pages, RowsFromTexts(p.Content().Text))
	}
	return pages, nil
}

// RowsFromTexts groups raw text fragments into rows and words. Fragments on
// the same baseline belong to one row; fragments whose horizontal gap is
// small relative to the font size are merged into one word.
func RowsFromTexts(texts []pdf.Text) []Row {
	type fragment struct {
		x, y, w, size float64
		s             string
	}
	type bucket struct {
		y     float64
		frags []fragment
	}

	var buckets []*bucket
	for _, t := range texts {
		f := fragment{x: t.X, y: t.Y, w: t.W, size: t.FontSize, s: t.S}
		var b *bucket
		for _, cand := range buckets {
			if math.Abs(cand.y-f.y) <= yTolerance {
				b = cand
				break
			}
		}
		if b == nil {
			b = &bucket{y: f.y}
			buckets = append(buckets, b)
		}
		b.frags = append(b.frags, f)
	}
	// Top of page first (PDF Y grows upward).
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].y > buckets[j].y })

	rows := make([]Row, 0, len(buckets))
	for _, b := range buckets {
		sort.SliceStable(b.frags, func(i, j int) bool { return b.frags[i].x < b.frags[j].x })

		row := Row{Y: b.y}
		var lastEnd, lastSize float64
		open := false
		for _, f := range b.frags {
			if strings.TrimSpace(f.s) == "" {
				// Explicit space fragment: terminates the current word.
				open = false
				continue
			}
			maxGap := lastSize * 0.3
			if maxGap < 1.0 {
				maxGap = 1.0
			}
			if !open || len(row.Words) == 0 || f.x-lastEnd > maxGap {
				row.Words = append(row.Words, Word{X: f.x, Text: f.s})
			} else {
				row.Words[len(row.Words)-1].Text += f.s
			}
			lastEnd = f.x + f.w
			lastSize = f.size
			open = true
		}
		rows = append(rows, row)
	}
	return rows
}

// ClusterCells assigns each word of a row to the nearest column position and
// joins the words per column with spaces. The result always has len(columns)
// entries; columns with no words yield the empty string.
func ClusterCells(row Row, columns []float64) []string {
	out := make([]string, len(columns))
	if len(columns) == 0 {
		return out
	}
	parts := make([][]string, len(columns))
	for _, w := range row.Words {
		best := 0
		bestDist := math.Abs(w.X - columns[0])
		for i := 1; i < len(columns); i++ {
			if d := math.Abs(w.X - columns[i]); d < bestDist {
				best, bestDist = i, d
			}
		}
		parts[best] = append(parts[best], w.Text)
	}
	for i, p := range parts {
		out[i] = strings.Join(p, " ")
	}
	return out
}
