// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mensahub/mensad/internal/analyze"
	"github.com/mensahub/mensad/internal/db"
	"github.com/mensahub/mensad/internal/dedupe"
	"github.com/mensahub/mensad/internal/i18n"
	"github.com/mensahub/mensad/internal/model"
)

var analyzeSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
var analyzeLabelStyle = lipgloss.NewStyle().Width(28)

// dedupeCmd represents the 'dedupe' command.
// Years of weekly plans accumulate near-identical spellings of the same
// dish; this command previews the duplicate groups and optionally merges
// them onto one canonical name each.
var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Find and merge duplicate meal names",
	Long: `Scans all stored meal names for near-duplicates (allergen code variants,
truncated sides, reordered ingredients) and groups them by fuzzy
similarity.

By default only a preview is printed. With --apply the groups are
merged: one meal per group is kept under the canonical name and all
plan references to the others are rewritten to it.`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		applyFlag, _ := cmd.Flags().GetBool("apply")
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		limit, _ := cmd.Flags().GetInt("limit")

		st := &cliMealStore{}
		preview, err := dedupe.Plan(st, threshold)
		if err != nil {
			log.Fatalf("%s", i18n.T("dedupe.cli_error", err))
		}

		fmt.Println(i18n.T("dedupe.cli_scanning", preview.TotalMeals))
		if len(preview.Groups) == 0 {
			fmt.Println(i18n.T("dedupe.cli_no_duplicates"))
			return
		}

		shown := preview.Groups
		truncated := 0
		if limit > 0 && len(shown) > limit {
			truncated = len(shown) - limit
			shown = shown[:limit]
		}
		for i, g := range shown {
			fmt.Printf("\n%s\n", showDayStyle.Render(i18n.T("dedupe.cli_group_header", i+1, g.Canonical)))
			for _, name := range g.Names {
				if name == g.Canonical {
					continue
				}
				fmt.Printf("  - %s\n", name)
			}
		}
		if truncated > 0 {
			fmt.Println(showMutedStyle.Render(fmt.Sprintf("(+%d)", truncated)))
		}
		fmt.Println()

		if !applyFlag {
			fmt.Println(i18n.T("dedupe.cli_preview_notice"))
			return
		}

		// Merging rewrites plan references and deletes meals, so ask first
		// when a human is driving. Piped input proceeds unprompted.
		if term.IsTerminal(int(os.Stdin.Fd())) {
			ans := promptForConfirmation(i18n.T("dedupe.cli_confirm", len(preview.Groups)))
			if ans != "y" && ans != "yes" {
				fmt.Println(i18n.T("dedupe.cli_aborted"))
				return
			}
		}

		renamed, merged, err := dedupe.Apply(st, preview.Mapping)
		if err != nil {
			log.Fatalf("%s", i18n.T("dedupe.cli_error", err))
		}
		details := fmt.Sprintf("groups: %d, renamed: %d, merged: %d", len(preview.Groups), renamed, merged)
		if err := db.LogAction("DEDUPE_MEALS", details); err != nil {
			log.Warnf("could not write action log: %v", err)
		}
		fmt.Println(i18n.T("dedupe.cli_applied", merged, len(preview.Groups)))
	},
}

// analyzeCmd represents the 'analyze' command.
// It prints a statistical report over the stored meal database.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the stored meal database",
	Long: `Prints a report over the stored meal data: plan and meal counts,
allergen coverage, frequent words, likely duplicates, keyword buckets
(proteins, sides, closure notices), the most served meals and meals no
plan references anymore.`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		report, err := analyze.Run(&cliMealStore{})
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Print(renderReport(report))
	},
}

// renderReport formats the analysis report for the terminal.
func renderReport(r *analyze.Report) string {
	var b strings.Builder

	section := func(id string) {
		b.WriteString("\n" + analyzeSectionStyle.Render(i18n.T(id)) + "\n")
	}
	countRow := func(id string, n int) {
		b.WriteString("  " + analyzeLabelStyle.Render(i18n.T(id)) + fmt.Sprintf("%6d", n) + "\n")
	}

	b.WriteString(showTitleStyle.Render(i18n.T("analyze.title")) + "\n")

	section("analyze.section_counts")
	countRow("analyze.plans", r.Plans)
	countRow("analyze.days", r.Days)
	countRow("analyze.meals", r.Meals)

	section("analyze.section_allergens")
	countRow("analyze.with_allergens", r.WithAllergens)

	section("analyze.section_categories")
	for _, cat := range model.Categories() {
		if n, ok := r.CategoryUsage[cat]; ok {
			b.WriteString("  " + analyzeLabelStyle.Render(string(cat)) + fmt.Sprintf("%6d", n) + "\n")
		}
	}

	section("analyze.section_words")
	b.WriteString("  " + joinWordCounts(r.TopWords) + "\n")
	lengths := fmt.Sprintf("min %d  median %d  max %d  avg %.1f",
		r.NameLengths.Min, r.NameLengths.Median, r.NameLengths.Max, r.NameLengths.Average)
	b.WriteString("  " + showMutedStyle.Render(lengths) + "\n")

	section("analyze.section_duplicates")
	if len(r.DuplicateGroups) == 0 {
		b.WriteString("  " + i18n.T("analyze.none") + "\n")
	}
	for _, g := range r.DuplicateGroups {
		b.WriteString("  " + strings.Join(g.Names, " | ") + "\n")
	}

	keywordSection := func(id string, counts []analyze.KeywordCount) {
		section(id)
		printed := false
		for _, kc := range counts {
			if kc.Count == 0 {
				continue
			}
			b.WriteString("  " + analyzeLabelStyle.Render(kc.Keyword) + fmt.Sprintf("%6d", kc.Count) + "\n")
			printed = true
		}
		if !printed {
			b.WriteString("  " + i18n.T("analyze.none") + "\n")
		}
	}
	keywordSection("analyze.section_special", r.SpecialEntries)
	keywordSection("analyze.section_proteins", r.Proteins)
	keywordSection("analyze.section_sides", r.Sides)

	section("analyze.section_top")
	for i, mu := range r.MostServed {
		b.WriteString(fmt.Sprintf("  %2d. %3dx  %s\n", i+1, mu.Count, mu.Name))
	}
	if len(r.MostServed) == 0 {
		b.WriteString("  " + i18n.T("analyze.none") + "\n")
	}

	section("analyze.section_orphans")
	b.WriteString(fmt.Sprintf("  %d\n", r.Orphaned))

	return b.String()
}

func joinWordCounts(words []analyze.WordCount) string {
	if len(words) == 0 {
		return i18n.T("analyze.none")
	}
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, fmt.Sprintf("%s (%d)", w.Word, w.Count))
	}
	return strings.Join(parts, ", ")
}
