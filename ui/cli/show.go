// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mensahub/mensad/internal/db"
	"github.com/mensahub/mensad/internal/i18n"
	"github.com/mensahub/mensad/internal/model"
)

var (
	showTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	showDayStyle      = lipgloss.NewStyle().Bold(true)
	showMutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	showCategoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Width(14)
)

// showCmd represents the 'show' command.
// It prints one stored weekly plan, by default the most recently fetched one.
var showCmd = &cobra.Command{
	Use:   "show [KW[/year]]",
	Short: "Print a stored weekly meal plan",
	Long: `Prints a stored weekly plan. Without arguments the most recently
fetched week is shown. A specific week can be addressed as a calendar
week number, optionally with a year:

  mensad show 7
  mensad show KW7
  mensad show "KW 7/2025"

Use --json for the machine-readable form served by the HTTP API.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			plan *model.MealPlan
			err  error
		)
		if len(args) == 0 {
			plan, err = db.GetLatestMealPlan()
		} else {
			year, week, perr := parseWeekRef(args[0])
			if perr != nil {
				log.Fatalf("%s", i18n.T("show.error_week", args[0]))
			}
			plan, err = db.GetMealPlan(year, week)
		}
		if err != nil {
			log.Fatalf("%v", err)
		}
		if plan == nil {
			if len(args) == 0 {
				fmt.Println(i18n.T("show.empty"))
			} else {
				fmt.Println(i18n.T("show.not_found", args[0]))
			}
			return
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			b, merr := json.MarshalIndent(plan, "", "  ")
			if merr != nil {
				log.Fatalf("%v", merr)
			}
			fmt.Println(string(b))
			return
		}

		fmt.Print(renderPlan(plan))
	},
}

// parseWeekRef parses a week reference like "7", "KW7" or "KW 7/2025".
// Without a year the current ISO year is assumed.
func parseWeekRef(ref string) (year, week int, err error) {
	s := strings.TrimSpace(ref)
	s = strings.TrimPrefix(strings.ToUpper(s), "KW")
	s = strings.TrimSpace(s)

	weekPart := s
	if i := strings.IndexByte(s, '/'); i >= 0 {
		weekPart = strings.TrimSpace(s[:i])
		year, err = strconv.Atoi(strings.TrimSpace(s[i+1:]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year in %q", ref)
		}
	} else {
		year, _ = model.WeekOf(time.Now())
	}

	week, err = strconv.Atoi(weekPart)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid week in %q", ref)
	}
	if week < 1 || week > 53 {
		return 0, 0, fmt.Errorf("week %d out of range", week)
	}
	return year, week, nil
}

// renderPlan formats a weekly plan for the terminal. Days come out in date
// order; categories in the fixed plan order, skipping ones with no offering.
func renderPlan(plan *model.MealPlan) string {
	var b strings.Builder

	b.WriteString(showTitleStyle.Render("Speisenplan "+plan.Key()) + "\n")
	if !plan.FetchedAt.IsZero() {
		fetched := i18n.T("show.fetched_at", plan.FetchedAt.Format("2006-01-02 15:04"))
		b.WriteString(showMutedStyle.Render(fetched) + "\n")
	}

	plan.SortDays()
	for _, day := range plan.Days {
		b.WriteString("\n")
		b.WriteString(showDayStyle.Render(day.Weekday) + " " + showMutedStyle.Render(day.Date) + "\n")
		if len(day.Meals) == 0 {
			b.WriteString("  " + showMutedStyle.Render(i18n.T("show.closed")) + "\n")
			continue
		}
		for _, cat := range model.Categories() {
			meal, ok := day.Meals[cat]
			if !ok {
				continue
			}
			b.WriteString("  " + showCategoryStyle.Render(string(cat)) + " " + meal + "\n")
		}
	}

	return b.String()
}
