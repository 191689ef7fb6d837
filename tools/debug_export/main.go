// debug_export seeds an in-memory store with one meal plan and dumps the
// round trip through the package-level db helpers. Handy when poking at
// upsert or query changes without a real database around.
package main

import (
	"fmt"
	"time"

	"github.com/mensahub/mensad/internal/db"
	"github.com/mensahub/mensad/internal/i18n"
	"github.com/mensahub/mensad/internal/model"
)

func main() {
	dsn := "file:debprobe?mode=memory&cache=shared"
	i18n.Init("en")
	if err := db.InitDB("sqlite", dsn); err != nil {
		panic(err)
	}

	plan := &model.MealPlan{
		Year:      2025,
		Week:      7,
		FetchedAt: time.Now(),
		Days: []model.Day{
			{
				Date:    "2025-02-10",
				Weekday: "Montag",
				Meals: map[model.Category]string{
					model.CategoryTagesgericht: "Hähnchenschnitzel mit Pommes",
					model.CategoryVegetarisch:  "Gemüselasagne",
				},
			},
			{
				Date:    "2025-02-11",
				Weekday: "Dienstag",
				Meals: map[model.Category]string{
					model.CategoryTagesgericht: "Linsensuppe mit Würstchen (a,c)",
					model.CategoryWok:          "Gebratene Nudeln mit Gemüse",
				},
			},
		},
	}

	created, err := db.UpsertMealPlan(plan)
	if err != nil {
		panic(err)
	}
	fmt.Printf("upsert created=%v\n", created)

	weeks, err := db.ListPlanWeeks()
	if err != nil {
		panic(err)
	}
	fmt.Printf("stored weeks: %d\n", len(weeks))
	for _, w := range weeks {
		fmt.Printf("week: %s days=%d fetched=%s\n", w.Key(), w.Days, w.FetchedAt.Format("2006-01-02 15:04"))
	}

	meals, err := db.GetAllMeals()
	if err != nil {
		panic(err)
	}
	fmt.Printf("meals: %d\n", len(meals))
	for _, m := range meals {
		fmt.Printf("meal: %+v\n", m)
	}

	got, err := db.GetMealPlan(2025, 7)
	if err != nil {
		panic(err)
	}
	for _, d := range got.Days {
		fmt.Printf("day %s (%s): %d meals\n", d.Weekday, d.Date, len(d.Meals))
	}
}
