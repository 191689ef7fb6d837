// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mensahub/mensad/internal/db/namefilter"
	"github.com/mensahub/mensad/internal/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// MealPlanModel maps the `mealplans` table for Bun queries.
type MealPlanModel struct {
	bun.BaseModel `bun:"table:mealplans"`
	ID            int       `bun:"id,pk,autoincrement"`
	Year          int       `bun:"year"`
	Week          int       `bun:"week"`
	FetchedAt     time.Time `bun:"fetched_at"`
}

// MealModel maps the `meals` table.
type MealModel struct {
	bun.BaseModel `bun:"table:meals"`
	ID            int    `bun:"id,pk,autoincrement"`
	Name          string `bun:"name"`
}

// PlanDayModel maps the `plan_days` table. Each category has its own
// nullable meal reference; a NULL means the category was not offered.
type PlanDayModel struct {
	bun.BaseModel  `bun:"table:plan_days"`
	ID             int           `bun:"id,pk,autoincrement"`
	MealplanID     int           `bun:"mealplan_id"`
	Date           string        `bun:"date"`
	Weekday        string        `bun:"weekday"`
	TagesgerichtID sql.NullInt64 `bun:"tagesgericht_id"`
	VegetarischID  sql.NullInt64 `bun:"vegetarisch_id"`
	PizzaPastaID   sql.NullInt64 `bun:"pizza_pasta_id"`
	WokID          sql.NullInt64 `bun:"wok_id"`
}

// ActionLogModel maps the action_log table.
type ActionLogModel struct {
	bun.BaseModel `bun:"table:action_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

// categoryColumns maps each meal category to its plan_days reference column.
// Iterate model.Categories() when a stable order matters.
var categoryColumns = map[model.Category]string{
	model.CategoryTagesgericht: "tagesgericht_id",
	model.CategoryVegetarisch:  "vegetarisch_id",
	model.CategoryPizzaPasta:   "pizza_pasta_id",
	model.CategoryWok:          "wok_id",
}

// categoryRef returns the reference field for a category so callers can read
// or set it without repeating the column switch.
func (d *PlanDayModel) categoryRef(cat model.Category) *sql.NullInt64 {
	switch cat {
	case model.CategoryTagesgericht:
		return &d.TagesgerichtID
	case model.CategoryVegetarisch:
		return &d.VegetarischID
	case model.CategoryPizzaPasta:
		return &d.PizzaPastaID
	case model.CategoryWok:
		return &d.WokID
	}
	return nil
}

// --- Mapping helpers (centralized conversions) ---
func mealModelToModel(m MealModel) model.Meal {
	return model.Meal{ID: m.ID, Name: m.Name}
}

func planDayModelToDay(d PlanDayModel, names map[int64]string) model.Day {
	day := model.Day{Date: d.Date, Weekday: d.Weekday, Meals: make(map[model.Category]string)}
	for _, cat := range model.Categories() {
		ref := d.categoryRef(cat)
		if ref == nil || !ref.Valid {
			continue
		}
		if name, ok := names[ref.Int64]; ok {
			day.Meals[cat] = name
		}
	}
	return day
}

func actionLogModelToModel(a ActionLogModel) model.ActionLogEntry {
	return model.ActionLogEntry{ID: a.ID, Timestamp: a.Timestamp, Action: a.Action, Details: a.Details}
}

// --- Meal helpers ---

// GetAllMealsBun returns all meals ordered by name.
func GetAllMealsBun(bdb *bun.DB) ([]model.Meal, error) {
	ctx := context.Background()
	var mm []MealModel
	if err := bdb.NewSelect().Model(&mm).OrderExpr("name").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Meal, 0, len(mm))
	for _, m := range mm {
		out = append(out, mealModelToModel(m))
	}
	return out, nil
}

// GetMealByNameBun retrieves a meal by its exact name. Returns (nil, nil)
// when no meal with that name exists.
func GetMealByNameBun(bdb *bun.DB, name string) (*model.Meal, error) {
	ctx := context.Background()
	var m MealModel
	err := bdb.NewSelect().Model(&m).Where("name = ?", name).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	mm := mealModelToModel(m)
	return &mm, nil
}

// GetOrCreateMealBun looks a meal up by name and inserts it when missing,
// returning the meal's ID either way. A duplicate error from a concurrent
// insert is resolved by re-reading the row.
func GetOrCreateMealBun(bdb *bun.DB, name string) (int, error) {
	existing, err := GetMealByNameBun(bdb, name)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}
	ctx := context.Background()
	// Use Bun's NewInsert with Returning so the assigned ID comes back on
	// every supported engine.
	m := &MealModel{Name: name}
	if _, err := bdb.NewInsert().Model(m).Column("name").Returning("id").Exec(ctx); err != nil {
		if MapDBError(err) == ErrDuplicate {
			again, rerr := GetMealByNameBun(bdb, name)
			if rerr != nil {
				return 0, rerr
			}
			if again != nil {
				return again.ID, nil
			}
		}
		return 0, MapDBError(err)
	}
	return m.ID, nil
}

// RenameMealBun changes a meal's name. The unique constraint on names maps
// a collision to ErrDuplicate; an unknown id yields ErrNotFound.
func RenameMealBun(bdb *bun.DB, id int, name string) error {
	ctx := context.Background()
	res, err := ExecRaw(ctx, bdb, "UPDATE meals SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return MapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// MergeMealsBun re-points every plan day referencing one of the duplicate
// meals to the canonical meal, then deletes the duplicates. Runs in a single
// transaction so a failure leaves the references untouched.
func MergeMealsBun(bdb *bun.DB, canonicalID int, duplicateIDs []int) error {
	if len(duplicateIDs) == 0 {
		return nil
	}
	ctx := context.Background()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		for _, cat := range model.Categories() {
			col := categoryColumns[cat]
			query := fmt.Sprintf("UPDATE plan_days SET %s = ? WHERE %s IN (?)", col, col)
			if _, err := ExecRaw(ctx, tx, query, canonicalID, bun.In(duplicateIDs)); err != nil {
				return err
			}
		}
		if _, err := ExecRaw(ctx, tx, "DELETE FROM meals WHERE id IN (?)", bun.In(duplicateIDs)); err != nil {
			return err
		}
		return nil
	})
}

// countMealUsageSQL counts plan day references per meal across all four
// category columns. The alias avoids shadowing the SQL COUNT keyword.
const countMealUsageSQL = `SELECT m.id, m.name, COUNT(r.meal_id) AS usage_count
FROM meals m
LEFT JOIN (
	SELECT tagesgericht_id AS meal_id FROM plan_days WHERE tagesgericht_id IS NOT NULL
	UNION ALL SELECT vegetarisch_id FROM plan_days WHERE vegetarisch_id IS NOT NULL
	UNION ALL SELECT pizza_pasta_id FROM plan_days WHERE pizza_pasta_id IS NOT NULL
	UNION ALL SELECT wok_id FROM plan_days WHERE wok_id IS NOT NULL
) r ON r.meal_id = m.id
GROUP BY m.id, m.name
ORDER BY usage_count DESC, m.name`

type mealUsageRow struct {
	ID         int    `bun:"id"`
	Name       string `bun:"name"`
	UsageCount int    `bun:"usage_count"`
}

// CountMealUsageBun returns every meal with its reference count, most used first.
func CountMealUsageBun(bdb *bun.DB) ([]model.MealUsage, error) {
	ctx := context.Background()
	var rows []mealUsageRow
	if err := QueryRawInto(ctx, bdb, &rows, countMealUsageSQL); err != nil {
		return nil, err
	}
	out := make([]model.MealUsage, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.MealUsage{ID: r.ID, Name: r.Name, Count: r.UsageCount})
	}
	return out, nil
}

// MostServedMealsBun returns the most frequently served meals. A limit of
// zero or less returns all meals with at least one reference.
func MostServedMealsBun(bdb *bun.DB, limit int) ([]model.MealUsage, error) {
	usage, err := CountMealUsageBun(bdb)
	if err != nil {
		return nil, err
	}
	out := make([]model.MealUsage, 0, len(usage))
	for _, u := range usage {
		if u.Count == 0 {
			break
		}
		out = append(out, u)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// SearchMealsBun performs a portable fuzzy search over meal names using
// simple tokenized LIKE matching. Tokens are ANDed together. This emulates
// more advanced Postgres full-text search in a DB-agnostic way.
func SearchMealsBun(bdb *bun.DB, q string) ([]model.Meal, error) {
	ctx := context.Background()
	tokens := TokenizeSearchQuery(q)
	var mm []MealModel
	qb := bdb.NewSelect().Model(&mm)
	for _, tok := range tokens {
		like := "%" + tok + "%"
		// Use LOWER(...) for case-insensitive matching across engines
		qb = qb.Where("LOWER(name) LIKE ?", like)
	}
	if err := qb.OrderExpr("name").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Meal, 0, len(mm))
	for _, m := range mm {
		out = append(out, mealModelToModel(m))
	}
	return out, nil
}

// FilterMealsByExpressionBun returns meals matching a name filter expression
// like `rind & !wok`. See the namefilter package for the syntax.
func FilterMealsByExpressionBun(bdb *bun.DB, expr string) ([]model.Meal, error) {
	ctx := context.Background()
	apply, err := namefilter.GetFilterQueryBuilder(expr)
	if err != nil {
		return nil, err
	}
	var mm []MealModel
	q := bdb.NewSelect().Model(&mm).ApplyQueryBuilder(apply).OrderExpr("name")
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Meal, 0, len(mm))
	for _, m := range mm {
		out = append(out, mealModelToModel(m))
	}
	return out, nil
}

// OrphanedMealsBun returns meals no stored plan day references.
func OrphanedMealsBun(bdb *bun.DB) ([]model.Meal, error) {
	ctx := context.Background()
	var rows []MealModel
	query := `SELECT m.id, m.name FROM meals m
WHERE NOT EXISTS (
	SELECT 1 FROM plan_days d
	WHERE d.tagesgericht_id = m.id OR d.vegetarisch_id = m.id OR d.pizza_pasta_id = m.id OR d.wok_id = m.id
)
ORDER BY m.name`
	if err := QueryRawInto(ctx, bdb, &rows, query); err != nil {
		return nil, err
	}
	out := make([]model.Meal, 0, len(rows))
	for _, m := range rows {
		out = append(out, mealModelToModel(m))
	}
	return out, nil
}

// --- Meal plan helpers ---

// UpsertMealPlanBun stores a weekly plan. When the week already exists its
// days are replaced wholesale, so a refreshed PDF wins over stale rows.
// Reports whether a new plan row was created.
func UpsertMealPlanBun(bdb *bun.DB, plan *model.MealPlan) (bool, error) {
	ctx := context.Background()

	// Resolve meal names to IDs before opening the transaction; get-or-create
	// recovers from duplicate races on its own, which would poison an open
	// Postgres transaction.
	dayModels := make([]PlanDayModel, 0, len(plan.Days))
	for _, day := range plan.Days {
		dm := PlanDayModel{Date: day.Date, Weekday: day.Weekday}
		for _, cat := range model.Categories() {
			text, ok := day.Meals[cat]
			if !ok || strings.TrimSpace(text) == "" {
				continue
			}
			mealID, err := GetOrCreateMealBun(bdb, text)
			if err != nil {
				return false, fmt.Errorf("failed to resolve meal %q: %w", text, err)
			}
			*dm.categoryRef(cat) = sql.NullInt64{Int64: int64(mealID), Valid: true}
		}
		dayModels = append(dayModels, dm)
	}

	created := false
	err := WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		var existing MealPlanModel
		err := tx.NewSelect().Model(&existing).Where("year = ? AND week = ?", plan.Year, plan.Week).Limit(1).Scan(ctx)
		switch {
		case err == sql.ErrNoRows:
			created = true
			pm := &MealPlanModel{Year: plan.Year, Week: plan.Week, FetchedAt: plan.FetchedAt}
			if _, err := tx.NewInsert().Model(pm).Column("year", "week", "fetched_at").Returning("id").Exec(ctx); err != nil {
				return MapDBError(err)
			}
			existing.ID = pm.ID
		case err != nil:
			return err
		default:
			if _, err := ExecRaw(ctx, tx, "UPDATE mealplans SET fetched_at = ? WHERE id = ?", plan.FetchedAt, existing.ID); err != nil {
				return err
			}
			if _, err := ExecRaw(ctx, tx, "DELETE FROM plan_days WHERE mealplan_id = ?", existing.ID); err != nil {
				return err
			}
		}

		for i := range dayModels {
			dayModels[i].ID = 0
			dayModels[i].MealplanID = existing.ID
			if _, err := tx.NewInsert().Model(&dayModels[i]).Column("mealplan_id", "date", "weekday", "tagesgericht_id", "vegetarisch_id", "pizza_pasta_id", "wok_id").Exec(ctx); err != nil {
				return MapDBError(err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// loadPlanDays reads the stored days for a plan and resolves meal references
// back to names. Accepts a DB or transaction.
func loadPlanDays(ctx context.Context, idb bun.IDB, planID int) ([]model.Day, error) {
	var dms []PlanDayModel
	if err := idb.NewSelect().Model(&dms).Where("mealplan_id = ?", planID).OrderExpr("date").Scan(ctx); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(dms)*len(categoryColumns))
	for i := range dms {
		for _, cat := range model.Categories() {
			if ref := dms[i].categoryRef(cat); ref.Valid {
				ids = append(ids, ref.Int64)
			}
		}
	}
	names := make(map[int64]string, len(ids))
	if len(ids) > 0 {
		var mm []MealModel
		if err := idb.NewSelect().Model(&mm).Where("id IN (?)", bun.In(ids)).Scan(ctx); err != nil {
			return nil, err
		}
		for _, m := range mm {
			names[int64(m.ID)] = m.Name
		}
	}

	days := make([]model.Day, 0, len(dms))
	for _, d := range dms {
		days = append(days, planDayModelToDay(d, names))
	}
	return days, nil
}

func mealPlanFromRow(ctx context.Context, idb bun.IDB, pm MealPlanModel) (*model.MealPlan, error) {
	days, err := loadPlanDays(ctx, idb, pm.ID)
	if err != nil {
		return nil, err
	}
	return &model.MealPlan{Year: pm.Year, Week: pm.Week, FetchedAt: pm.FetchedAt, Days: days}, nil
}

// GetMealPlanBun retrieves the plan for an ISO year and week. Returns
// (nil, nil) when the week is not stored.
func GetMealPlanBun(bdb *bun.DB, year, week int) (*model.MealPlan, error) {
	ctx := context.Background()
	var pm MealPlanModel
	err := bdb.NewSelect().Model(&pm).Where("year = ? AND week = ?", year, week).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return mealPlanFromRow(ctx, bdb, pm)
}

// GetLatestMealPlanBun retrieves the most recent stored plan by ISO week.
func GetLatestMealPlanBun(bdb *bun.DB) (*model.MealPlan, error) {
	ctx := context.Background()
	var pm MealPlanModel
	err := bdb.NewSelect().Model(&pm).OrderExpr("year DESC, week DESC").Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return mealPlanFromRow(ctx, bdb, pm)
}

// ListPlanWeeksBun returns a summary row per stored week, newest first.
func ListPlanWeeksBun(bdb *bun.DB) ([]model.PlanWeek, error) {
	ctx := context.Background()
	type weekRow struct {
		Year      int       `bun:"year"`
		Week      int       `bun:"week"`
		FetchedAt time.Time `bun:"fetched_at"`
		Days      int       `bun:"days"`
	}
	var rows []weekRow
	query := `SELECT p.year, p.week, p.fetched_at, COUNT(d.id) AS days
FROM mealplans p
LEFT JOIN plan_days d ON d.mealplan_id = p.id
GROUP BY p.id, p.year, p.week, p.fetched_at
ORDER BY p.year DESC, p.week DESC`
	if err := QueryRawInto(ctx, bdb, &rows, query); err != nil {
		return nil, err
	}
	out := make([]model.PlanWeek, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.PlanWeek{Year: r.Year, Week: r.Week, FetchedAt: r.FetchedAt, Days: r.Days})
	}
	return out, nil
}

// DeleteMealPlanBun removes a stored week and its days. Deleting a week that
// does not exist is not an error. Child rows are removed explicitly; SQLite
// does not enforce foreign keys by default.
func DeleteMealPlanBun(bdb *bun.DB, year, week int) error {
	ctx := context.Background()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		var pm MealPlanModel
		err := tx.NewSelect().Model(&pm).Where("year = ? AND week = ?", year, week).Limit(1).Scan(ctx)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil
			}
			return err
		}
		if _, err := ExecRaw(ctx, tx, "DELETE FROM plan_days WHERE mealplan_id = ?", pm.ID); err != nil {
			return err
		}
		if _, err := ExecRaw(ctx, tx, "DELETE FROM mealplans WHERE id = ?", pm.ID); err != nil {
			return err
		}
		return nil
	})
}

// --- Statistics helpers ---

// CountPlansBun returns the number of stored weekly plans.
func CountPlansBun(bdb *bun.DB) (int, error) {
	ctx := context.Background()
	var count int
	if err := QueryRawInto(ctx, bdb, &count, "SELECT COUNT(id) FROM mealplans"); err != nil {
		return 0, err
	}
	return count, nil
}

// CountDaysBun returns the number of stored plan days.
func CountDaysBun(bdb *bun.DB) (int, error) {
	ctx := context.Background()
	var count int
	if err := QueryRawInto(ctx, bdb, &count, "SELECT COUNT(id) FROM plan_days"); err != nil {
		return 0, err
	}
	return count, nil
}

// CountMealsBun returns the number of distinct stored meals.
func CountMealsBun(bdb *bun.DB) (int, error) {
	ctx := context.Background()
	var count int
	if err := QueryRawInto(ctx, bdb, &count, "SELECT COUNT(id) FROM meals"); err != nil {
		return 0, err
	}
	return count, nil
}

// CategoryUsageBun counts how many stored days carry an offering per category.
func CategoryUsageBun(bdb *bun.DB) (map[model.Category]int, error) {
	ctx := context.Background()
	out := make(map[model.Category]int, len(categoryColumns))
	for _, cat := range model.Categories() {
		col := categoryColumns[cat]
		var count int
		query := fmt.Sprintf("SELECT COUNT(id) FROM plan_days WHERE %s IS NOT NULL", col)
		if err := QueryRawInto(ctx, bdb, &count, query); err != nil {
			return nil, err
		}
		out[cat] = count
	}
	return out, nil
}

// --- Action log helpers ---

// GetAllActionLogEntriesBun retrieves action log entries ordered by timestamp desc.
func GetAllActionLogEntriesBun(bdb *bun.DB) ([]model.ActionLogEntry, error) {
	ctx := context.Background()
	var am []ActionLogModel
	if err := bdb.NewSelect().Model(&am).OrderExpr("timestamp DESC, id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.ActionLogEntry, 0, len(am))
	for _, a := range am {
		out = append(out, actionLogModelToModel(a))
	}
	return out, nil
}

// LogActionBun inserts an action log entry. The timestamp column defaults to
// the insert time.
func LogActionBun(bdb *bun.DB, action string, details string) error {
	ctx := context.Background()
	_, err := ExecRaw(ctx, bdb, "INSERT INTO action_log (action, details) VALUES (?, ?)", action, details)
	return MapDBError(err)
}

// --- Backup helpers ---

// ExportDataForBackupBun exports all tables' data into a model.BackupData
// using a Bun transaction. Plans are exported in denormalized form so a
// backup restores cleanly into any backend.
func ExportDataForBackupBun(bdb *bun.DB) (*model.BackupData, error) {
	ctx := context.Background()
	var backup *model.BackupData
	err := WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		backup = &model.BackupData{SchemaVersion: 1}

		// Meals, including ones no plan references.
		var meals []MealModel
		if err := tx.NewSelect().Model(&meals).OrderExpr("id").Scan(ctx); err != nil {
			return err
		}
		for _, m := range meals {
			backup.Meals = append(backup.Meals, mealModelToModel(m))
		}

		// Plans with their days.
		var pms []MealPlanModel
		if err := tx.NewSelect().Model(&pms).OrderExpr("year, week").Scan(ctx); err != nil {
			return err
		}
		for _, pm := range pms {
			plan, err := mealPlanFromRow(ctx, tx, pm)
			if err != nil {
				return err
			}
			backup.Plans = append(backup.Plans, *plan)
		}

		// Action log.
		var als []ActionLogModel
		if err := tx.NewSelect().Model(&als).OrderExpr("id").Scan(ctx); err != nil {
			return err
		}
		for _, a := range als {
			backup.ActionLogEntries = append(backup.ActionLogEntries, actionLogModelToModel(a))
		}

		return nil
	})
	return backup, err
}

// ImportDataFromBackupBun performs a full wipe-and-replace using a Bun transaction.
func ImportDataFromBackupBun(bdb *bun.DB, backup *model.BackupData) error {
	ctx := context.Background()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		// Wipe tables, children first.
		tables := []string{"plan_days", "mealplans", "meals", "action_log"}
		for _, t := range tables {
			if _, err := ExecRaw(ctx, tx, fmt.Sprintf("DELETE FROM %s", t)); err != nil {
				return err
			}
		}

		// Meals keep their original IDs so the name index stays stable.
		mealIDs := make(map[string]int64, len(backup.Meals))
		for _, m := range backup.Meals {
			if _, err := ExecRaw(ctx, tx, "INSERT INTO meals (id, name) VALUES (?, ?)", m.ID, m.Name); err != nil {
				return MapDBError(err)
			}
			mealIDs[m.Name] = int64(m.ID)
		}

		// Plans resolve day meals by name; a name missing from the meals
		// list (older backup) is created on the fly.
		for _, plan := range backup.Plans {
			pm := &MealPlanModel{Year: plan.Year, Week: plan.Week, FetchedAt: plan.FetchedAt}
			if _, err := tx.NewInsert().Model(pm).Column("year", "week", "fetched_at").Returning("id").Exec(ctx); err != nil {
				return MapDBError(err)
			}
			for _, day := range plan.Days {
				dm := PlanDayModel{MealplanID: pm.ID, Date: day.Date, Weekday: day.Weekday}
				for _, cat := range model.Categories() {
					text, ok := day.Meals[cat]
					if !ok || strings.TrimSpace(text) == "" {
						continue
					}
					id, ok := mealIDs[text]
					if !ok {
						m := &MealModel{Name: text}
						if _, err := tx.NewInsert().Model(m).Column("name").Returning("id").Exec(ctx); err != nil {
							return MapDBError(err)
						}
						id = int64(m.ID)
						mealIDs[text] = id
					}
					*dm.categoryRef(cat) = sql.NullInt64{Int64: id, Valid: true}
				}
				if _, err := tx.NewInsert().Model(&dm).Column("mealplan_id", "date", "weekday", "tagesgericht_id", "vegetarisch_id", "pizza_pasta_id", "wok_id").Exec(ctx); err != nil {
					return MapDBError(err)
				}
			}
		}

		// Action log: convert RFC3339 timestamps to time.Time when possible so MySQL accepts them.
		for _, ale := range backup.ActionLogEntries {
			var ts interface{} = ale.Timestamp
			if ale.Timestamp != "" {
				if parsed, err := time.Parse(time.RFC3339, ale.Timestamp); err == nil {
					ts = parsed
				} else {
					// Fallback: convert 'T' separator to space and strip trailing 'Z' if present.
					s := ale.Timestamp
					s = strings.Replace(s, "T", " ", 1)
					s = strings.TrimSuffix(s, "Z")
					ts = s
				}
			}
			if _, err := ExecRaw(ctx, tx, "INSERT INTO action_log (id, timestamp, action, details) VALUES (?, ?, ?, ?)", ale.ID, ts, ale.Action, ale.Details); err != nil {
				return MapDBError(err)
			}
		}

		// Postgres sequences do not advance past explicitly inserted IDs;
		// bump them so the next insert does not collide.
		if bdb.Dialect().Name() == dialect.PG {
			for _, table := range []string{"meals", "action_log"} {
				q := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))", table, table)
				if _, err := ExecRaw(ctx, tx, q); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// IntegrateDataFromBackupBun performs a non-destructive restore: meals are
// created when missing and plan weeks are only inserted when not already
// stored. Existing weeks always win over the backup. The action log is left
// untouched.
func IntegrateDataFromBackupBun(bdb *bun.DB, backup *model.BackupData) error {
	for _, m := range backup.Meals {
		if _, err := GetOrCreateMealBun(bdb, m.Name); err != nil {
			return err
		}
	}
	for i := range backup.Plans {
		plan := backup.Plans[i]
		existing, err := GetMealPlanBun(bdb, plan.Year, plan.Week)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if _, err := UpsertMealPlanBun(bdb, &plan); err != nil {
			return err
		}
	}
	return nil
}
