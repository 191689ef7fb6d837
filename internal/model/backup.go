// Copyright (c) 2026 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.
package model

// BackupData is a container for all data exported in a backup.
//
// Plans are exported denormalized (each day carries its meal texts inline)
// so a backup restores cleanly into any backend: meal rows are re-created
// by name on import. Meals is still included so meals no plan references
// anymore survive a round trip.
type BackupData struct {
	// SchemaVersion helps in handling migrations during restore.
	SchemaVersion int `json:"schema_version"`

	Meals            []Meal           `json:"meals"`
	Plans            []MealPlan       `json:"plans"`
	ActionLogEntries []ActionLogEntry `json:"action_log_entries"`
}
