package store

import (
	"database/sql"
	"fmt"
)

// InteractionType is one entry in the closed catalog. Read-only at runtime.
type InteractionType struct {
	ID          int64
	Name        string
	Description string
}

// catalogSeed is the full interaction-type catalog. Unknown type names are
// rejected at recording time, never auto-created.
var catalogSeed = []InteractionType{
	{Name: "phone_call", Description: "Phone call"},
	{Name: "facetime_audio", Description: "FaceTime audio call"},
	{Name: "facetime_video", Description: "FaceTime video call"},
	{Name: "sms", Description: "Text message (SMS)"},
	{Name: "imessage", Description: "iMessage"},
	{Name: "email", Description: "Email"},
	{Name: "calendar_meeting", Description: "Calendar meeting"},
}

// SeedInteractionTypes loads the catalog. Idempotent: re-running leaves
// existing rows untouched and never duplicates.
func (db *DB) SeedInteractionTypes() error {
	for _, it := range catalogSeed {
		_, err := db.Exec(`
			INSERT INTO interaction_types (name, description) VALUES (?, ?)
			ON CONFLICT(name) DO NOTHING
		`, it.Name, it.Description)
		if err != nil {
			return fmt.Errorf("seed type %q: %w", it.Name, err)
		}
	}
	return nil
}

// ListInteractionTypes returns the catalog ordered by name.
func (db *DB) ListInteractionTypes() ([]InteractionType, error) {
	rows, err := db.Query("SELECT id, name, description FROM interaction_types ORDER BY name")
	if err != nil {
		return nil, translateErr(err, "list interaction types")
	}
	defer rows.Close()

	var types []InteractionType
	for rows.Next() {
		var it InteractionType
		if err := rows.Scan(&it.ID, &it.Name, &it.Description); err != nil {
			return nil, fmt.Errorf("scan interaction type: %w", err)
		}
		types = append(types, it)
	}
	return types, rows.Err()
}

// GetInteractionTypeByName returns a catalog entry, or nil if not found.
func (db *DB) GetInteractionTypeByName(name string) (*InteractionType, error) {
	var it InteractionType
	err := db.QueryRow(
		"SELECT id, name, description FROM interaction_types WHERE name = ?", name,
	).Scan(&it.ID, &it.Name, &it.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, translateErr(err, "get interaction type")
	}
	return &it, nil
}
