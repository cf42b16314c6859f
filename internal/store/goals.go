package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/obrienmichael/personal-crm/internal/crmerr"
)

// RelationshipGoal is a per-contact target cadence. Pure data holder:
// nothing in this core evaluates goal violations yet.
type RelationshipGoal struct {
	ID            string
	ContactID     string
	FrequencyDays int64
	LastFulfilled *int64
	CreatedAt     int64
	UpdatedAt     int64
}

// CreateGoal inserts a cadence goal for an existing contact.
func (db *DB) CreateGoal(contactID string, frequencyDays int64) (*RelationshipGoal, error) {
	now := time.Now().UnixMilli()
	g := &RelationshipGoal{
		ID:            uuid.NewString(),
		ContactID:     contactID,
		FrequencyDays: frequencyDays,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	_, err := db.Exec(`
		INSERT INTO relationship_goals (id, contact_id, frequency_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, g.ID, g.ContactID, g.FrequencyDays, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("create goal for contact %s", contactID))
	}
	return g, nil
}

// ListGoalsByContact returns a contact's goals, newest first.
func (db *DB) ListGoalsByContact(contactID string) ([]RelationshipGoal, error) {
	rows, err := db.Query(`
		SELECT id, contact_id, frequency_days, last_fulfilled, created_at, updated_at
		FROM relationship_goals WHERE contact_id = ?
		ORDER BY created_at DESC
	`, contactID)
	if err != nil {
		return nil, translateErr(err, "list goals")
	}
	defer rows.Close()

	var goals []RelationshipGoal
	for rows.Next() {
		var g RelationshipGoal
		var fulfilled sql.NullInt64
		if err := rows.Scan(&g.ID, &g.ContactID, &g.FrequencyDays, &fulfilled, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if fulfilled.Valid {
			g.LastFulfilled = &fulfilled.Int64
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// DeleteGoal removes a goal by id.
func (db *DB) DeleteGoal(id string) error {
	result, err := db.Exec("DELETE FROM relationship_goals WHERE id = ?", id)
	if err != nil {
		return translateErr(err, fmt.Sprintf("delete goal %s", id))
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return crmerr.New(crmerr.NotFound, "goal %s not found", id)
	}
	return nil
}
