package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/obrienmichael/personal-crm/internal/crmerr"
)

// Interaction is one immutable logged contact event. OccurredAt may be
// backdated; CreatedAt records insertion time.
type Interaction struct {
	ID              string
	ContactID       string
	TypeID          int64
	TypeName        string
	Direction       string
	OccurredAt      int64
	DurationSeconds *int64
	Subject         string
	Notes           string
	CreatedAt       int64
}

// InteractionFeedItem is an interaction annotated with its contact's name
// and the type's description, for the recent-activity feed.
type InteractionFeedItem struct {
	Interaction
	ContactName     string
	TypeDescription string
}

// RecordParams are the inputs to a single recording transaction. All
// validation (blank name, unknown type, bad direction) happens in the
// engine before this is called; the store still fails closed on foreign
// keys.
type RecordParams struct {
	ContactName     string
	TypeName        string
	Direction       string
	OccurredAt      int64
	DurationSeconds *int64
	Subject         string
	Notes           string
}

// RecordInteraction executes the recording transaction: resolve the contact
// by name (creating one if absent), look up the type, insert the
// interaction, and refresh the contact's derived last-interaction timestamp
// to the true MAX(occurred_at). Any failure rolls back the whole unit, so a
// rejected interaction never leaves behind a half-created contact.
func (db *DB) RecordInteraction(p RecordParams) (*Interaction, *Contact, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, nil, translateErr(err, "begin record interaction")
	}
	defer tx.Rollback()

	contact, err := resolveContactTx(tx, p.ContactName)
	if err != nil {
		return nil, nil, err
	}

	var typeID int64
	err = tx.QueryRow("SELECT id FROM interaction_types WHERE name = ?", p.TypeName).Scan(&typeID)
	if err == sql.ErrNoRows {
		return nil, nil, crmerr.New(crmerr.UnknownInteractionType, "unknown interaction type %q", p.TypeName)
	}
	if err != nil {
		return nil, nil, translateErr(err, "look up interaction type")
	}

	now := time.Now().UnixMilli()
	in := &Interaction{
		ID:              uuid.NewString(),
		ContactID:       contact.ID,
		TypeID:          typeID,
		TypeName:        p.TypeName,
		Direction:       p.Direction,
		OccurredAt:      p.OccurredAt,
		DurationSeconds: p.DurationSeconds,
		Subject:         p.Subject,
		Notes:           p.Notes,
		CreatedAt:       now,
	}

	_, err = tx.Exec(`
		INSERT INTO interactions (id, contact_id, type_id, direction, occurred_at,
			duration_seconds, subject, notes, created_at)
		VALUES (?, ?, ?, NULLIF(?, ''), ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?)
	`, in.ID, in.ContactID, in.TypeID, in.Direction, in.OccurredAt,
		in.DurationSeconds, in.Subject, in.Notes, in.CreatedAt)
	if err != nil {
		return nil, nil, translateErr(err, "insert interaction")
	}

	// Refresh the derived timestamp to the maximum occurrence time rather
	// than "now": backdated inserts must never bump last contact forward.
	_, err = tx.Exec(`
		UPDATE contacts SET
			last_interaction = (SELECT MAX(occurred_at) FROM interactions WHERE contact_id = ?),
			updated_at = ?
		WHERE id = ?
	`, contact.ID, now, contact.ID)
	if err != nil {
		return nil, nil, translateErr(err, "refresh last interaction")
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, translateErr(err, "commit record interaction")
	}

	refreshed, err := db.GetContact(contact.ID)
	if err != nil {
		return nil, nil, err
	}
	return in, refreshed, nil
}

// resolveContactTx finds a contact by exact name within the transaction, or
// creates one. The UNIQUE name constraint turns a lost creation race into a
// ConstraintViolation instead of a silent duplicate.
func resolveContactTx(tx *sql.Tx, name string) (*Contact, error) {
	row := tx.QueryRow("SELECT "+contactColumns+" FROM contacts WHERE name = ?", name)
	c, err := scanContactRow(row)
	if err == nil {
		return c, nil
	}
	if err != sql.ErrNoRows {
		return nil, translateErr(err, "resolve contact")
	}

	now := time.Now().UnixMilli()
	id := uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO contacts (id, name, relationship_type, created_at, updated_at)
		VALUES (?, ?, 'unknown', ?, ?)
	`, id, name, now, now)
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("create contact %q", name))
	}
	return &Contact{
		ID:               id,
		Name:             name,
		RelationshipType: "unknown",
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

const interactionColumns = `i.id, i.contact_id, i.type_id, t.name, i.direction,
	i.occurred_at, i.duration_seconds, i.subject, i.notes, i.created_at`

// ListRecentInteractions returns the most recent limit interactions across
// all contacts, newest occurrence first, annotated with contact name and
// type description.
func (db *DB) ListRecentInteractions(limit int) ([]InteractionFeedItem, error) {
	rows, err := db.Query(`
		SELECT `+interactionColumns+`, c.name, t.description
		FROM interactions i
		JOIN contacts c ON c.id = i.contact_id
		JOIN interaction_types t ON t.id = i.type_id
		ORDER BY i.occurred_at DESC, i.created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, translateErr(err, "list recent interactions")
	}
	defer rows.Close()

	var items []InteractionFeedItem
	for rows.Next() {
		var item InteractionFeedItem
		if err := scanInteraction(rows, &item.Interaction, &item.ContactName, &item.TypeDescription); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListInteractionsByContact returns a contact's full history, newest
// occurrence first.
func (db *DB) ListInteractionsByContact(contactID string) ([]Interaction, error) {
	rows, err := db.Query(`
		SELECT `+interactionColumns+`
		FROM interactions i
		JOIN interaction_types t ON t.id = i.type_id
		WHERE i.contact_id = ?
		ORDER BY i.occurred_at DESC, i.created_at DESC
	`, contactID)
	if err != nil {
		return nil, translateErr(err, "list interactions by contact")
	}
	defer rows.Close()

	var interactions []Interaction
	for rows.Next() {
		var in Interaction
		if err := scanInteraction(rows, &in); err != nil {
			return nil, err
		}
		interactions = append(interactions, in)
	}
	return interactions, rows.Err()
}

// InteractionAggregates are the raw per-contact aggregates; the engine
// derives the cadence average from First/Last/Total.
type InteractionAggregates struct {
	Total    int
	Outgoing int
	Incoming int
	First    *int64
	Last     *int64
}

// ContactInteractionAggregates computes counts, the direction split, and
// first/last occurrence timestamps for one contact.
func (db *DB) ContactInteractionAggregates(contactID string) (*InteractionAggregates, error) {
	var agg InteractionAggregates
	var first, last sql.NullInt64
	err := db.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN direction = 'outgoing' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN direction = 'incoming' THEN 1 ELSE 0 END), 0),
			MIN(occurred_at), MAX(occurred_at)
		FROM interactions WHERE contact_id = ?
	`, contactID).Scan(&agg.Total, &agg.Outgoing, &agg.Incoming, &first, &last)
	if err != nil {
		return nil, translateErr(err, "aggregate interactions")
	}
	if first.Valid {
		agg.First = &first.Int64
	}
	if last.Valid {
		agg.Last = &last.Int64
	}
	return &agg, nil
}

// scanInteraction scans the interactionColumns set plus any extra columns.
func scanInteraction(rows *sql.Rows, in *Interaction, extra ...any) error {
	var direction, subject, notes sql.NullString
	var duration sql.NullInt64
	dest := []any{&in.ID, &in.ContactID, &in.TypeID, &in.TypeName, &direction,
		&in.OccurredAt, &duration, &subject, &notes, &in.CreatedAt}
	dest = append(dest, extra...)
	if err := rows.Scan(dest...); err != nil {
		return fmt.Errorf("scan interaction: %w", err)
	}
	in.Direction = direction.String
	in.Subject = subject.String
	in.Notes = notes.String
	if duration.Valid {
		in.DurationSeconds = &duration.Int64
	}
	return nil
}
