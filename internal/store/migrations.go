package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "contacts: tracked people with derived last-interaction timestamp",
		SQL: `
CREATE TABLE contacts (
    id                TEXT PRIMARY KEY,
    name              TEXT NOT NULL UNIQUE,
    phone             TEXT,
    email             TEXT,
    relationship_type TEXT NOT NULL DEFAULT 'unknown',

    -- Derived: MAX(occurred_at) over the contact's interactions, NULL when
    -- never contacted. Maintained inside the recording transaction.
    last_interaction  INTEGER,

    created_at        INTEGER NOT NULL,
    updated_at        INTEGER NOT NULL
);

CREATE INDEX idx_contacts_last_interaction ON contacts(last_interaction DESC);
`,
	},
	{
		Version:     2,
		Description: "interaction_types: closed catalog seeded at init",
		SQL: `
CREATE TABLE interaction_types (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL
);
`,
	},
	{
		Version:     3,
		Description: "interactions: immutable logged contact events",
		SQL: `
CREATE TABLE interactions (
    id               TEXT PRIMARY KEY,
    contact_id       TEXT NOT NULL,
    type_id          INTEGER NOT NULL,
    direction        TEXT CHECK (direction IN ('incoming', 'outgoing')),
    occurred_at      INTEGER NOT NULL,
    duration_seconds INTEGER,
    subject          TEXT,
    notes            TEXT,
    created_at       INTEGER NOT NULL,

    FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE,
    FOREIGN KEY (type_id) REFERENCES interaction_types(id)
);

CREATE INDEX idx_interactions_contact  ON interactions(contact_id);
CREATE INDEX idx_interactions_occurred ON interactions(occurred_at DESC);
`,
	},
	{
		Version:     4,
		Description: "relationship_goals: per-contact target cadence",
		SQL: `
CREATE TABLE relationship_goals (
    id             TEXT PRIMARY KEY,
    contact_id     TEXT NOT NULL,
    frequency_days INTEGER NOT NULL CHECK (frequency_days > 0),
    last_fulfilled INTEGER,
    created_at     INTEGER NOT NULL,
    updated_at     INTEGER NOT NULL,

    FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE
);

CREATE INDEX idx_goals_contact ON relationship_goals(contact_id);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
