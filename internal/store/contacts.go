package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/obrienmichael/personal-crm/internal/crmerr"
)

// Contact is a tracked person. LastInteraction is derived from the
// interaction history (Unix ms); nil means never contacted.
type Contact struct {
	ID               string
	Name             string
	Phone            string
	Email            string
	RelationshipType string
	LastInteraction  *int64
	CreatedAt        int64
	UpdatedAt        int64
}

const contactColumns = "id, name, phone, email, relationship_type, last_interaction, created_at, updated_at"

// CreateContact inserts a new contact with the given name, relationship
// defaulted to "unknown" and all optional fields null.
func (db *DB) CreateContact(name string) (*Contact, error) {
	now := time.Now().UnixMilli()
	id := uuid.NewString()
	_, err := db.Exec(`
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

// GetContact returns a contact by id, or nil if not found.
func (db *DB) GetContact(id string) (*Contact, error) {
	row := db.QueryRow("SELECT "+contactColumns+" FROM contacts WHERE id = ?", id)
	c, err := scanContact(row)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetContactByName returns a contact by exact display name, or nil if not
// found. Names are the natural key: the schema enforces uniqueness.
func (db *DB) GetContactByName(name string) (*Contact, error) {
	row := db.QueryRow("SELECT "+contactColumns+" FROM contacts WHERE name = ?", name)
	return scanContact(row)
}

// ListContacts returns all contacts ordered by last-interaction timestamp
// descending, never-contacted (NULL) last, ties broken by name.
func (db *DB) ListContacts() ([]Contact, error) {
	rows, err := db.Query(`
		SELECT ` + contactColumns + ` FROM contacts
		ORDER BY last_interaction IS NULL, last_interaction DESC, name
	`)
	if err != nil {
		return nil, translateErr(err, "list contacts")
	}
	defer rows.Close()
	return scanContacts(rows)
}

// ListOverdueContacts returns contacts never contacted or last contacted
// strictly before cutoff (Unix ms), most overdue first: NULLs lead, then
// last_interaction ascending.
func (db *DB) ListOverdueContacts(cutoff int64) ([]Contact, error) {
	rows, err := db.Query(`
		SELECT `+contactColumns+` FROM contacts
		WHERE last_interaction IS NULL OR last_interaction < ?
		ORDER BY last_interaction IS NOT NULL, last_interaction, name
	`, cutoff)
	if err != nil {
		return nil, translateErr(err, "list overdue contacts")
	}
	defer rows.Close()
	return scanContacts(rows)
}

// ContactUpdate carries the editable contact fields. Nil fields are left
// unchanged. The derived last-interaction timestamp is not editable here.
type ContactUpdate struct {
	Phone            *string
	Email            *string
	RelationshipType *string
}

// UpdateContact applies upd to a contact and touches updated_at.
func (db *DB) UpdateContact(id string, upd ContactUpdate) (*Contact, error) {
	existing, err := db.GetContact(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, crmerr.New(crmerr.NotFound, "contact %s not found", id)
	}

	if upd.Phone != nil {
		existing.Phone = *upd.Phone
	}
	if upd.Email != nil {
		existing.Email = *upd.Email
	}
	if upd.RelationshipType != nil {
		existing.RelationshipType = *upd.RelationshipType
	}

	now := time.Now().UnixMilli()
	_, err = db.Exec(`
		UPDATE contacts SET phone = NULLIF(?, ''), email = NULLIF(?, ''),
			relationship_type = ?, updated_at = ?
		WHERE id = ?
	`, existing.Phone, existing.Email, existing.RelationshipType, now, id)
	if err != nil {
		return nil, translateErr(err, fmt.Sprintf("update contact %s", id))
	}
	existing.UpdatedAt = now
	return existing, nil
}

// DeleteContact removes a contact; interactions and goals cascade.
func (db *DB) DeleteContact(id string) error {
	result, err := db.Exec("DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return translateErr(err, fmt.Sprintf("delete contact %s", id))
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return crmerr.New(crmerr.NotFound, "contact %s not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContactRow(s rowScanner) (*Contact, error) {
	var c Contact
	var phone, email sql.NullString
	var lastInteraction sql.NullInt64
	err := s.Scan(&c.ID, &c.Name, &phone, &email, &c.RelationshipType,
		&lastInteraction, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Phone = phone.String
	c.Email = email.String
	if lastInteraction.Valid {
		c.LastInteraction = &lastInteraction.Int64
	}
	return &c, nil
}

func scanContact(row *sql.Row) (*Contact, error) {
	c, err := scanContactRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, translateErr(err, "scan contact")
	}
	return c, nil
}

func scanContacts(rows *sql.Rows) ([]Contact, error) {
	var contacts []Contact
	for rows.Next() {
		c, err := scanContactRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}
