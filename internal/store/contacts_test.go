package store

import (
	"testing"
	"time"

	"github.com/obrienmichael/personal-crm/internal/crmerr"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateContactDefaults(t *testing.T) {
	db := testDB(t)

	c, err := db.CreateContact("Alice")
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if c.ID == "" {
		t.Error("ID should be generated")
	}
	if c.RelationshipType != "unknown" {
		t.Errorf("RelationshipType = %q, want unknown", c.RelationshipType)
	}
	if c.LastInteraction != nil {
		t.Error("LastInteraction should be nil for a fresh contact")
	}
}

func TestContactNameUnique(t *testing.T) {
	db := testDB(t)

	if _, err := db.CreateContact("Alice"); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	_, err := db.CreateContact("Alice")
	if err == nil {
		t.Fatal("expected error creating duplicate name")
	}
	if !crmerr.HasCode(err, crmerr.ConstraintViolation) {
		t.Errorf("code = %v, want ConstraintViolation", crmerr.CodeOf(err))
	}
}

func TestGetContactByName(t *testing.T) {
	db := testDB(t)

	// Not found returns nil
	c, err := db.GetContactByName("nobody")
	if err != nil {
		t.Fatalf("GetContactByName: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil for missing contact, got %+v", c)
	}

	created, _ := db.CreateContact("Alice")
	c, err = db.GetContactByName("Alice")
	if err != nil {
		t.Fatalf("GetContactByName: %v", err)
	}
	if c == nil || c.ID != created.ID {
		t.Errorf("got %+v, want id %s", c, created.ID)
	}
}

func TestListContactsOrdering(t *testing.T) {
	db := testDB(t)

	// Never-contacted contact plus two with different last-interaction times.
	db.CreateContact("Quiet")
	now := time.Now()
	mustRecord(t, db, RecordParams{ContactName: "Older", TypeName: "sms",
		OccurredAt: now.AddDate(0, 0, -10).UnixMilli()})
	mustRecord(t, db, RecordParams{ContactName: "Newer", TypeName: "sms",
		OccurredAt: now.AddDate(0, 0, -1).UnixMilli()})

	contacts, err := db.ListContacts()
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(contacts) != 3 {
		t.Fatalf("got %d contacts, want 3", len(contacts))
	}
	if contacts[0].Name != "Newer" || contacts[1].Name != "Older" || contacts[2].Name != "Quiet" {
		t.Errorf("order = %s, %s, %s; want Newer, Older, Quiet",
			contacts[0].Name, contacts[1].Name, contacts[2].Name)
	}
}

func TestListOverdueContactsOrdering(t *testing.T) {
	db := testDB(t)

	now := time.Now()
	db.CreateContact("Never")
	mustRecord(t, db, RecordParams{ContactName: "Ancient", TypeName: "sms",
		OccurredAt: now.AddDate(0, 0, -60).UnixMilli()})
	mustRecord(t, db, RecordParams{ContactName: "Stale", TypeName: "sms",
		OccurredAt: now.AddDate(0, 0, -40).UnixMilli()})
	mustRecord(t, db, RecordParams{ContactName: "Fresh", TypeName: "sms",
		OccurredAt: now.AddDate(0, 0, -1).UnixMilli()})

	cutoff := now.AddDate(0, 0, -30).UnixMilli()
	overdue, err := db.ListOverdueContacts(cutoff)
	if err != nil {
		t.Fatalf("ListOverdueContacts: %v", err)
	}
	if len(overdue) != 3 {
		t.Fatalf("got %d overdue, want 3", len(overdue))
	}
	// Never-contacted first, then oldest last-interaction.
	if overdue[0].Name != "Never" || overdue[1].Name != "Ancient" || overdue[2].Name != "Stale" {
		t.Errorf("order = %s, %s, %s; want Never, Ancient, Stale",
			overdue[0].Name, overdue[1].Name, overdue[2].Name)
	}
}

func TestUpdateContact(t *testing.T) {
	db := testDB(t)

	c, _ := db.CreateContact("Alice")
	phone := "555-0100"
	rel := "friend"
	updated, err := db.UpdateContact(c.ID, ContactUpdate{Phone: &phone, RelationshipType: &rel})
	if err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}
	if updated.Phone != "555-0100" || updated.RelationshipType != "friend" {
		t.Errorf("got %+v", updated)
	}
	// Unchanged field survives
	if updated.Email != "" {
		t.Errorf("Email = %q, want empty", updated.Email)
	}

	// Missing contact
	_, err = db.UpdateContact("nope", ContactUpdate{Phone: &phone})
	if !crmerr.HasCode(err, crmerr.NotFound) {
		t.Errorf("code = %v, want NotFound", crmerr.CodeOf(err))
	}
}

func TestDeleteContactCascades(t *testing.T) {
	db := testDB(t)

	_, contact, err := db.RecordInteraction(RecordParams{
		ContactName: "Alice", TypeName: "phone_call", OccurredAt: time.Now().UnixMilli(),
	})
	if err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	if _, err := db.CreateGoal(contact.ID, 14); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	if err := db.DeleteContact(contact.ID); err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}

	var interactions, goals int
	db.QueryRow("SELECT COUNT(*) FROM interactions").Scan(&interactions)
	db.QueryRow("SELECT COUNT(*) FROM relationship_goals").Scan(&goals)
	if interactions != 0 || goals != 0 {
		t.Errorf("cascade left %d interactions, %d goals", interactions, goals)
	}

	// Deleting again is NotFound
	err = db.DeleteContact(contact.ID)
	if !crmerr.HasCode(err, crmerr.NotFound) {
		t.Errorf("code = %v, want NotFound", crmerr.CodeOf(err))
	}
}

func mustRecord(t *testing.T, db *DB, p RecordParams) *Interaction {
	t.Helper()
	in, _, err := db.RecordInteraction(p)
	if err != nil {
		t.Fatalf("RecordInteraction(%s, %s): %v", p.ContactName, p.TypeName, err)
	}
	return in
}
