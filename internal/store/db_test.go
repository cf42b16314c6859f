package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/obrienmichael/personal-crm/internal/crmerr"
)

func TestOpenMemory(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	if db.Path != ":memory:" {
		t.Errorf("Path = %q, want :memory:", db.Path)
	}
}

func TestSchemaVersion(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	v, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 4 {
		t.Errorf("SchemaVersion = %d, want 4", v)
	}
}

func TestTablesExist(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	tables := []string{"schema_versions", "contacts", "interaction_types", "interactions", "relationship_goals"}
	for _, table := range tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestSeedIdempotent(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	// Open already seeded once; seed twice more.
	for i := 0; i < 2; i++ {
		if err := db.SeedInteractionTypes(); err != nil {
			t.Fatalf("SeedInteractionTypes: %v", err)
		}
	}

	types, err := db.ListInteractionTypes()
	if err != nil {
		t.Fatalf("ListInteractionTypes: %v", err)
	}
	if len(types) != 7 {
		t.Errorf("got %d interaction types, want 7", len(types))
	}
}

func TestForeignKeysEnforcedAcrossConnections(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "crm.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	_, contact, err := db.RecordInteraction(RecordParams{
		ContactName: "Alice", TypeName: "phone_call", OccurredAt: time.Now().UnixMilli(),
	})
	if err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	if _, err := db.CreateGoal(contact.ID, 14); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	// Drop idle connections so the delete runs on a fresh pool connection.
	// Cascades must hold there too, not just on the connection that opened
	// the database.
	db.SetMaxIdleConns(0)

	if err := db.DeleteContact(contact.ID); err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}
	var interactions, goals int
	db.QueryRow("SELECT COUNT(*) FROM interactions").Scan(&interactions)
	db.QueryRow("SELECT COUNT(*) FROM relationship_goals").Scan(&goals)
	if interactions != 0 || goals != 0 {
		t.Errorf("cascade left %d orphan interactions, %d orphan goals", interactions, goals)
	}

	// Rejection of dangling references must survive rotation as well.
	db.SetMaxIdleConns(0)
	_, err = db.CreateGoal("no-such-contact", 7)
	if !crmerr.HasCode(err, crmerr.ConstraintViolation) {
		t.Errorf("code = %v, want ConstraintViolation", crmerr.CodeOf(err))
	}
}

func TestGetInteractionTypeByName(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	it, err := db.GetInteractionTypeByName("phone_call")
	if err != nil {
		t.Fatalf("GetInteractionTypeByName: %v", err)
	}
	if it == nil {
		t.Fatal("phone_call should be seeded")
	}
	if it.Description != "Phone call" {
		t.Errorf("Description = %q, want Phone call", it.Description)
	}

	// Unknown types are nil, not errors
	it, err = db.GetInteractionTypeByName("carrier_pigeon")
	if err != nil {
		t.Fatalf("GetInteractionTypeByName unknown: %v", err)
	}
	if it != nil {
		t.Errorf("expected nil for unknown type, got %+v", it)
	}
}
