package store

import (
	"testing"
	"time"

	"github.com/obrienmichael/personal-crm/internal/crmerr"
)

func TestRecordInteractionCreatesContact(t *testing.T) {
	db := testDB(t)

	in, contact, err := db.RecordInteraction(RecordParams{
		ContactName: "Alice", TypeName: "phone_call",
		Direction: "outgoing", OccurredAt: time.Now().UnixMilli(),
	})
	if err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	if contact.Name != "Alice" || contact.RelationshipType != "unknown" {
		t.Errorf("contact = %+v", contact)
	}
	if in.ContactID != contact.ID {
		t.Errorf("ContactID = %s, want %s", in.ContactID, contact.ID)
	}
	if contact.LastInteraction == nil || *contact.LastInteraction != in.OccurredAt {
		t.Errorf("LastInteraction = %v, want %d", contact.LastInteraction, in.OccurredAt)
	}
}

func TestRecordInteractionReusesContact(t *testing.T) {
	db := testDB(t)

	_, c1, _ := db.RecordInteraction(RecordParams{
		ContactName: "Alice", TypeName: "sms", OccurredAt: time.Now().UnixMilli(),
	})
	_, c2, err := db.RecordInteraction(RecordParams{
		ContactName: "Alice", TypeName: "email", OccurredAt: time.Now().UnixMilli(),
	})
	if err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	if c1.ID != c2.ID {
		t.Errorf("contact ids differ: %s vs %s", c1.ID, c2.ID)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM contacts").Scan(&count)
	if count != 1 {
		t.Errorf("got %d contacts, want 1", count)
	}
}

func TestDerivedTimestampIsMaxOccurrence(t *testing.T) {
	db := testDB(t)

	now := time.Now()
	t1 := now.AddDate(0, 0, -3).UnixMilli()
	t2 := now.AddDate(0, 0, -2).UnixMilli()
	t3 := now.AddDate(0, 0, -1).UnixMilli()

	// Insert out of chronological order: the backdated insert must not
	// regress the derived timestamp, and a late-arriving older row must
	// not bump it forward.
	for _, ts := range []int64{t2, t3, t1} {
		mustRecord(t, db, RecordParams{ContactName: "Alice", TypeName: "sms", OccurredAt: ts})
	}

	contact, err := db.GetContactByName("Alice")
	if err != nil {
		t.Fatalf("GetContactByName: %v", err)
	}
	if contact.LastInteraction == nil || *contact.LastInteraction != t3 {
		t.Errorf("LastInteraction = %v, want %d", contact.LastInteraction, t3)
	}
}

func TestRecordInteractionUnknownTypeRollsBack(t *testing.T) {
	db := testDB(t)

	_, _, err := db.RecordInteraction(RecordParams{
		ContactName: "Ghost", TypeName: "carrier_pigeon", OccurredAt: time.Now().UnixMilli(),
	})
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
	if !crmerr.HasCode(err, crmerr.UnknownInteractionType) {
		t.Errorf("code = %v, want UnknownInteractionType", crmerr.CodeOf(err))
	}

	// Full rollback: the implicitly-created contact is gone too.
	var contacts, interactions int
	db.QueryRow("SELECT COUNT(*) FROM contacts").Scan(&contacts)
	db.QueryRow("SELECT COUNT(*) FROM interactions").Scan(&interactions)
	if contacts != 0 || interactions != 0 {
		t.Errorf("rollback left %d contacts, %d interactions", contacts, interactions)
	}
}

func TestListRecentInteractions(t *testing.T) {
	db := testDB(t)

	now := time.Now()
	for _, daysAgo := range []int{10, 1, 5} {
		mustRecord(t, db, RecordParams{
			ContactName: "Alice", TypeName: "sms",
			OccurredAt: now.AddDate(0, 0, -daysAgo).UnixMilli(),
		})
	}

	items, err := db.ListRecentInteractions(2)
	if err != nil {
		t.Fatalf("ListRecentInteractions: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].OccurredAt < items[1].OccurredAt {
		t.Error("feed not in descending occurrence order")
	}
	if items[0].ContactName != "Alice" {
		t.Errorf("ContactName = %q, want Alice", items[0].ContactName)
	}
	if items[0].TypeDescription != "Text message (SMS)" {
		t.Errorf("TypeDescription = %q", items[0].TypeDescription)
	}
}

func TestListInteractionsByContact(t *testing.T) {
	db := testDB(t)

	now := time.Now()
	_, alice, _ := db.RecordInteraction(RecordParams{
		ContactName: "Alice", TypeName: "email",
		Subject: "lunch?", OccurredAt: now.AddDate(0, 0, -2).UnixMilli(),
	})
	mustRecord(t, db, RecordParams{ContactName: "Alice", TypeName: "phone_call",
		OccurredAt: now.AddDate(0, 0, -1).UnixMilli()})
	mustRecord(t, db, RecordParams{ContactName: "Bob", TypeName: "sms",
		OccurredAt: now.UnixMilli()})

	history, err := db.ListInteractionsByContact(alice.ID)
	if err != nil {
		t.Fatalf("ListInteractionsByContact: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d interactions, want 2", len(history))
	}
	if history[0].TypeName != "phone_call" {
		t.Errorf("newest first: got %q", history[0].TypeName)
	}
	if history[1].Subject != "lunch?" {
		t.Errorf("Subject = %q, want lunch?", history[1].Subject)
	}
}

func TestContactInteractionAggregates(t *testing.T) {
	db := testDB(t)

	now := time.Now()
	_, alice, _ := db.RecordInteraction(RecordParams{
		ContactName: "Alice", TypeName: "sms", Direction: "outgoing",
		OccurredAt: now.AddDate(0, 0, -4).UnixMilli(),
	})
	mustRecord(t, db, RecordParams{ContactName: "Alice", TypeName: "sms",
		Direction: "incoming", OccurredAt: now.AddDate(0, 0, -2).UnixMilli()})
	mustRecord(t, db, RecordParams{ContactName: "Alice", TypeName: "sms",
		OccurredAt: now.UnixMilli()})

	agg, err := db.ContactInteractionAggregates(alice.ID)
	if err != nil {
		t.Fatalf("ContactInteractionAggregates: %v", err)
	}
	if agg.Total != 3 || agg.Outgoing != 1 || agg.Incoming != 1 {
		t.Errorf("agg = %+v", agg)
	}
	if agg.First == nil || agg.Last == nil || *agg.First >= *agg.Last {
		t.Errorf("First/Last = %v/%v", agg.First, agg.Last)
	}
}

func TestAggregatesEmpty(t *testing.T) {
	db := testDB(t)

	c, _ := db.CreateContact("Quiet")
	agg, err := db.ContactInteractionAggregates(c.ID)
	if err != nil {
		t.Fatalf("ContactInteractionAggregates: %v", err)
	}
	if agg.Total != 0 || agg.First != nil || agg.Last != nil {
		t.Errorf("agg = %+v, want all zero", agg)
	}
}
