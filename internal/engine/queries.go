package engine

import (
	"time"

	"github.com/obrienmichael/personal-crm/internal/crmerr"
	"github.com/obrienmichael/personal-crm/internal/store"
)

// DefaultRecentLimit is used when a caller does not supply a feed size.
const DefaultRecentLimit = 10

// OverdueContact is a contact past the caller's threshold.
// DaysSinceContact is nil for never-contacted contacts.
type OverdueContact struct {
	store.Contact
	DaysSinceContact *int
}

// ContactStats are the per-contact engagement statistics. AvgDaysBetween
// is nil when fewer than two interactions exist: there is no interval to
// average, which is not the same as zero.
type ContactStats struct {
	ContactID      string
	Name           string
	Total          int
	Outgoing       int
	Incoming       int
	First          *time.Time
	Last           *time.Time
	AvgDaysBetween *float64
}

// ListContacts returns all contacts, most recently contacted first,
// never-contacted last.
func (e *Engine) ListContacts() ([]store.Contact, error) {
	contacts, err := e.db.ListContacts()
	if err != nil {
		return nil, crmerr.Wrap(err, "list contacts")
	}
	return contacts, nil
}

// ContactDetails returns one contact and its full interaction history.
func (e *Engine) ContactDetails(id string) (*store.Contact, []store.Interaction, error) {
	contact, err := e.db.GetContact(id)
	if err != nil {
		return nil, nil, crmerr.Wrap(err, "get contact %s", id)
	}
	if contact == nil {
		return nil, nil, crmerr.New(crmerr.NotFound, "contact %s not found", id)
	}
	history, err := e.db.ListInteractionsByContact(id)
	if err != nil {
		return nil, nil, crmerr.Wrap(err, "get contact %s history", id)
	}
	return contact, history, nil
}

// ListOverdue returns contacts whose last interaction is absent or older
// than thresholdDays, most overdue first. The day arithmetic is done here,
// not in SQL, so the semantics stay auditable.
func (e *Engine) ListOverdue(thresholdDays int) ([]OverdueContact, error) {
	if thresholdDays < 0 {
		return nil, crmerr.New(crmerr.InvalidArgument,
			"days threshold must not be negative, got %d", thresholdDays)
	}

	now := time.Now()
	cutoff := now.AddDate(0, 0, -thresholdDays).UnixMilli()

	contacts, err := e.db.ListOverdueContacts(cutoff)
	if err != nil {
		return nil, crmerr.Wrap(err, "list overdue (threshold %d days)", thresholdDays)
	}

	overdue := make([]OverdueContact, 0, len(contacts))
	for _, c := range contacts {
		oc := OverdueContact{Contact: c}
		if c.LastInteraction != nil {
			days := int(now.Sub(time.UnixMilli(*c.LastInteraction)).Hours() / 24)
			oc.DaysSinceContact = &days
		}
		overdue = append(overdue, oc)
	}
	return overdue, nil
}

// RecentInteractions returns the limit most recent interactions across all
// contacts, annotated with contact name and type description.
func (e *Engine) RecentInteractions(limit int) ([]store.InteractionFeedItem, error) {
	if limit <= 0 {
		return nil, crmerr.New(crmerr.InvalidArgument, "limit must be positive, got %d", limit)
	}
	items, err := e.db.ListRecentInteractions(limit)
	if err != nil {
		return nil, crmerr.Wrap(err, "list recent interactions")
	}
	return items, nil
}

// Stats computes engagement statistics for one contact.
func (e *Engine) Stats(id string) (*ContactStats, error) {
	contact, err := e.db.GetContact(id)
	if err != nil {
		return nil, crmerr.Wrap(err, "get contact %s stats", id)
	}
	if contact == nil {
		return nil, crmerr.New(crmerr.NotFound, "contact %s not found", id)
	}

	agg, err := e.db.ContactInteractionAggregates(id)
	if err != nil {
		return nil, crmerr.Wrap(err, "get contact %s stats", id)
	}

	stats := &ContactStats{
		ContactID: contact.ID,
		Name:      contact.Name,
		Total:     agg.Total,
		Outgoing:  agg.Outgoing,
		Incoming:  agg.Incoming,
	}
	if agg.First != nil {
		t := time.UnixMilli(*agg.First)
		stats.First = &t
	}
	if agg.Last != nil {
		t := time.UnixMilli(*agg.Last)
		stats.Last = &t
	}

	// Average cadence: span between first and last divided by the number
	// of intervals. Undefined below two interactions.
	if agg.Total > 1 && agg.First != nil && agg.Last != nil {
		const msPerDay = 24 * 60 * 60 * 1000
		spanDays := float64(*agg.Last-*agg.First) / msPerDay
		avg := spanDays / float64(agg.Total-1)
		stats.AvgDaysBetween = &avg
	}
	return stats, nil
}
