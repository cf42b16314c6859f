package engine

import (
	"strings"
	"time"

	"github.com/obrienmichael/personal-crm/internal/crmerr"
	"github.com/obrienmichael/personal-crm/internal/store"
)

// RecordRequest carries one interaction to log. OccurredAt nil means "now";
// backdating is legal.
type RecordRequest struct {
	ContactName     string
	InteractionType string
	Direction       string
	OccurredAt      *time.Time
	DurationSeconds *int64
	Subject         string
	Notes           string
}

// RecordInteraction validates the request and runs the recording
// transaction. Validation failures are reported before anything touches
// the store; mid-transaction failures roll back completely, so an
// interaction is never left referencing a stale type and a contact is
// never half-created.
func (e *Engine) RecordInteraction(req RecordRequest) (*store.Interaction, *store.Contact, error) {
	if strings.TrimSpace(req.ContactName) == "" {
		return nil, nil, crmerr.New(crmerr.InvalidArgument, "contact_name is required")
	}
	if strings.TrimSpace(req.InteractionType) == "" {
		return nil, nil, crmerr.New(crmerr.InvalidArgument, "interaction_type is required")
	}
	switch req.Direction {
	case "", "incoming", "outgoing":
	default:
		return nil, nil, crmerr.New(crmerr.InvalidArgument,
			"direction must be incoming or outgoing, got %q", req.Direction)
	}
	if req.DurationSeconds != nil && *req.DurationSeconds < 0 {
		return nil, nil, crmerr.New(crmerr.InvalidArgument,
			"duration_seconds must not be negative, got %d", *req.DurationSeconds)
	}

	it, err := e.db.GetInteractionTypeByName(req.InteractionType)
	if err != nil {
		return nil, nil, crmerr.Wrap(err, "record interaction for %q", req.ContactName)
	}
	if it == nil {
		return nil, nil, crmerr.New(crmerr.UnknownInteractionType,
			"unknown interaction type %q (valid: %s)", req.InteractionType, e.validTypeNames())
	}

	occurred := time.Now()
	if req.OccurredAt != nil {
		occurred = *req.OccurredAt
	}

	interaction, contact, err := e.db.RecordInteraction(store.RecordParams{
		ContactName:     req.ContactName,
		TypeName:        req.InteractionType,
		Direction:       req.Direction,
		OccurredAt:      occurred.UnixMilli(),
		DurationSeconds: req.DurationSeconds,
		Subject:         req.Subject,
		Notes:           req.Notes,
	})
	if err != nil {
		return nil, nil, crmerr.Wrap(err, "record %s interaction for %q", req.InteractionType, req.ContactName)
	}
	return interaction, contact, nil
}

func (e *Engine) validTypeNames() string {
	types, err := e.db.ListInteractionTypes()
	if err != nil {
		return "catalog unavailable"
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}
