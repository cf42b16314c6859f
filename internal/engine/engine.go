// Package engine implements the interaction-logging and engagement
// derivation core: contact resolution, transactional interaction
// recording, and the overdue/recent/statistics read paths.
package engine

import (
	"strings"

	"github.com/obrienmichael/personal-crm/internal/crmerr"
	"github.com/obrienmichael/personal-crm/internal/store"
)

// Engine wraps the store with validation and derivation logic. The store
// handle is injected so tests can run against an in-memory database.
type Engine struct {
	db *store.DB
}

// New creates an Engine over the given store.
func New(db *store.DB) *Engine {
	return &Engine{db: db}
}

// ResolveContact maps a display name to a contact, creating one with
// relationship "unknown" if absent. Never updates an existing contact.
func (e *Engine) ResolveContact(name string) (*store.Contact, error) {
	if strings.TrimSpace(name) == "" {
		return nil, crmerr.New(crmerr.InvalidArgument, "contact name must not be empty")
	}

	contact, err := e.db.GetContactByName(name)
	if err != nil {
		return nil, crmerr.Wrap(err, "resolve contact %q", name)
	}
	if contact != nil {
		return contact, nil
	}

	contact, err = e.db.CreateContact(name)
	if err != nil {
		return nil, crmerr.Wrap(err, "resolve contact %q", name)
	}
	return contact, nil
}

// InteractionTypes returns the seeded catalog.
func (e *Engine) InteractionTypes() ([]store.InteractionType, error) {
	return e.db.ListInteractionTypes()
}
