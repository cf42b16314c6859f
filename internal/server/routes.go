package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/obrienmichael/personal-crm/internal/crmerr"
	"github.com/obrienmichael/personal-crm/internal/engine"
	"github.com/obrienmichael/personal-crm/internal/store"
)

type contactJSON struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Phone            string  `json:"phone,omitempty"`
	Email            string  `json:"email,omitempty"`
	RelationshipType string  `json:"relationship_type"`
	LastInteraction  *string `json:"last_interaction"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type interactionJSON struct {
	ID              string `json:"id"`
	ContactID       string `json:"contact_id"`
	Type            string `json:"type"`
	Direction       string `json:"direction,omitempty"`
	OccurredAt      string `json:"occurred_at"`
	DurationSeconds *int64 `json:"duration_seconds,omitempty"`
	Subject         string `json:"subject,omitempty"`
	Notes           string `json:"notes,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type goalJSON struct {
	ID            string  `json:"id"`
	ContactID     string  `json:"contact_id"`
	FrequencyDays int64   `json:"frequency_days"`
	LastFulfilled *string `json:"last_fulfilled"`
	CreatedAt     string  `json:"created_at"`
}

func msToRFC3339(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func msPtrToRFC3339(ms *int64) *string {
	if ms == nil {
		return nil
	}
	s := msToRFC3339(*ms)
	return &s
}

func toContactJSON(c store.Contact) contactJSON {
	return contactJSON{
		ID:               c.ID,
		Name:             c.Name,
		Phone:            c.Phone,
		Email:            c.Email,
		RelationshipType: c.RelationshipType,
		LastInteraction:  msPtrToRFC3339(c.LastInteraction),
		CreatedAt:        msToRFC3339(c.CreatedAt),
		UpdatedAt:        msToRFC3339(c.UpdatedAt),
	}
}

func toInteractionJSON(in store.Interaction) interactionJSON {
	return interactionJSON{
		ID:              in.ID,
		ContactID:       in.ContactID,
		Type:            in.TypeName,
		Direction:       in.Direction,
		OccurredAt:      msToRFC3339(in.OccurredAt),
		DurationSeconds: in.DurationSeconds,
		Subject:         in.Subject,
		Notes:           in.Notes,
		CreatedAt:       msToRFC3339(in.CreatedAt),
	}
}

func toGoalJSON(g store.RelationshipGoal) goalJSON {
	return goalJSON{
		ID:            g.ID,
		ContactID:     g.ContactID,
		FrequencyDays: g.FrequencyDays,
		LastFulfilled: msPtrToRFC3339(g.LastFulfilled),
		CreatedAt:     msToRFC3339(g.CreatedAt),
	}
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.engine.ListContacts()
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]contactJSON, len(contacts))
	for i, c := range contacts {
		out[i] = toContactJSON(c)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(out),
		"contacts": out,
	})
}

func (s *Server) handleContactDetails(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")

	contact, history, err := s.engine.ContactDetails(contactID)
	if err != nil {
		writeError(w, err)
		return
	}
	interactions := make([]interactionJSON, len(history))
	for i, in := range history {
		interactions[i] = toInteractionJSON(in)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"contact":      toContactJSON(*contact),
		"interactions": interactions,
	})
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")

	var req struct {
		Phone            *string `json:"phone"`
		Email            *string `json:"email"`
		RelationshipType *string `json:"relationship_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, crmerr.New(crmerr.InvalidArgument, "invalid json"))
		return
	}

	contact, err := s.db.UpdateContact(contactID, store.ContactUpdate{
		Phone:            req.Phone,
		Email:            req.Email,
		RelationshipType: req.RelationshipType,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContactJSON(*contact))
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")

	if err := s.db.DeleteContact(contactID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleContactStats(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")

	stats, err := s.engine.Stats(contactID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := map[string]any{
		"contact_id":     stats.ContactID,
		"name":           stats.Name,
		"total":          stats.Total,
		"outgoing_count": stats.Outgoing,
		"incoming_count": stats.Incoming,
	}
	if stats.First != nil {
		out["first_interaction"] = stats.First.UTC().Format(time.RFC3339)
	}
	if stats.Last != nil {
		out["last_interaction"] = stats.Last.UTC().Format(time.RFC3339)
	}
	if stats.AvgDaysBetween != nil {
		out["avg_days_between_interactions"] = *stats.AvgDaysBetween
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListOverdue(w http.ResponseWriter, r *http.Request) {
	daysParam := r.URL.Query().Get("days")
	if daysParam == "" {
		writeError(w, crmerr.New(crmerr.InvalidArgument, "days parameter required"))
		return
	}
	days, err := strconv.Atoi(daysParam)
	if err != nil {
		writeError(w, crmerr.New(crmerr.InvalidArgument, "days must be an integer, got %q", daysParam))
		return
	}

	overdue, err := s.engine.ListOverdue(days)
	if err != nil {
		writeError(w, err)
		return
	}

	type overdueJSON struct {
		contactJSON
		DaysSinceContact *int `json:"days_since_contact,omitempty"`
	}
	out := make([]overdueJSON, len(overdue))
	for i, oc := range overdue {
		out[i] = overdueJSON{toContactJSON(oc.Contact), oc.DaysSinceContact}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"threshold_days": days,
		"count":          len(out),
		"contacts":       out,
	})
}

func (s *Server) handleRecordInteraction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContactName     string `json:"contact_name"`
		InteractionType string `json:"interaction_type"`
		Direction       string `json:"direction"`
		OccurredAt      string `json:"occurred_at"`
		DurationSeconds *int64 `json:"duration_seconds"`
		Subject         string `json:"subject"`
		Notes           string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, crmerr.New(crmerr.InvalidArgument, "invalid json"))
		return
	}

	rec := engine.RecordRequest{
		ContactName:     req.ContactName,
		InteractionType: req.InteractionType,
		Direction:       req.Direction,
		DurationSeconds: req.DurationSeconds,
		Subject:         req.Subject,
		Notes:           req.Notes,
	}
	if req.OccurredAt != "" {
		t, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			writeError(w, crmerr.New(crmerr.InvalidArgument, "occurred_at must be RFC3339, got %q", req.OccurredAt))
			return
		}
		rec.OccurredAt = &t
	}

	interaction, contact, err := s.engine.RecordInteraction(rec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"interaction": toInteractionJSON(*interaction),
		"contact":     toContactJSON(*contact),
	})
}

func (s *Server) handleRecentInteractions(w http.ResponseWriter, r *http.Request) {
	limit := engine.DefaultRecentLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			writeError(w, crmerr.New(crmerr.InvalidArgument, "limit must be an integer, got %q", l))
			return
		}
		limit = n
	}

	items, err := s.engine.RecentInteractions(limit)
	if err != nil {
		writeError(w, err)
		return
	}

	type feedJSON struct {
		interactionJSON
		ContactName     string `json:"contact_name"`
		TypeDescription string `json:"type_description"`
	}
	out := make([]feedJSON, len(items))
	for i, item := range items {
		out[i] = feedJSON{toInteractionJSON(item.Interaction), item.ContactName, item.TypeDescription}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":        len(out),
		"interactions": out,
	})
}

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.engine.InteractionTypes()
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]string, len(types))
	for i, t := range types {
		out[i] = map[string]string{"name": t.Name, "description": t.Description}
	}
	writeJSON(w, http.StatusOK, map[string]any{"types": out})
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")

	var req struct {
		FrequencyDays int64 `json:"frequency_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, crmerr.New(crmerr.InvalidArgument, "invalid json"))
		return
	}
	if req.FrequencyDays <= 0 {
		writeError(w, crmerr.New(crmerr.InvalidArgument, "frequency_days must be positive, got %d", req.FrequencyDays))
		return
	}

	contact, err := s.db.GetContact(contactID)
	if err != nil {
		writeError(w, err)
		return
	}
	if contact == nil {
		writeError(w, crmerr.New(crmerr.NotFound, "contact %s not found", contactID))
		return
	}

	goal, err := s.db.CreateGoal(contactID, req.FrequencyDays)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalJSON(*goal))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")

	goals, err := s.db.ListGoalsByContact(contactID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]goalJSON, len(goals))
	for i, g := range goals {
		out[i] = toGoalJSON(g)
	}
	writeJSON(w, http.StatusOK, map[string]any{"goals": out})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")

	if err := s.db.DeleteGoal(goalID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
