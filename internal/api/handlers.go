package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/leadflowhq/leadflow/internal/lead"
	"github.com/leadflowhq/leadflow/internal/prospect"
	"github.com/leadflowhq/leadflow/pkg/statemachine"
)

type leadResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email,omitempty"`
	FirstName      string    `json:"first_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	Company        string    `json:"company,omitempty"`
	Title          string    `json:"title,omitempty"`
	Industry       string    `json:"industry,omitempty"`
	Source         string    `json:"source,omitempty"`
	State          string    `json:"state"`
	StateEnteredAt time.Time `json:"state_entered_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toLeadResponse(l lead.Lead) leadResponse {
	return leadResponse{
		ID:             l.ID.String(),
		Email:          l.Email,
		FirstName:      l.FirstName,
		LastName:       l.LastName,
		Company:        l.Company,
		Title:          l.Title,
		Industry:       l.Industry,
		Source:         l.Source,
		State:          l.State.Name(),
		StateEnteredAt: l.StateEnteredAt,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

type transitionResponse struct {
	FromState  string              `json:"from_state"`
	Event      string              `json:"event"`
	ToState    string              `json:"to_state"`
	Payload    statemachine.Payload `json:"payload,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}

type applyEventRequest struct {
	Event   string               `json:"event"`
	Payload statemachine.Payload `json:"payload,omitempty"`
}

type handlers struct {
	leads    *lead.Service
	pipeline *prospect.Pipeline
}

// createLead ingests a raw lead through the prospecting pipeline.
func (h *handlers) createLead(w http.ResponseWriter, r *http.Request) {
	var raw prospect.RawLead
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	result, err := h.pipeline.Ingest(r.Context(), raw)
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusOK
	if result.Status == prospect.StatusCreated {
		status = http.StatusCreated
	}
	respond(w, status, result)
}

// applyEvent is the sole mutation endpoint for existing leads.
func (h *handlers) applyEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	var req applyEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	event, err := lead.ParseEvent(req.Event)
	if err != nil {
		respondError(w, err)
		return
	}

	newState, err := h.leads.ApplyEvent(r.Context(), id, event, req.Payload)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]string{
		"lead_id": id.String(),
		"state":   newState.Name(),
	})
}

func (h *handlers) getLead(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	l, err := h.leads.Lead(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, toLeadResponse(l))
}

func (h *handlers) getHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	l, err := h.leads.Lead(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	history, err := h.leads.History(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	transitions := make([]transitionResponse, len(history))
	for i, rec := range history {
		transitions[i] = transitionResponse{
			FromState:  rec.FromState.Name(),
			Event:      rec.Event.Name(),
			ToState:    rec.ToState.Name(),
			Payload:    rec.Payload,
			OccurredAt: rec.OccurredAt,
		}
	}

	respond(w, http.StatusOK, map[string]any{
		"lead_id":       id.String(),
		"current_state": l.State.Name(),
		"event_count":   len(transitions),
		"transitions":   transitions,
	})
}

func (h *handlers) listLeads(w http.ResponseWriter, r *http.Request) {
	filter := lead.ListFilter{Limit: 10}

	if s := r.URL.Query().Get("state"); s != "" {
		state, err := lead.ParseState(s)
		if err != nil {
			respondError(w, err)
			return
		}
		filter.State = &state
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 {
			respondBadRequest(w, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	leads, err := h.leads.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]leadResponse, len(leads))
	for i, l := range leads {
		out[i] = toLeadResponse(l)
	}
	respond(w, http.StatusOK, map[string]any{
		"count": len(out),
		"leads": out,
	})
}

func leadID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "leadID"))
	if err != nil {
		respondBadRequest(w, "lead id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
