// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/revgate/revgate/internal/domain/ledger"
	"github.com/revgate/revgate/internal/domain/model"
)

// AwardsHandler handles award event requests.
type AwardsHandler struct {
	deps Dependencies
}

// NewAwardsHandler creates a new awards handler.
func NewAwardsHandler(deps Dependencies) *AwardsHandler {
	return &AwardsHandler{deps: deps}
}

// awardRequest mirrors the OpenAPI schema for POST /awards. An omitted
// event_id gets a generated one downstream; an omitted ts defaults to now.
type awardRequest struct {
	EventID    string  `json:"event_id"`
	CustomerID string  `json:"customer_id"`
	Points     float64 `json:"points"`
	Category   string  `json:"category"`
	Reason     string  `json:"reason"`
	TS         string  `json:"ts"`
}

func (a awardRequest) validate() error {
	switch {
	case strings.TrimSpace(a.CustomerID) == "":
		return errors.New("missing customer_id")
	case a.Points <= 0:
		return errors.New("points must be positive")
	case !model.Category(a.Category).Valid():
		return errors.New("unknown category")
	}
	if a.TS != "" {
		if _, err := time.Parse(time.RFC3339, a.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

func (a awardRequest) event() model.AwardEvent {
	ts := time.Now().UTC()
	if a.TS != "" {
		ts, _ = time.Parse(time.RFC3339, a.TS)
	}
	return model.AwardEvent{
		EventID:    strings.TrimSpace(a.EventID),
		CustomerID: a.CustomerID,
		Points:     a.Points,
		Category:   model.Category(a.Category),
		Reason:     a.Reason,
		TS:         ts,
	}
}

type awardResponse struct {
	Status    string          `json:"status"`
	Duplicate bool            `json:"duplicate"`
	Profile   *profilePayload `json:"profile,omitempty"`
}

// HandlePostAward handles POST /awards requests.
func (h *AwardsHandler) HandlePostAward(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_award"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req awardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	profile, err := h.deps.ApplyAward(r.Context(), req.event())
	if err != nil {
		// Replays acknowledge without reapplying
		if errors.Is(err, ledger.ErrDuplicateEvent) {
			writeJSON(w, http.StatusOK, awardResponse{Status: "duplicate", Duplicate: true})
			return
		}
		writeDomainError(w, err)
		return
	}

	payload := newProfilePayload(profile)
	writeJSON(w, http.StatusOK, awardResponse{Status: "applied", Duplicate: false, Profile: &payload})
}
