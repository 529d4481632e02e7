// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"

	"github.com/revgate/revgate/internal/domain/ledger"
)

// ProfileHandler handles competency profile requests.
type ProfileHandler struct {
	deps Dependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps Dependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

// profilePayload mirrors the read shape of a competency profile.
type profilePayload struct {
	CustomerID         string  `json:"customer_id"`
	CustomerAnalysis   float64 `json:"customer_analysis"`
	ValueCommunication float64 `json:"value_communication"`
	SalesExecution     float64 `json:"sales_execution"`
	TotalPoints        float64 `json:"total_points"`
	Tier               string  `json:"tier"`
}

func newProfilePayload(p ledger.Profile) profilePayload {
	return profilePayload{
		CustomerID:         p.CustomerID,
		CustomerAnalysis:   p.CustomerAnalysis,
		ValueCommunication: p.ValueCommunication,
		SalesExecution:     p.SalesExecution,
		TotalPoints:        p.TotalPoints,
		Tier:               p.Tier,
	}
}

// HandleGetProfile handles GET /profile/{customer_id} requests.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /profile/
	path := strings.TrimPrefix(r.URL.Path, "/profile/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	profile, err := h.deps.ProfileSnapshot(r.Context(), path)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfilePayload(profile))
}
