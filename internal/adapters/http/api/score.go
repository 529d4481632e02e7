// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/revgate/revgate/internal/domain/fitscore"
)

// ScoreHandler handles fit-scoring requests.
type ScoreHandler struct {
	deps Dependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps Dependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// scoreRequest mirrors the OpenAPI schema for POST /score.
type scoreRequest struct {
	CustomerID string             `json:"customer_id"`
	Entity     string             `json:"entity"`
	SetName    string             `json:"set_name"`
	Criteria   []criterionPayload `json:"criteria"`
}

type criterionPayload struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description,omitempty"`
}

func (s scoreRequest) validate() error {
	switch {
	case strings.TrimSpace(s.CustomerID) == "":
		return errors.New("missing customer_id")
	case strings.TrimSpace(s.Entity) == "":
		return errors.New("missing entity")
	case len(s.Criteria) == 0:
		return errors.New("missing criteria")
	}
	return nil
}

func (s scoreRequest) criteriaSet() fitscore.CriteriaSet {
	set := fitscore.CriteriaSet{Name: s.SetName}
	for _, c := range s.Criteria {
		set.Criteria = append(set.Criteria, fitscore.Criterion{
			Name:        c.Name,
			Weight:      c.Weight,
			Description: c.Description,
		})
	}
	return set
}

type scoreResponse struct {
	Entity         string                  `json:"entity"`
	OverallScore   int                     `json:"overall_score"`
	Recommendation string                  `json:"recommendation"`
	Criteria       []criterionScorePayload `json:"criteria"`
}

type criterionScorePayload struct {
	Criterion string  `json:"criterion"`
	Score     float64 `json:"score"`
	Weight    float64 `json:"weight"`
}

// HandlePostScore handles POST /score requests.
func (h *ScoreHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	breakdown, err := h.deps.ScoreEntity(r.Context(), req.CustomerID, req.Entity, req.criteriaSet())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := scoreResponse{
		Entity:         breakdown.Entity,
		OverallScore:   breakdown.Overall,
		Recommendation: breakdown.Recommendation,
		Criteria:       make([]criterionScorePayload, 0, len(breakdown.Criteria)),
	}
	for _, row := range breakdown.Criteria {
		resp.Criteria = append(resp.Criteria, criterionScorePayload{
			Criterion: row.Criterion,
			Score:     row.Score,
			Weight:    row.Weight,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
