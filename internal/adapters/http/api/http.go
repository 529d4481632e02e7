// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/revgate/revgate/internal/adapters/repository"
	"github.com/revgate/revgate/internal/domain/fitscore"
	"github.com/revgate/revgate/internal/domain/ledger"
	"github.com/revgate/revgate/internal/domain/model"
	"github.com/revgate/revgate/internal/domain/projection"
	"github.com/revgate/revgate/internal/domain/types"
	"github.com/revgate/revgate/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// ScoreEntity runs the fit scorer for a customer's session.
	ScoreEntity(ctx context.Context, customerID, entityName string, criteria fitscore.CriteriaSet) (fitscore.Breakdown, error)

	// ProjectCost runs the cost projector for a customer's session.
	ProjectCost(ctx context.Context, customerID string, assumptions projection.Assumptions) (projection.Projection, error)

	// ApplyAward applies one award event; duplicate ids return
	// ledger.ErrDuplicateEvent.
	ApplyAward(ctx context.Context, event model.AwardEvent) (ledger.Profile, error)

	// ToolAccessStatus evaluates the unlock gate for every tool.
	ToolAccessStatus(ctx context.Context, customerID string) (map[model.ToolID]types.ToolAccess, error)

	// ProfileSnapshot returns the current competency profile.
	ProfileSnapshot(ctx context.Context, customerID string) (ledger.Profile, error)
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	scoreHandler      *ScoreHandler
	projectionHandler *ProjectionHandler
	awardsHandler     *AwardsHandler
	accessHandler     *AccessHandler
	profileHandler    *ProfileHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		scoreHandler:      NewScoreHandler(deps),
		projectionHandler: NewProjectionHandler(deps),
		awardsHandler:     NewAwardsHandler(deps),
		accessHandler:     NewAccessHandler(deps),
		profileHandler:    NewProfileHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandlePostScore, "score"))
	mux.HandleFunc("/projection", MetricsMiddleware(s.projectionHandler.HandlePostProjection, "projection"))
	mux.HandleFunc("/awards", MetricsMiddleware(s.awardsHandler.HandlePostAward, "awards"))
	mux.HandleFunc("/access/", MetricsMiddleware(s.accessHandler.HandleGetAccess, "access"))
	mux.HandleFunc("/profile/", MetricsMiddleware(s.profileHandler.HandleGetProfile, "profile"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates engine sentinels to HTTP statuses. Validation
// and configuration errors are client errors; everything else is a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fitscore.ErrInvalidCriteria):
		writeError(w, http.StatusUnprocessableEntity, "invalid_criteria", err)
	case errors.Is(err, fitscore.ErrEmptyEntity),
		errors.Is(err, fitscore.ErrNoScore):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, projection.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_data", err)
	case errors.Is(err, ledger.ErrInvalidAward):
		writeError(w, http.StatusBadRequest, "invalid_award", err)
	case errors.Is(err, ledger.ErrProfileNotFound),
		errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
