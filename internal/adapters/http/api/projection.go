// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/revgate/revgate/internal/domain/projection"
)

// ProjectionHandler handles cost projection requests.
type ProjectionHandler struct {
	deps Dependencies
}

// NewProjectionHandler creates a new projection handler.
func NewProjectionHandler(deps Dependencies) *ProjectionHandler {
	return &ProjectionHandler{deps: deps}
}

// projectionRequest mirrors the OpenAPI schema for POST /projection.
// Zero-valued optional fields fall back to documented defaults.
type projectionRequest struct {
	CustomerID       string  `json:"customer_id"`
	Revenue          float64 `json:"revenue"`
	TargetGrowthRate float64 `json:"target_growth_rate"`
	AverageDealSize  float64 `json:"average_deal_size"`
	SalesCycleDays   float64 `json:"sales_cycle_days"`
	ConversionRate   float64 `json:"conversion_rate"`
	ChurnRate        float64 `json:"churn_rate"`
	HorizonMonths    int     `json:"horizon_months"`
}

func (p projectionRequest) validate() error {
	if strings.TrimSpace(p.CustomerID) == "" {
		return errors.New("missing customer_id")
	}
	return nil
}

func (p projectionRequest) assumptions() projection.Assumptions {
	return projection.Assumptions{
		Revenue:          p.Revenue,
		TargetGrowthRate: p.TargetGrowthRate,
		AverageDealSize:  p.AverageDealSize,
		SalesCycleDays:   p.SalesCycleDays,
		ConversionRate:   p.ConversionRate,
		ChurnRate:        p.ChurnRate,
		HorizonMonths:    p.HorizonMonths,
	}
}

type projectionResponse struct {
	TotalCostOfInaction float64            `json:"total_cost_of_inaction"`
	MonthlyImpact       float64            `json:"monthly_impact"`
	Timeline            []timelinePoint    `json:"timeline"`
	Breakdown           breakdownPayload   `json:"breakdown"`
	Assumptions         assumptionsPayload `json:"assumptions"`
}

type timelinePoint struct {
	Month         int     `json:"month"`
	WithAction    float64 `json:"with_action"`
	WithoutAction float64 `json:"without_action"`
	Gap           float64 `json:"gap"`
}

type breakdownPayload struct {
	MissedGrowthRevenue float64 `json:"missed_growth_revenue"`
	InefficiencyLoss    float64 `json:"inefficiency_loss"`
	ChurnImpact         float64 `json:"churn_impact"`
	ExtendedCycleCost   float64 `json:"extended_cycle_cost"`
}

type assumptionsPayload struct {
	Revenue          float64 `json:"revenue"`
	TargetGrowthRate float64 `json:"target_growth_rate"`
	AverageDealSize  float64 `json:"average_deal_size"`
	SalesCycleDays   float64 `json:"sales_cycle_days"`
	ConversionRate   float64 `json:"conversion_rate"`
	ChurnRate        float64 `json:"churn_rate"`
	HorizonMonths    int     `json:"horizon_months"`
}

// HandlePostProjection handles POST /projection requests.
func (h *ProjectionHandler) HandlePostProjection(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_projection"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req projectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.deps.ProjectCost(r.Context(), req.CustomerID, req.assumptions())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := projectionResponse{
		TotalCostOfInaction: result.TotalCostOfInaction,
		MonthlyImpact:       result.MonthlyImpact,
		Timeline:            make([]timelinePoint, 0, len(result.Timeline)),
		Breakdown: breakdownPayload{
			MissedGrowthRevenue: result.Breakdown.MissedGrowthRevenue,
			InefficiencyLoss:    result.Breakdown.InefficiencyLoss,
			ChurnImpact:         result.Breakdown.ChurnImpact,
			ExtendedCycleCost:   result.Breakdown.ExtendedCycleCost,
		},
		Assumptions: assumptionsPayload{
			Revenue:          result.Resolved.Revenue,
			TargetGrowthRate: result.Resolved.TargetGrowthRate,
			AverageDealSize:  result.Resolved.AverageDealSize,
			SalesCycleDays:   result.Resolved.SalesCycleDays,
			ConversionRate:   result.Resolved.ConversionRate,
			ChurnRate:        result.Resolved.ChurnRate,
			HorizonMonths:    result.Resolved.HorizonMonths,
		},
	}
	for _, m := range result.Timeline {
		resp.Timeline = append(resp.Timeline, timelinePoint{
			Month:         m.Month,
			WithAction:    m.WithAction,
			WithoutAction: m.WithoutAction,
			Gap:           m.Gap,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
