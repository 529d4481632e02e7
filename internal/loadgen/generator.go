package loadgen

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/revgate/revgate/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	categoryDivisor    = 3
)

// Point size ranges per synthetic award.
const (
	awardPointsMin  = 10.0
	awardPointsSpan = 90.0
)

var categories = []string{"customerAnalysis", "valueCommunication", "salesExecution"}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// customerIDs pre-allocates the synthetic customer population.
func customerIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = "load-" + strconv.Itoa(i) + "-" + uuid.NewString()[:8]
	}
	return ids
}

// generateAwards creates award payloads for every customer. A DuplicateRate
// fraction of them reuse an already-issued event id, so the run exercises
// the idempotency path end to end.
func generateAwards(ctx context.Context, config *Config, customers []string, stats *Stats) []awardPayload {
	total := len(customers) * config.AwardsPerUser
	logger.Get().Info(ctx, "generating award events",
		logger.Int("customers", len(customers)),
		logger.Int("awards", total),
		logger.Float64("duplicateRate", config.DuplicateRate),
	)

	awards := make([]awardPayload, 0, total)
	for _, customerID := range customers {
		for i := 0; i < config.AwardsPerUser; i++ {
			award := generateSingleAward(customerID)
			awards = append(awards, award)

			// Replay with the same id to exercise deduplication.
			if getRandomFloat() < config.DuplicateRate {
				awards = append(awards, award)
			}
		}
	}

	stats.AwardsGenerated = len(awards)
	logger.Get().Info(ctx, "generated award events", logger.Int("count", len(awards)))
	return awards
}

// generateSingleAward creates one synthetic award event with a UUID event id.
func generateSingleAward(customerID string) awardPayload {
	n, _ := rand.Int(rand.Reader, big.NewInt(categoryDivisor))
	category := categories[n.Int64()]

	return awardPayload{
		EventID:    uuid.NewString(),
		CustomerID: customerID,
		Points:     awardPointsMin + getRandomFloat()*awardPointsSpan,
		Category:   category,
		Reason:     "synthetic load award",
		TS:         time.Now().UTC().Format(time.RFC3339),
	}
}

// scoreRequest builds a fixed-rubric score request for one customer.
func scoreRequest(customerID string, entityIndex int) scorePayload {
	return scorePayload{
		CustomerID: customerID,
		Entity:     "Prospect " + strconv.Itoa(entityIndex),
		SetName:    "load",
		Criteria: []criterionPayload{
			{Name: "Industry Fit", Weight: 40},
			{Name: "Budget", Weight: 30},
			{Name: "Timeline", Weight: 30},
		},
	}
}

// projectionRequest builds a projection request with varied revenue.
func projectionRequest(customerID string) projectionPayload {
	return projectionPayload{
		CustomerID:      customerID,
		Revenue:         1_000_000 + getRandomFloat()*9_000_000,
		AverageDealSize: 50_000 + getRandomFloat()*150_000,
		SalesCycleDays:  60 + getRandomFloat()*60,
	}
}
