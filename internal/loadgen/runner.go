package loadgen

import (
	"context"
	"fmt"
	"time"

	"github.com/revgate/revgate/pkg/logger"
)

// Run executes the complete load run: health check, synthetic scoring and
// projection traffic, award submission with replays, then access checks.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting load run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("customers", config.NumCustomers),
		logger.Int("awardsPerCustomer", config.AwardsPerUser),
		logger.Float64("duplicateRate", config.DuplicateRate),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
	)

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	customers := customerIDs(config.NumCustomers)

	if err := submitScoresAndProjections(ctx, config, customers, stats); err != nil {
		return fmt.Errorf("scoring traffic failed: %w", err)
	}

	awards := generateAwards(ctx, config, customers, stats)
	submitAwards(ctx, config, awards, stats)

	if err := checkAccess(ctx, config, customers, stats); err != nil {
		return fmt.Errorf("access checks failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "load run completed")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// submitScoresAndProjections drives one score and one projection per
// customer, which triggers the first-use milestone awards server-side.
func submitScoresAndProjections(ctx context.Context, config *Config, customers []string, stats *Stats) error {
	client := newHTTPClient(config.Timeout)

	for i, customerID := range customers {
		select {
		case <-ctx.Done():
			return fmt.Errorf("cancelled during scoring traffic: %w", ctx.Err())
		default:
		}

		resp, err := client.Post(ctx, config.BaseURL+"/score", scoreRequest(customerID, i))
		if err != nil {
			return err
		}
		if _, err := readResponseBody(resp); err != nil {
			return err
		}
		stats.ScoresSubmitted++

		resp, err = client.Post(ctx, config.BaseURL+"/projection", projectionRequest(customerID))
		if err != nil {
			return err
		}
		if _, err := readResponseBody(resp); err != nil {
			return err
		}
		stats.Projections++
	}

	logger.Get().Info(ctx, "scoring traffic submitted",
		logger.Int("scores", stats.ScoresSubmitted),
		logger.Int("projections", stats.Projections),
	)
	return nil
}

// checkAccess fetches gate decisions for every customer after the run.
func checkAccess(ctx context.Context, config *Config, customers []string, stats *Stats) error {
	client := newHTTPClient(config.Timeout)

	for _, customerID := range customers {
		select {
		case <-ctx.Done():
			return fmt.Errorf("cancelled during access checks: %w", ctx.Err())
		default:
		}

		resp, err := client.Get(ctx, config.BaseURL+"/access/"+customerID)
		if err != nil {
			return err
		}
		if _, err := readResponseBody(resp); err != nil {
			return err
		}
		if resp.StatusCode != StatusOK {
			return fmt.Errorf("access check failed with status: %d", resp.StatusCode)
		}
		stats.AccessChecks++
	}

	logger.Get().Info(ctx, "access checks completed", logger.Int("checks", stats.AccessChecks))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, awardsPerSecond float64

	if stats.AwardsSubmitted > 0 {
		successRate = float64(stats.AwardsSuccessful) / float64(stats.AwardsSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		awardsPerSecond = float64(stats.AwardsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("awardsGenerated", stats.AwardsGenerated),
		logger.Int("awardsSubmitted", stats.AwardsSubmitted),
		logger.Int("awardsSuccessful", stats.AwardsSuccessful),
		logger.Int("awardsDuplicate", stats.AwardsDuplicate),
		logger.Int("awardsFailed", stats.AwardsFailed),
		logger.Int("scoresSubmitted", stats.ScoresSubmitted),
		logger.Int("projections", stats.Projections),
		logger.Int("accessChecks", stats.AccessChecks),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("awardsPerSecond", awardsPerSecond))
}
