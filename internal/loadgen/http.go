package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/revgate/revgate/pkg/logger"
)

// HTTPClient wraps http.Client with a timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// submitAwards pushes award events through a worker pool.
func submitAwards(ctx context.Context, config *Config, awards []awardPayload, stats *Stats) {
	logger.Get().Info(ctx, "submitting award events",
		logger.Int("awards", len(awards)),
		logger.Int("workers", config.Workers),
	)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/awards"

	var (
		successful int64
		duplicate  int64
		failed     int64
		submitted  int64
	)

	awardChan := make(chan awardPayload, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for award := range awardChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddInt64(&submitted, 1)
				switch submitSingleAward(ctx, client, url, award) {
				case outcomeSuccess:
					atomic.AddInt64(&successful, 1)
				case outcomeDuplicate:
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

	go func() {
		defer close(awardChan)
		for _, award := range awards {
			select {
			case <-ctx.Done():
				return
			case awardChan <- award:
			}
		}
	}()

	wg.Wait()

	stats.AwardsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.AwardsSuccessful = int(atomic.LoadInt64(&successful))
	stats.AwardsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.AwardsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "award submission completed",
		logger.Int("successful", stats.AwardsSuccessful),
		logger.Int("duplicate", stats.AwardsDuplicate),
		logger.Int("failed", stats.AwardsFailed),
	)
}

// Submission outcomes.
const (
	outcomeSuccess   = "success"
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"
)

// submitSingleAward submits one award and classifies the acknowledgement.
func submitSingleAward(ctx context.Context, client *HTTPClient, url string, award awardPayload) string {
	resp, err := client.Post(ctx, url, award)
	if err != nil {
		return outcomeFailed
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return outcomeFailed
	}

	if resp.StatusCode != StatusOK {
		return outcomeFailed
	}

	var ack ackResponse
	if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
		return outcomeDuplicate
	}
	return outcomeSuccess
}
