package loadgen

import "time"

// Config holds configuration for the load run.
type Config struct {
	BaseURL       string        // Base URL of the service
	NumCustomers  int           // Number of synthetic customers
	AwardsPerUser int           // Award events per customer
	DuplicateRate float64       // Fraction of awards replayed with a seen event id
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	LogFile       string        // Log file for run output
	Verbose       bool          // Enable verbose logging
}

// awardPayload mirrors the POST /awards request schema.
type awardPayload struct {
	EventID    string  `json:"event_id"`
	CustomerID string  `json:"customer_id"`
	Points     float64 `json:"points"`
	Category   string  `json:"category"`
	Reason     string  `json:"reason"`
	TS         string  `json:"ts"`
}

// scorePayload mirrors the POST /score request schema.
type scorePayload struct {
	CustomerID string             `json:"customer_id"`
	Entity     string             `json:"entity"`
	SetName    string             `json:"set_name"`
	Criteria   []criterionPayload `json:"criteria"`
}

type criterionPayload struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// projectionPayload mirrors the POST /projection request schema.
type projectionPayload struct {
	CustomerID      string  `json:"customer_id"`
	Revenue         float64 `json:"revenue"`
	AverageDealSize float64 `json:"average_deal_size"`
	SalesCycleDays  float64 `json:"sales_cycle_days"`
}

// ackResponse mirrors the award acknowledgement shape.
type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds load run statistics.
type Stats struct {
	AwardsGenerated  int
	AwardsSubmitted  int
	AwardsSuccessful int
	AwardsDuplicate  int
	AwardsFailed     int
	ScoresSubmitted  int
	Projections      int
	AccessChecks     int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
