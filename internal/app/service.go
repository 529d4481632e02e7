// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	savequeue "github.com/revgate/revgate/internal/adapters/mq/queue"
	workerpool "github.com/revgate/revgate/internal/adapters/mq/worker"
	repository "github.com/revgate/revgate/internal/adapters/repository"
	"github.com/revgate/revgate/internal/config"
	"github.com/revgate/revgate/internal/domain/dedupe"
	"github.com/revgate/revgate/internal/domain/fitscore"
	"github.com/revgate/revgate/internal/domain/gate"
	"github.com/revgate/revgate/internal/domain/ledger"
	"github.com/revgate/revgate/internal/domain/model"
	"github.com/revgate/revgate/internal/domain/projection"
	"github.com/revgate/revgate/internal/domain/provenance"
	"github.com/revgate/revgate/internal/domain/types"
	"github.com/revgate/revgate/internal/session"
	"github.com/revgate/revgate/pkg/logger"
	"github.com/revgate/revgate/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize              = 10_000
	defaultDedupeSize             = 500_000
	defaultAutosaveInterval       = 30 * time.Second
	defaultSessionRefreshInterval = 5 * time.Minute
	defaultScoreAwardPoints       = 50
	defaultProjectionAwardPoints  = 75

	// businessCaseToolKey names the saved form the projector pre-fills.
	businessCaseToolKey = "businessCase"
)

// Service implements the API dependencies for the unlock engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	scorer     *fitscore.Scorer
	projector  *projection.Projector
	ledger     *ledger.Ledger
	store      repository.Store
	saveQueue  savequeue.Queue
	pool       *workerpool.Pool
	milestones dedupe.Deduper
	sessions   session.Provider

	// Field provenance, one tracker per (customer, tool) form.
	trackerMu sync.Mutex
	trackers  map[string]*provenance.Tracker

	// Configuration
	workerCount            int
	queueSize              int
	dedupeSize             int
	pointDivisor           float64
	scoreAwardPoints       float64
	projectionAwardPoints  float64
	autosaveInterval       time.Duration
	sessionRefreshInterval time.Duration
	constants              projection.Constants
	strategy               fitscore.Strategy

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of persistence workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the auto-save queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the idempotency caches. Zero means unbounded.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithStrategy injects the per-criterion scoring strategy.
func WithStrategy(strategy fitscore.Strategy) Option {
	return func(s *Service) {
		if strategy != nil {
			s.strategy = strategy
		}
	}
}

// WithStore injects the persistence store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSessionProvider injects the session provider.
func WithSessionProvider(provider session.Provider) Option {
	return func(s *Service) {
		if provider != nil {
			s.sessions = provider
		}
	}
}

// WithProjectionConstants overrides the cost-formula factor table.
func WithProjectionConstants(c projection.Constants) Option {
	return func(s *Service) {
		if c.TimelineCap > 0 {
			s.constants = c
		}
	}
}

// WithPointDivisor overrides the points-to-score divisor.
func WithPointDivisor(divisor float64) Option {
	return func(s *Service) {
		if divisor > 0 {
			s.pointDivisor = divisor
		}
	}
}

// WithAwardPoints sets the first-score and first-projection award sizes.
func WithAwardPoints(score, projection float64) Option {
	return func(s *Service) {
		if score > 0 {
			s.scoreAwardPoints = score
		}
		if projection > 0 {
			s.projectionAwardPoints = projection
		}
	}
}

// WithAutosaveInterval sets the period of the background save timer.
func WithAutosaveInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.autosaveInterval = interval
		}
	}
}

// WithSessionRefreshInterval sets the period of the session refresh timer.
func WithSessionRefreshInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.sessionRefreshInterval = interval
		}
	}
}

// FromConfig maps process configuration onto service options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.SaveQueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithPointDivisor(cfg.PointDivisor),
		WithAwardPoints(cfg.ScoreAwardPoints, cfg.ProjectionAwardPoints),
		WithAutosaveInterval(time.Duration(cfg.AutosaveIntervalSec) * time.Second),
		WithSessionRefreshInterval(time.Duration(cfg.SessionRefreshIntervalSec) * time.Second),
		WithProjectionConstants(projection.Constants{
			InefficiencyRate:    cfg.InefficiencyRate,
			OrganicGrowthFactor: cfg.OrganicGrowthFactor,
			CycleCostFactor:     cfg.CycleCostFactor,
			BaselineCycleDays:   cfg.BaselineCycleDays,
			TimelineCap:         cfg.TimelineCap,
		}),
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:            runtime.NumCPU(),
		queueSize:              defaultQueueSize,
		dedupeSize:             defaultDedupeSize,
		pointDivisor:           0, // ledger default applies
		scoreAwardPoints:       defaultScoreAwardPoints,
		projectionAwardPoints:  defaultProjectionAwardPoints,
		autosaveInterval:       defaultAutosaveInterval,
		sessionRefreshInterval: defaultSessionRefreshInterval,
		constants:              projection.DefaultConstants(),
		trackers:               make(map[string]*provenance.Tracker),
		stopCh:                 make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting unlock engine...")

	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	if s.sessions == nil {
		s.sessions = session.NewStaticProvider()
	}

	ledgerOpts := []ledger.Option{
		ledger.WithAppliedSet(dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))),
	}
	if s.pointDivisor > 0 {
		ledgerOpts = append(ledgerOpts, ledger.WithPointDivisor(s.pointDivisor))
	}
	s.ledger = ledger.NewLedger(ledgerOpts...)

	scorerOpts := []fitscore.Option{}
	if s.strategy != nil {
		scorerOpts = append(scorerOpts, fitscore.WithStrategy(s.strategy))
	}
	s.scorer = fitscore.NewScorer(scorerOpts...)
	s.projector = projection.NewProjector(projection.WithConstants(s.constants))
	s.milestones = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))

	s.saveQueue = savequeue.NewInMemoryQueue(savequeue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.saveQueue, s.store)
	s.pool.Start(ctx)

	go s.autosaveLoop(ctx)
	go s.sessionRefreshLoop(ctx)

	s.started = true
	s.logger.Info(ctx, "unlock engine started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping unlock engine...")

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	// Flush whatever is still in memory before the pool drains and stops.
	s.flushProfiles(ctx)

	if s.pool != nil {
		s.pool.Stop()
	}
	if q, ok := s.saveQueue.(*savequeue.InMemoryQueue); ok {
		_ = q.Close()
	}

	s.started = false
	s.logger.Info(ctx, "unlock engine stopped")
}

// ScoreEntity runs the fit scorer and emits the first-score award for the
// session/entity pair.
func (s *Service) ScoreEntity(ctx context.Context, customerID, entityName string, criteria fitscore.CriteriaSet) (fitscore.Breakdown, error) {
	breakdown, err := s.scorer.Score(ctx, entityName, criteria)
	if err != nil {
		metrics.RecordValidationFailure("fitscore", validationKind(err))
		return fitscore.Breakdown{}, fmt.Errorf("score entity: %w", err)
	}
	metrics.RecordScoreComputed()

	key := "score:" + s.sessionKey(ctx, customerID) + ":" + breakdown.Entity
	s.awardOnce(ctx, key, model.AwardEvent{
		CustomerID: customerID,
		Points:     s.scoreAwardPoints,
		Category:   model.CategoryCustomerAnalysis,
		Reason:     "first fit score for " + breakdown.Entity,
	})

	return breakdown, nil
}

// ProjectCost runs the cost projector, emits the first-projection award for
// the session, and pre-fills the business case form from the result.
func (s *Service) ProjectCost(ctx context.Context, customerID string, assumptions projection.Assumptions) (projection.Projection, error) {
	result, err := s.projector.Project(assumptions)
	if err != nil {
		metrics.RecordValidationFailure("projection", validationKind(err))
		return projection.Projection{}, fmt.Errorf("project cost: %w", err)
	}
	metrics.RecordProjectionComputed()

	key := "projection:" + s.sessionKey(ctx, customerID)
	s.awardOnce(ctx, key, model.AwardEvent{
		CustomerID: customerID,
		Points:     s.projectionAwardPoints,
		Category:   model.CategoryValueCommunication,
		Reason:     "first cost projection",
	})

	s.autoPopulateBusinessCase(ctx, customerID, result)

	return result, nil
}

// ApplyAward applies one award event. An omitted event id gets a generated
// one; duplicates return ledger.ErrDuplicateEvent.
func (s *Service) ApplyAward(ctx context.Context, event model.AwardEvent) (ledger.Profile, error) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.TS.IsZero() {
		event.TS = time.Now().UTC()
	}
	return s.apply(ctx, event)
}

// ToolAccessStatus evaluates the unlock gate against the customer's current
// profile. Customers with no profile yet are evaluated at zero.
func (s *Service) ToolAccessStatus(ctx context.Context, customerID string) (map[model.ToolID]types.ToolAccess, error) {
	profile, err := s.ProfileSnapshot(ctx, customerID)
	if err != nil {
		profile = ledger.Profile{CustomerID: customerID}
	}
	return gate.EvaluateAll(profile), nil
}

// ProfileSnapshot returns the live profile, falling back to the persisted
// snapshot on a cold start.
func (s *Service) ProfileSnapshot(ctx context.Context, customerID string) (ledger.Profile, error) {
	profile, err := s.ledger.Profile(customerID)
	if err == nil {
		return profile, nil
	}

	stored, storeErr := s.store.Profile(ctx, customerID)
	if storeErr != nil {
		return ledger.Profile{}, fmt.Errorf("profile snapshot: %w", err)
	}
	s.ledger.Seed(stored)
	seeded, err := s.ledger.Profile(customerID)
	if err != nil {
		return ledger.Profile{}, fmt.Errorf("profile snapshot: %w", err)
	}
	return seeded, nil
}

// RecordFieldEdit tags a form field as user-edited, so auto-populate passes
// stop touching it.
func (s *Service) RecordFieldEdit(customerID, toolKey, field string) {
	s.tracker(customerID, toolKey).MarkUser(field)
}

// SaveToolProgress persists form state for a tool, marking the given fields
// as user-edited. The save is fire-and-forget.
func (s *Service) SaveToolProgress(ctx context.Context, customerID, toolKey string, state map[string]string, editedFields []string) {
	tracker := s.tracker(customerID, toolKey)
	for _, field := range editedFields {
		tracker.MarkUser(field)
	}
	s.enqueueProgressSave(ctx, repository.SavedProgress{
		CustomerID: customerID,
		ToolKey:    toolKey,
		State:      state,
	})
}

// ToolProgress loads the persisted form state for (customer, tool).
func (s *Service) ToolProgress(ctx context.Context, customerID, toolKey string) (repository.SavedProgress, error) {
	progress, err := s.store.Progress(ctx, customerID, toolKey)
	if err != nil {
		return repository.SavedProgress{}, fmt.Errorf("tool progress: %w", err)
	}
	return progress, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.saveQueue.Len(ctx)
		profiles := s.ledger.Count()

		stats["queueLength"] = queueLen
		stats["profiles"] = profiles
		stats["persistedProfiles"] = s.store.Count(ctx)

		metrics.UpdateSaveQueueSize(queueLen)
		metrics.UpdateProfileCount(profiles)
	}

	return stats
}

// apply runs one event through the ledger, records metrics and unlock
// transitions, and schedules persistence.
func (s *Service) apply(ctx context.Context, event model.AwardEvent) (ledger.Profile, error) {
	before, _ := s.ledger.Profile(event.CustomerID)

	profile, err := s.ledger.Apply(ctx, event)
	if err != nil {
		if errors.Is(err, ledger.ErrDuplicateEvent) {
			metrics.RecordAwardDuplicate()
			s.logger.Warn(ctx, "duplicate award event ignored",
				logger.String("eventID", event.EventID),
				logger.String("customerID", event.CustomerID),
			)
		}
		return ledger.Profile{}, fmt.Errorf("apply award: %w", err)
	}
	metrics.RecordAwardApplied(event.Points)

	prior := gate.EvaluateAll(before)
	for tool, access := range gate.EvaluateAll(profile) {
		if access.Unlocked && !prior[tool].Unlocked {
			metrics.RecordUnlockTransition(string(tool))
			s.logger.Info(ctx, "tool unlocked",
				logger.String("tool", string(tool)),
				logger.String("customerID", event.CustomerID),
			)
		}
	}

	s.enqueueProfileSave(ctx, profile)
	return profile, nil
}

// awardOnce emits an award the first time its milestone key is seen.
func (s *Service) awardOnce(ctx context.Context, key string, event model.AwardEvent) {
	if s.milestones.SeenAndRecord(ctx, key) {
		return
	}
	event.EventID = uuid.NewString()
	event.TS = time.Now().UTC()
	if _, err := s.apply(ctx, event); err != nil {
		// Release the milestone so a later attempt can retry the grant.
		s.milestones.Unrecord(ctx, key)
		s.logger.Error(ctx, "milestone award failed",
			logger.String("key", key),
			logger.Error(err),
		)
	}
}

// autoPopulateBusinessCase pre-fills the business case form from projection
// output, honoring user-edited fields.
func (s *Service) autoPopulateBusinessCase(ctx context.Context, customerID string, result projection.Projection) {
	tracker := s.tracker(customerID, businessCaseToolKey)

	state := map[string]string{}
	if existing, err := s.store.Progress(ctx, customerID, businessCaseToolKey); err == nil {
		for field, value := range existing.State {
			state[field] = value
		}
	}

	fills := map[string]string{
		"annual_revenue":         formatAmount(result.Resolved.Revenue),
		"total_cost_of_inaction": formatAmount(result.TotalCostOfInaction),
		"monthly_impact":         formatAmount(result.MonthlyImpact),
	}

	var touched bool
	for field, value := range fills {
		if !tracker.ShouldAutoPopulate(field, state[field]) {
			continue
		}
		state[field] = value
		tracker.MarkSystem(field)
		touched = true
	}
	if !touched {
		return
	}

	s.enqueueProgressSave(ctx, repository.SavedProgress{
		CustomerID: customerID,
		ToolKey:    businessCaseToolKey,
		State:      state,
	})
}

// autosaveLoop periodically snapshots every profile into the save queue.
func (s *Service) autosaveLoop(ctx context.Context) {
	ticker := time.NewTicker(s.autosaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.flushProfiles(ctx)
		}
	}
}

// sessionRefreshLoop periodically bumps session metadata. It must never
// re-trigger scoring or awards.
func (s *Service) sessionRefreshLoop(ctx context.Context) {
	refresher, ok := s.sessions.(interface{ RefreshAll(ctx context.Context) })
	if !ok {
		return
	}

	ticker := time.NewTicker(s.sessionRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			refresher.RefreshAll(ctx)
		}
	}
}

// flushProfiles enqueues a save for every live profile.
func (s *Service) flushProfiles(ctx context.Context) {
	for _, profile := range s.ledger.Snapshot() {
		s.enqueueProfileSave(ctx, profile)
	}
}

func (s *Service) enqueueProfileSave(ctx context.Context, profile ledger.Profile) {
	copied := profile
	if ok := s.saveQueue.Enqueue(ctx, savequeue.SaveRequest{Profile: &copied}); !ok {
		s.logger.Warn(ctx, "save queue full, profile save dropped",
			logger.String("customerID", profile.CustomerID),
		)
	}
}

func (s *Service) enqueueProgressSave(ctx context.Context, progress repository.SavedProgress) {
	if ok := s.saveQueue.Enqueue(ctx, savequeue.SaveRequest{Progress: &progress}); !ok {
		s.logger.Warn(ctx, "save queue full, progress save dropped",
			logger.String("customerID", progress.CustomerID),
			logger.String("toolKey", progress.ToolKey),
		)
	}
}

// tracker returns the provenance tracker for one (customer, tool) form.
func (s *Service) tracker(customerID, toolKey string) *provenance.Tracker {
	s.trackerMu.Lock()
	defer s.trackerMu.Unlock()
	key := customerID + "/" + toolKey
	t, ok := s.trackers[key]
	if !ok {
		t = provenance.NewTracker()
		s.trackers[key] = t
	}
	return t
}

// sessionKey resolves the milestone namespace for a customer. With an active
// session the record id scopes awards to that session; without one the
// customer id keeps grants once-per-customer.
func (s *Service) sessionKey(ctx context.Context, customerID string) string {
	current, err := s.sessions.Current(ctx, customerID)
	if err != nil || current.RecordID == "" {
		return customerID
	}
	return current.RecordID
}

// validationKind labels a rejection for the validation failure counter.
func validationKind(err error) string {
	switch {
	case errors.Is(err, fitscore.ErrInvalidCriteria):
		return "invalid_criteria"
	case errors.Is(err, fitscore.ErrEmptyEntity):
		return "empty_entity"
	case errors.Is(err, fitscore.ErrNoScore):
		return "no_score"
	case errors.Is(err, projection.ErrInsufficientData):
		return "insufficient_data"
	default:
		return "invalid"
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
