// Package session defines the explicit session value threaded through engine
// calls. The engine never parses tokens or URLs; it receives an opaque,
// already-validated session from the provider.
package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoSession marks a missing or expired session.
var ErrNoSession = errors.New("no active session")

// Session identifies one customer's editing session.
type Session struct {
	CustomerID  string
	RecordID    string
	AccessToken string
	LastSeen    time.Time
}

// Provider resolves the current session for a customer.
type Provider interface {
	// Current returns the active session for a customer, or ErrNoSession.
	Current(ctx context.Context, customerID string) (Session, error)

	// Refresh updates session metadata only. It must not re-trigger scoring
	// or re-award points.
	Refresh(ctx context.Context, customerID string) error
}

// StaticProvider is an in-memory provider for tests and single-node serving.
type StaticProvider struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

// NewStaticProvider creates an empty provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Put installs or replaces a session.
func (p *StaticProvider) Put(s Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s.LastSeen.IsZero() {
		s.LastSeen = p.now()
	}
	p.sessions[s.CustomerID] = s
}

// Current returns the session for a customer.
func (p *StaticProvider) Current(_ context.Context, customerID string) (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[customerID]
	if !ok {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Refresh bumps LastSeen for every active session of the customer.
func (p *StaticProvider) Refresh(_ context.Context, customerID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[customerID]
	if !ok {
		return ErrNoSession
	}
	s.LastSeen = p.now()
	p.sessions[customerID] = s
	return nil
}

// RefreshAll bumps LastSeen on every session; used by the periodic
// session-refresh timer.
func (p *StaticProvider) RefreshAll(_ context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	for id, s := range p.sessions {
		s.LastSeen = now
		p.sessions[id] = s
	}
}
