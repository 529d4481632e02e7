// Package provenance tags form fields as system- or user-populated so that
// recomputation never silently overwrites a human's correction.
//
// The tracker is a set of field ids currently tagged system. Marking a field
// user removes it from the set; nothing ever flips it back automatically.
package provenance

import "sync"

// Tracker records which fields were machine-populated.
type Tracker struct {
	mu     sync.Mutex
	system map[string]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{system: make(map[string]struct{})}
}

// MarkSystem tags a field as machine-populated. A field the user already
// owns keeps its user tag.
func (t *Tracker) MarkSystem(field string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.system[field] = struct{}{}
}

// MarkUser tags a field as user-edited. Last write wins; the tag never
// reverts to system without an explicit MarkSystem after Clear.
func (t *Tracker) MarkUser(field string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.system, field)
}

// IsSystemPopulated reports whether the field is still machine-owned.
func (t *Tracker) IsSystemPopulated(field string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.system[field]
	return ok
}

// Clear drops all tags, e.g. when a form is reset.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.system = make(map[string]struct{})
}

// ShouldAutoPopulate reports whether an auto-populate pass may write the
// field: only when it is currently empty or still tagged system.
func (t *Tracker) ShouldAutoPopulate(field string, currentValue string) bool {
	if currentValue == "" {
		return true
	}
	return t.IsSystemPopulated(field)
}
