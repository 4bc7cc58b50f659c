// Package presence tracks online/offline/last-seen per user,
// last-write-wins.
package presence

import (
	"sync"

	"github.com/DHEENA0007/squares-messaging/internal/api"
)

// Tracker holds presence records for the participants of open conversations
type Tracker struct {
	mu      sync.Mutex
	records map[string]*api.PresenceRecord
}

// NewTracker creates a presence tracker
func NewTracker() *Tracker {
	return &Tracker{records: make(map[string]*api.PresenceRecord)}
}

// Upsert stores a presence record, last write wins
func (t *Tracker) Upsert(rec *api.PresenceRecord) {
	if rec == nil || rec.UserId == "" {
		return
	}
	t.mu.Lock()
	t.records[rec.UserId] = rec
	t.mu.Unlock()
}

// IsOnline reports whether a user is currently online
func (t *Tracker) IsOnline(userId string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[userId]
	return ok && rec.IsOnline
}

// LastSeen returns the last-seen timestamp, zero if unknown
func (t *Tracker) LastSeen(userId string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rec, ok := t.records[userId]; ok {
		return rec.LastSeen
	}
	return 0
}

// Tracked reports whether a user already has a record, so callers know
// whether an on-demand fetch is needed
func (t *Tracker) Tracked(userId string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.records[userId]
	return ok
}
