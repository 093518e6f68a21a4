package cooldown

import (
	"sync"
	"time"
)

// defaultMaxEntries caps the tracker so one entry per distinct client key
// cannot grow without bound over the process lifetime.
const defaultMaxEntries = 4096

type lastInput struct {
	letter byte
	at     time.Time
}

// Tracker remembers the last letter accepted per client key and suppresses
// an identical letter arriving again within the gate interval. Entries live
// only in process memory; they are swept once expired and the map is capped,
// evicting the stalest entry when full.
type Tracker struct {
	gate Gate
	max  int

	mu      sync.Mutex
	entries map[string]lastInput
}

// NewTracker builds a tracker suppressing repeats within gate's interval.
// maxEntries <= 0 selects the default cap.
func NewTracker(gate Gate, maxEntries int) *Tracker {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Tracker{
		gate:    gate,
		max:     maxEntries,
		entries: make(map[string]lastInput),
	}
}

// Repeated reports whether letter is a duplicate of the client's previous
// letter still inside the suppression window. When it is not, the letter is
// recorded as the new last input; a suppressed letter leaves the previous
// record in place, matching the original per-user input log.
func (t *Tracker) Repeated(clientKey string, letter byte, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.entries[clientKey]; ok {
		if prev.letter == letter && !t.gate.Allowed(prev.at, now) {
			return true
		}
	}
	if _, ok := t.entries[clientKey]; !ok && len(t.entries) >= t.max {
		t.evictLocked(now)
	}
	t.entries[clientKey] = lastInput{letter: letter, at: now}
	return false
}

// Len returns the number of tracked clients.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// evictLocked first drops every entry whose window already elapsed; if none
// expired it removes the single stalest entry so the cap holds.
func (t *Tracker) evictLocked(now time.Time) {
	for key, in := range t.entries {
		if t.gate.Allowed(in.at, now) {
			delete(t.entries, key)
		}
	}
	if len(t.entries) < t.max {
		return
	}
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for key, in := range t.entries {
		if !found || in.at.Before(oldestAt) {
			oldestKey, oldestAt, found = key, in.at, true
		}
	}
	if found {
		delete(t.entries, oldestKey)
	}
}
