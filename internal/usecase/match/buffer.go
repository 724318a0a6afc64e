package match

import (
	"sync"

	"github.com/ajisaka/devmatch/internal/entity"
)

// MatchBuffer keeps, per user, a bounded rolling window of match results the
// user has not acted on yet. It is created at service start and injected
// wherever needed; nothing in the package reaches for a process-wide
// singleton.
type MatchBuffer struct {
	mu     sync.Mutex
	max    int
	byUser map[uint][]entity.MatchResult
}

func NewMatchBuffer(max int) *MatchBuffer {
	if max <= 0 {
		max = DefaultBufferSize
	}
	return &MatchBuffer{
		max:    max,
		byUser: make(map[uint][]entity.MatchResult),
	}
}

func (b *MatchBuffer) Max() int {
	return b.max
}

func (b *MatchBuffer) Len(userID uint) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.byUser[userID])
}

// Snapshot returns a copy of the user's buffered results in stored order.
func (b *MatchBuffer) Snapshot(userID uint) []entity.MatchResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.byUser[userID]
	out := make([]entity.MatchResult, len(entries))
	copy(out, entries)
	return out
}

// IDs returns the candidate profile ids currently buffered for the user.
func (b *MatchBuffer) IDs(userID uint) []uint {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.byUser[userID]
	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.Profile.ID)
	}
	return ids
}

// Remove drops the given candidate from the user's buffer if present.
func (b *MatchBuffer) Remove(userID, profileID uint) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.byUser[userID]
	for i, e := range entries {
		if e.Profile.ID == profileID {
			b.byUser[userID] = append(entries[:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// Append adds results up to the buffer cap, skipping candidates already
// buffered for the user.
func (b *MatchBuffer) Append(userID uint, results []entity.MatchResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.byUser[userID]
	present := make(map[uint]struct{}, len(entries))
	for _, e := range entries {
		present[e.Profile.ID] = struct{}{}
	}
	for _, r := range results {
		if len(entries) >= b.max {
			break
		}
		if _, dup := present[r.Profile.ID]; dup {
			continue
		}
		present[r.Profile.ID] = struct{}{}
		entries = append(entries, r)
	}
	b.byUser[userID] = entries
}

// Clear drops all buffered state. Used at shutdown and between tests.
func (b *MatchBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byUser = make(map[uint][]entity.MatchResult)
}
