// Package draft holds the in-progress, not-yet-submitted share form state
// that the wizard accumulates across steps.
package draft

import (
	"sync"

	"github.com/callumw/snagshare/internal/domain"
)

// Store keeps one ephemeral share draft per user. Drafts live only for the
// lifetime of the process; nothing is validated until submission. Each draft
// has a single logical writer, but the map itself is touched by concurrent
// requests and so is mutex-guarded.
type Store struct {
	mu     sync.Mutex
	drafts map[string]domain.ShareData
}

// NewStore creates an empty draft store.
func NewStore() *Store {
	return &Store{drafts: make(map[string]domain.ShareData)}
}

// Read returns the user's current draft, or a fresh empty draft if none
// exists yet.
func (s *Store) Read(userID string) domain.ShareData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drafts[userID]
}

// Update shallow-merges the patch onto the user's current draft and returns
// the merged result. Untouched fields keep their prior values.
func (s *Store) Update(userID string, patch domain.ShareDataPatch) domain.ShareData {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.drafts[userID].Merge(patch)
	s.drafts[userID] = merged
	return merged
}

// Reset discards the user's draft and returns the default empty draft.
func (s *Store) Reset(userID string) domain.ShareData {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, userID)
	return domain.ShareData{}
}
