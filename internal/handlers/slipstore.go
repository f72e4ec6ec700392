package handlers

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jraydirect/wagerloop-sub005/internal/slip"
)

// SlipStore holds the active slips by id, one per user session. Each slip
// serializes its own mutations; the store only guards the map.
type SlipStore struct {
	mu    sync.RWMutex
	slips map[string]*slip.Slip
}

// NewSlipStore creates an empty store
func NewSlipStore() *SlipStore {
	return &SlipStore{slips: make(map[string]*slip.Slip)}
}

// Create opens a new empty slip and returns its id
func (st *SlipStore) Create() string {
	st.mu.Lock()
	defer st.mu.Unlock()

	id := uuid.NewString()
	st.slips[id] = slip.New()
	return id
}

// Get returns the slip for an id
func (st *SlipStore) Get(id string) (*slip.Slip, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.slips[id]
	return s, ok
}

// Delete drops a slip, typically after finalization
func (st *SlipStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.slips, id)
}
