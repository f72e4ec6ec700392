// Package slip implements the pick slip aggregate: an ordered, de-duplicated
// collection of picks whose combined price is recomputed on every read.
package slip

import (
	"fmt"
	"sync"

	"github.com/jraydirect/wagerloop-sub005/pkg/models"
	"github.com/jraydirect/wagerloop-sub005/pkg/oddsmath"
)

// DuplicateError reports an attempt to add a leg already on the slip.
// Non-fatal: the slip is left unchanged.
type DuplicateError struct {
	Key models.LegKey
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("leg already on slip: %s %s %s", e.Key.GameRef, e.Key.MarketType, e.Key.Side)
}

// Slip is the single active pick slip. All mutations and reads go through one
// mutex so a combined price is never observed mid-mutation.
type Slip struct {
	mu   sync.Mutex
	legs []models.Pick
}

// New creates an empty slip
func New() *Slip {
	return &Slip{}
}

// Add appends a pick to the slip. A pick whose (gameRef, marketType, side)
// key matches an existing leg is rejected with a DuplicateError.
func (s *Slip) Add(pick models.Pick) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pick.Key()
	for _, leg := range s.legs {
		if leg.Key() == key {
			return &DuplicateError{Key: key}
		}
	}

	s.legs = append(s.legs, pick)
	return nil
}

// Remove deletes the leg at the given position
func (s *Slip) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.legs) {
		return fmt.Errorf("leg index %d out of range (slip has %d legs)", index, len(s.legs))
	}

	s.legs = append(s.legs[:index], s.legs[index+1:]...)
	return nil
}

// Clear removes all legs
func (s *Slip) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legs = nil
}

// Legs returns a copy of the current legs in order
func (s *Slip) Legs() []models.Pick {
	s.mu.Lock()
	defer s.mu.Unlock()

	legs := make([]models.Pick, len(s.legs))
	copy(legs, s.legs)
	return legs
}

// Len returns the current leg count
func (s *Slip) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.legs)
}

// CombinedOdds recomputes the compound price from the current legs. An empty
// slip has no combined odds at all (nil, nil) rather than a zero value; any
// invalid leg surfaces as an error and no price is returned.
func (s *Slip) CombinedOdds() (*models.CombinedOdds, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.combinedLocked()
}

// Snapshot returns the current legs and their combined price from a single
// mutex hold, so the two always correspond even with concurrent mutations.
// Readers that go on to persist or publish the pair must use this instead of
// separate Legs and CombinedOdds calls.
func (s *Slip) Snapshot() ([]models.Pick, *models.CombinedOdds, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	legs := make([]models.Pick, len(s.legs))
	copy(legs, s.legs)

	combined, err := s.combinedLocked()
	if err != nil {
		return legs, nil, err
	}
	return legs, combined, nil
}

func (s *Slip) combinedLocked() (*models.CombinedOdds, error) {
	if len(s.legs) == 0 {
		return nil, nil
	}

	combined, err := oddsmath.Combine(s.legs)
	if err != nil {
		return nil, err
	}
	return &combined, nil
}
