// Package model provides the bookkeeping and interfaces shared by the
// single-layer classifiers.
package model

import (
	"sync"
)

// StateManager records how a classifier has been trained. The parameters
// themselves stay in the classifier; this only tracks counters.
type StateManager struct {
	mu sync.RWMutex

	trained   bool
	nFeatures int
	nOutputs  int
	updates   int // Train calls that changed the parameters
	steps     int // Train calls
	samples   int // samples seen across all Train calls
}

// NewStateManager creates a StateManager for a classifier of the given shape.
func NewStateManager(nFeatures, nOutputs int) *StateManager {
	return &StateManager{
		nFeatures: nFeatures,
		nOutputs:  nOutputs,
	}
}

// IsTrained reports whether Train has been called at least once.
func (s *StateManager) IsTrained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trained
}

// RecordStep records one Train call over n samples. updated reports whether
// the parameters changed.
func (s *StateManager) RecordStep(n int, updated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trained = true
	s.steps++
	s.samples += n
	if updated {
		s.updates++
	}
}

// Reset clears the counters but keeps the shape.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trained = false
	s.updates = 0
	s.steps = 0
	s.samples = 0
}

// GetDimensions returns the number of input features and outputs.
func (s *StateManager) GetDimensions() (nFeatures, nOutputs int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nOutputs
}

// TrainingState is a snapshot of a StateManager.
type TrainingState struct {
	Trained   bool `json:"trained"`
	NFeatures int  `json:"n_features"`
	NOutputs  int  `json:"n_outputs"`
	Updates   int  `json:"updates"`
	Steps     int  `json:"steps"`
	Samples   int  `json:"samples"`
}

// GetState returns a snapshot of the counters.
func (s *StateManager) GetState() TrainingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TrainingState{
		Trained:   s.trained,
		NFeatures: s.nFeatures,
		NOutputs:  s.nOutputs,
		Updates:   s.updates,
		Steps:     s.steps,
		Samples:   s.samples,
	}
}
