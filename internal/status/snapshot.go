// internal/status/snapshot.go
package status

import "sync"

// Snapshot represents exactly what the supervisor publishes to the rest of
// the system. It contains no logic and no memory of the past beyond
// current state.
type Snapshot struct {
	Connectivity    Connectivity
	StreamingActive bool
}

// Store is the shared publication point. Single writer (the supervisor
// worker), any number of readers. Last write wins.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Load() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Store) SetConnectivity(c Connectivity) {
	s.mu.Lock()
	s.snap.Connectivity = c
	s.mu.Unlock()
}

func (s *Store) SetStreamingActive(on bool) {
	s.mu.Lock()
	s.snap.StreamingActive = on
	s.mu.Unlock()
}
