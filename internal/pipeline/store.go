package pipeline

import (
	"sort"
	"sync"
	"time"

	"assetforge/internal/services"
)

// Store holds in-flight and recently finished runs in memory, keyed by run id.
// State is process-local: restarting the daemon loses in-flight runs, and the
// store is not shared across instances.
type Store struct {
	mu    sync.RWMutex
	runs  map[string]*Run
	clock Clock
}

// NewStore constructs an empty run store. The clock stamps UpdatedAt on every
// mutation; a nil clock falls back to wall time.
func NewStore(clock Clock) *Store {
	if clock == nil {
		clock = NewRealClock()
	}
	return &Store{runs: make(map[string]*Run), clock: clock}
}

// Insert registers a new run.
func (s *Store) Insert(run *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
}

// Snapshot returns a deep copy of the run, or services.ErrNotFound when the
// id is unknown (including expired runs removed by cleanup).
func (s *Store) Snapshot(id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return Run{}, services.Wrap(services.ErrNotFound, "pipeline", "lookup", "unknown pipeline id "+id, nil)
	}
	return run.snapshot(), nil
}

// Update applies fn to the run under the store lock. It returns false when the
// id is unknown.
func (s *Store) Update(id string, fn func(*Run)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok {
		return false
	}
	fn(run)
	run.UpdatedAt = s.clock.Now().UTC()
	return true
}

// List returns snapshots of every stored run, newest first.
func (s *Store) List() []Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run.snapshot())
	}
	sortRunsNewestFirst(runs)
	return runs
}

// Len returns the number of stored runs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// Remove deletes a run by id.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, id)
}

// CleanupOlderThan removes terminal runs created before the cutoff and returns
// how many were removed. In-flight runs are never removed regardless of age.
func (s *Store) CleanupOlderThan(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, run := range s.runs {
		if !run.Status.IsTerminal() {
			continue
		}
		if run.CreatedAt.Before(cutoff) {
			delete(s.runs, id)
			removed++
		}
	}
	return removed
}

func sortRunsNewestFirst(runs []Run) {
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
}
