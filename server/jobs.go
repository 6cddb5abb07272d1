package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var errJobNotFound = errors.New("analysis not found")

// JobStore keeps finished analyses in memory, keyed by a random ID.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*AnalysisResult
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*AnalysisResult)}
}

// Add assigns res a fresh ID and stores it.
func (s *JobStore) Add(res *AnalysisResult) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	res.ID = id
	s.jobs[id] = res
	return id
}

func (s *JobStore) Get(id string) (*AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.jobs[id]
	if !ok {
		return nil, errJobNotFound
	}
	return res, nil
}

func (s *JobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
