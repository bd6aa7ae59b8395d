package dataset

import (
	"sync"

	"github.com/google/uuid"

	"github.com/thorfin/insights-backend/internal/domain"
	"github.com/thorfin/insights-backend/internal/logger"
)

// Store is the in-memory dataset registry. Datasets live for the session
// only; nothing is persisted beyond exported report files.
type Store struct {
	log *logger.Logger

	mu   sync.RWMutex
	byID map[uuid.UUID]*domain.Dataset
}

func NewStore(log *logger.Logger) *Store {
	return &Store{
		log:  log.With("component", "DatasetStore"),
		byID: make(map[uuid.UUID]*domain.Dataset),
	}
}

func (s *Store) Put(ds *domain.Dataset) {
	s.mu.Lock()
	s.byID[ds.ID] = ds
	s.mu.Unlock()
	s.log.Debug("Dataset registered", "id", ds.ID.String(), "rows", ds.Len())
}

func (s *Store) Get(id uuid.UUID) (*domain.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.byID[id]
	return ds, ok
}

func (s *Store) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	return true
}
