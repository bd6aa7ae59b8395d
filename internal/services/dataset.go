package services

import (
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/thorfin/insights-backend/internal/dataset"
	"github.com/thorfin/insights-backend/internal/domain"
	"github.com/thorfin/insights-backend/internal/filter"
	"github.com/thorfin/insights-backend/internal/logger"
)

// ErrDatasetNotFound is returned for a dataset id the registry does not
// hold (never loaded, or already deleted).
var ErrDatasetNotFound = errors.New("dataset not found")

// DatasetService owns the lifecycle of loaded datasets: parse on upload,
// look up by id, produce filtered views, drop on delete.
type DatasetService interface {
	Load(filename string, r io.Reader) (*domain.Dataset, error)
	Get(id uuid.UUID) (*domain.Dataset, error)
	Filtered(id uuid.UUID, f domain.FilterState) (*domain.Dataset, error)
	Delete(id uuid.UUID) error
}

type datasetService struct {
	log    *logger.Logger
	loader *dataset.Loader
	store  *dataset.Store
}

func NewDatasetService(log *logger.Logger, loader *dataset.Loader, store *dataset.Store) DatasetService {
	return &datasetService{
		log:    log.With("service", "DatasetService"),
		loader: loader,
		store:  store,
	}
}

func (s *datasetService) Load(filename string, r io.Reader) (*domain.Dataset, error) {
	ds, err := s.loader.Load(filename, r)
	if err != nil {
		return nil, err
	}
	s.store.Put(ds)
	return ds, nil
}

func (s *datasetService) Get(id uuid.UUID) (*domain.Dataset, error) {
	ds, ok := s.store.Get(id)
	if !ok {
		return nil, ErrDatasetNotFound
	}
	return ds, nil
}

func (s *datasetService) Filtered(id uuid.UUID, f domain.FilterState) (*domain.Dataset, error) {
	ds, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return filter.Apply(ds, f), nil
}

func (s *datasetService) Delete(id uuid.UUID) error {
	if !s.store.Delete(id) {
		return ErrDatasetNotFound
	}
	s.log.Info("Dataset deleted", "id", id.String())
	return nil
}
