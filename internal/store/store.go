package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/shenikar/trashunter/internal/models"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

// Fetcher отдает полный снимок маркеров с удаленного сервера
type Fetcher interface {
	ListMarkers(ctx context.Context) ([]models.Marker, error)
}

// Store держит коллекцию маркеров по состоянию на последний успешный опрос
type Store struct {
	fetcher Fetcher
	logger  *logrus.Logger

	mu        sync.RWMutex
	markers   models.MarkerCollection
	version   uint64
	listeners []func(models.MarkerCollection)
}

func New(fetcher Fetcher, logger *logrus.Logger) *Store {
	return &Store{
		fetcher: fetcher,
		logger:  logger,
		markers: models.NewMarkerCollection(nil),
	}
}

// Refresh заменяет коллекцию свежим снимком. При ошибке прежняя коллекция сохраняется.
func (s *Store) Refresh(ctx context.Context) (models.MarkerCollection, error) {
	log := s.logger.WithFields(logrus.Fields{
		"component": "store",
		"method":    "Refresh",
	})

	markers, err := s.fetcher.ListMarkers(ctx)
	if err != nil {
		log.WithError(err).Warn("Marker refresh failed, keeping last snapshot")
		return s.Markers(), fmt.Errorf("store: refresh failed: %w", err)
	}

	coll := models.NewMarkerCollection(markers)

	s.mu.Lock()
	s.markers = coll
	s.version++
	listeners := append([]func(models.MarkerCollection){}, s.listeners...)
	s.mu.Unlock()

	log.WithField("count", coll.Len()).Debug("Marker snapshot replaced")
	for _, fn := range listeners {
		fn(coll)
	}
	return coll, nil
}

// Markers возвращает текущий снимок
func (s *Store) Markers() models.MarkerCollection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.markers
}

// Version увеличивается при каждой успешной замене снимка
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// OnChange подписывает слушателя на замену снимка
func (s *Store) OnChange(fn func(models.MarkerCollection)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
