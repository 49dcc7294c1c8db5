package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/trashunter/internal/geofence"
	"github.com/shenikar/trashunter/internal/models"
	"github.com/shenikar/trashunter/internal/webhook"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=marker.go -destination=mocks/mock_marker.go -package=mocks

var (
	ErrMarkerNotFound  = errors.New("marker not found")
	ErrAlreadyCleaned  = errors.New("marker is already cleaned")
	ErrInvalidPosition = errors.New("coordinates are out of range")
)

// TooFarError - отправитель уборки вне радиуса маркера
type TooFarError struct {
	Distance  float64
	Threshold float64
}

func (e *TooFarError) Error() string {
	return fmt.Sprintf("You are too far away (%sm). You must be within %sm to clean this spot.",
		geofence.FormatMeters(e.Distance), geofence.FormatMeters(e.Threshold))
}

// MarkerRepository определяет контракт для работы с бд маркеров
type MarkerRepository interface {
	Create(ctx context.Context, marker *models.MarkerRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MarkerRecord, error)
	List(ctx context.Context) ([]*models.MarkerRecord, error)
	MarkCleaned(ctx context.Context, id uuid.UUID, cleanImageURL string, cleanedAt time.Time) error

	GetListFromCache(ctx context.Context) ([]*models.MarkerRecord, error)
	ListCacheGeneration(ctx context.Context) (int64, error)
	SetListCache(ctx context.Context, gen int64, markers []*models.MarkerRecord) (bool, error)
	InvalidateListCache(ctx context.Context) error
}

// EvidenceStore сохраняет фото и возвращает публичный URL
type EvidenceStore interface {
	Save(ctx context.Context, ev models.Evidence) (string, error)
}

// ReportInput - данные новой отметки загрязнения
type ReportInput struct {
	Latitude  float64
	Longitude float64
	Note      string
	Evidence  models.Evidence
}

// CleanupInput - данные подтверждения уборки
type CleanupInput struct {
	MarkerID uuid.UUID
	UserLat  float64
	UserLng  float64
	Evidence models.Evidence
}

// MarkerService определяет контракт бизнес-логики маркеров
type MarkerService interface {
	ListMarkers(ctx context.Context) ([]*models.MarkerRecord, error)
	ReportPollution(ctx context.Context, in ReportInput) (*models.MarkerRecord, error)
	CleanMarker(ctx context.Context, in CleanupInput) (*models.MarkerRecord, error)
}

type markerService struct {
	repo      MarkerRepository
	evidence  EvidenceStore
	publisher webhook.Publisher
	fence     geofence.Evaluator
	logger    *logrus.Logger
	now       func() time.Time
}

func NewMarkerService(
	repo MarkerRepository,
	evidence EvidenceStore,
	publisher webhook.Publisher,
	fence geofence.Evaluator,
	logger *logrus.Logger,
) MarkerService {
	return &markerService{
		repo:      repo,
		evidence:  evidence,
		publisher: publisher,
		fence:     fence,
		logger:    logger,
		now:       time.Now,
	}
}

// ListMarkers возвращает все маркеры; снимок кешируется в Redis
func (s *markerService) ListMarkers(ctx context.Context) ([]*models.MarkerRecord, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "marker",
		"method":  "ListMarkers",
	})

	cached, err := s.repo.GetListFromCache(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to read marker cache, falling back to database")
	} else if cached != nil {
		log.WithField("count", len(cached)).Debug("Markers served from cache")
		return cached, nil
	}

	// Поколение читается до запроса в бд: запись, случившаяся во время чтения, не даст закешировать старый снимок
	gen, genErr := s.repo.ListCacheGeneration(ctx)
	if genErr != nil {
		log.WithError(genErr).Warn("Failed to read marker cache generation, skipping cache fill")
	}

	markers, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list markers from repository")
		return nil, fmt.Errorf("service: could not list markers: %w", err)
	}

	if genErr == nil {
		stored, err := s.repo.SetListCache(ctx, gen, markers)
		if err != nil {
			log.WithError(err).Warn("Failed to cache marker list")
		} else if !stored {
			log.Debug("Markers changed while listing, cache left empty")
		}
	}

	log.WithField("count", len(markers)).Debug("Markers listed from database")
	return markers, nil
}

// ReportPollution сохраняет фото и создает грязный маркер
func (s *markerService) ReportPollution(ctx context.Context, in ReportInput) (*models.MarkerRecord, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "marker",
		"method":  "ReportPollution",
		"lat":     in.Latitude,
		"lng":     in.Longitude,
	})
	log.Info("Attempting to report pollution")

	pos := models.Coordinate{Lat: in.Latitude, Lng: in.Longitude}
	if !pos.Valid() {
		return nil, ErrInvalidPosition
	}

	imageURL, err := s.evidence.Save(ctx, in.Evidence)
	if err != nil {
		log.WithError(err).Warn("Evidence rejected")
		return nil, fmt.Errorf("service: could not store evidence: %w", err)
	}

	note := strings.TrimSpace(in.Note)
	if note == "" {
		note = models.DefaultNote
	}

	marker := &models.MarkerRecord{
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Status:    models.StatusDirty,
		ImageURL:  imageURL,
		Note:      note,
	}
	if err := s.repo.Create(ctx, marker); err != nil {
		log.WithError(err).Error("Failed to create marker in repository")
		return nil, fmt.Errorf("service: could not create marker: %w", err)
	}

	s.afterWrite(ctx, log, webhook.EventMarkerReported, marker)
	log.WithField("marker_id", marker.ID).Info("Marker reported successfully")
	return marker, nil
}

// CleanMarker проверяет маркер и расстояние до отправителя, затем отмечает уборку
func (s *markerService) CleanMarker(ctx context.Context, in CleanupInput) (*models.MarkerRecord, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "marker",
		"method":    "CleanMarker",
		"marker_id": in.MarkerID,
	})
	log.Info("Attempting to clean marker")

	marker, err := s.repo.GetByID(ctx, in.MarkerID)
	if err != nil {
		if errors.Is(err, ErrMarkerNotFound) {
			log.Warn("Attempted to clean a non-existent marker")
			return nil, ErrMarkerNotFound
		}
		log.WithError(err).Error("Failed to get marker from repository")
		return nil, fmt.Errorf("service: could not get marker: %w", err)
	}

	if marker.Status == models.StatusCleaned {
		return nil, ErrAlreadyCleaned
	}

	user := models.Coordinate{Lat: in.UserLat, Lng: in.UserLng}
	if !user.Valid() {
		return nil, ErrInvalidPosition
	}
	res := s.fence.Evaluate(user, marker.Position())
	if !res.WithinRange {
		log.WithField("distance", res.DistanceMeters).Warn("Cleanup submitted from outside the geofence")
		return nil, &TooFarError{Distance: res.DistanceMeters, Threshold: s.fence.Threshold}
	}

	cleanURL, err := s.evidence.Save(ctx, in.Evidence)
	if err != nil {
		log.WithError(err).Warn("Evidence rejected")
		return nil, fmt.Errorf("service: could not store evidence: %w", err)
	}

	cleanedAt := s.now().UTC()
	if err := s.repo.MarkCleaned(ctx, marker.ID, cleanURL, cleanedAt); err != nil {
		switch {
		case errors.Is(err, ErrAlreadyCleaned):
			log.Warn("Marker was cleaned concurrently")
			return nil, ErrAlreadyCleaned
		case errors.Is(err, ErrMarkerNotFound):
			return nil, ErrMarkerNotFound
		}
		log.WithError(err).Error("Failed to mark marker cleaned in repository")
		return nil, fmt.Errorf("service: could not clean marker: %w", err)
	}

	marker.Status = models.StatusCleaned
	marker.CleanImageURL = &cleanURL
	marker.CleanedAt = &cleanedAt

	s.afterWrite(ctx, log, webhook.EventMarkerCleaned, marker)
	log.Info("Marker cleaned successfully")
	return marker, nil
}

// afterWrite сбрасывает кеш списка и публикует событие; ошибки не отменяют запись
func (s *markerService) afterWrite(ctx context.Context, log *logrus.Entry, typ webhook.EventType, marker *models.MarkerRecord) {
	if err := s.repo.InvalidateListCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate marker cache")
	}
	if s.publisher == nil {
		return
	}
	event := webhook.MarkerEvent{Type: typ, Marker: marker, Timestamp: s.now().UTC()}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Error("Failed to publish webhook event")
	}
}
