package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shenikar/trashunter/internal/alert"
	"github.com/shenikar/trashunter/internal/geofence"
	"github.com/shenikar/trashunter/internal/markerapi"
	"github.com/shenikar/trashunter/internal/models"
	"github.com/shenikar/trashunter/internal/profile"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=pipeline.go -destination=mocks/mock_pipeline.go -package=mocks

// MarkerAPI - операции записи на удаленном сервере
type MarkerAPI interface {
	CreateMarker(ctx context.Context, pos models.Coordinate, note string, ev models.Evidence) (models.Marker, error)
	CleanMarker(ctx context.Context, id string, user models.Coordinate, ev models.Evidence) error
}

// Refresher пересинхронизирует хранилище маркеров после принятой записи
type Refresher interface {
	Refresh(ctx context.Context) (models.MarkerCollection, error)
}

// Locator дает самую свежую позицию пользователя
type Locator interface {
	Current() (models.Coordinate, bool)
}

// Notifier - канал уведомлений пользователю
type Notifier interface {
	Success(msg string)
	Warn(msg string, ttl time.Duration)
}

const DefaultNote = models.DefaultNote

type Config struct {
	ReportReward  int
	CleanupReward int
	UserID        string
	// AlertTTL - срок жизни информационных предупреждений, WarningTTL - предупреждений о расстоянии и отказах
	AlertTTL   time.Duration
	WarningTTL time.Duration
}

type State string

const (
	StateIdle               State = "idle"
	StateLocationGatePassed State = "locationGatePassed"
	StateEvidenceAttached   State = "evidenceAttached"
	StateSubmitting         State = "submitting"
	StateSuccess            State = "success"
	StateRejected           State = "rejected"
)

type flow struct {
	state   State
	pending *models.PendingSubmission
}

// Pipeline ведет два сценария записи: отметку загрязнения и подтверждение уборки.
// Оба проходят шаги: геозона, отправка, оптимистичное обновление, синхронизация, уведомление.
type Pipeline struct {
	api      MarkerAPI
	store    Refresher
	locator  Locator
	fence    geofence.Evaluator
	stats    *profile.LocalStats
	profiles profile.Store
	alerts   Notifier
	cfg      Config
	logger   *logrus.Logger

	mu    sync.Mutex
	flows map[models.SubmissionKind]*flow
}

func NewPipeline(
	api MarkerAPI,
	store Refresher,
	locator Locator,
	fence geofence.Evaluator,
	stats *profile.LocalStats,
	profiles profile.Store,
	alerts Notifier,
	cfg Config,
	logger *logrus.Logger,
) *Pipeline {
	if cfg.AlertTTL <= 0 {
		cfg.AlertTTL = alert.DefaultTTL
	}
	if cfg.WarningTTL <= 0 {
		cfg.WarningTTL = alert.WarningTTL
	}
	return &Pipeline{
		api:      api,
		store:    store,
		locator:  locator,
		fence:    fence,
		stats:    stats,
		profiles: profiles,
		alerts:   alerts,
		cfg:      cfg,
		logger:   logger,
		flows: map[models.SubmissionKind]*flow{
			models.KindReport:  {state: StateIdle},
			models.KindCleanup: {state: StateIdle},
		},
	}
}

// State возвращает состояние сценария
func (p *Pipeline) State(kind models.SubmissionKind) State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flows[kind].state
}

// Pending возвращает копию незавершенной отправки
func (p *Pipeline) Pending(kind models.SubmissionKind) (models.PendingSubmission, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := p.flows[kind]
	if f.pending == nil {
		return models.PendingSubmission{}, false
	}
	return *f.pending, true
}

// Active сообщает, какой сценарий сейчас открыт
func (p *Pipeline) Active() (models.SubmissionKind, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activeLocked()
}

func (p *Pipeline) activeLocked() (models.SubmissionKind, bool) {
	for _, kind := range []models.SubmissionKind{models.KindReport, models.KindCleanup} {
		if p.flows[kind].state != StateIdle {
			return kind, true
		}
	}
	return "", false
}

// warning - предупреждение, собранное под блокировкой и показанное после нее
type warning struct {
	msg string
	ttl time.Duration
}

// warn показывает предупреждение вне блокировки: слушатель уведомлений может читать состояние конвейера
func (p *Pipeline) warn(w *warning) {
	if w != nil {
		p.alerts.Warn(w.msg, w.ttl)
	}
}

// BeginReport проверяет выбранную точку по геозоне и открывает форму отметки
func (p *Pipeline) BeginReport(target models.Coordinate) error {
	p.mu.Lock()
	w, err := p.beginReportLocked(target)
	p.mu.Unlock()

	p.warn(w)
	return err
}

func (p *Pipeline) beginReportLocked(target models.Coordinate) (*warning, error) {
	if _, open := p.activeLocked(); open {
		return nil, ErrFlowActive
	}
	user, ok := p.locator.Current()
	if !ok {
		return &warning{"Your location is not available yet. Wait before marking a spot.", p.cfg.AlertTTL}, ErrLocationUnavailable
	}
	res := p.fence.Evaluate(user, target)
	if !res.WithinRange {
		msg := fmt.Sprintf("You are too far away (%sm). You can only mark spots within %sm of you.",
			geofence.FormatMeters(res.DistanceMeters), geofence.FormatMeters(p.fence.Threshold))
		return &warning{msg, p.cfg.WarningTTL}, &GateError{Result: res, Threshold: p.fence.Threshold}
	}

	f := p.flows[models.KindReport]
	f.state = StateLocationGatePassed
	f.pending = &models.PendingSubmission{Kind: models.KindReport, Target: target}
	return nil, nil
}

// BeginCleanup проверяет, что маркер грязный и пользователь рядом, и открывает форму уборки
func (p *Pipeline) BeginCleanup(marker models.Marker) error {
	p.mu.Lock()
	w, err := p.beginCleanupLocked(marker)
	p.mu.Unlock()

	p.warn(w)
	return err
}

func (p *Pipeline) beginCleanupLocked(marker models.Marker) (*warning, error) {
	if _, open := p.activeLocked(); open {
		return nil, ErrFlowActive
	}
	if !marker.IsDirty() {
		return nil, ErrMarkerNotDirty
	}
	user, ok := p.locator.Current()
	if !ok {
		return &warning{"Your location is not available yet. Please wait.", p.cfg.AlertTTL}, ErrLocationUnavailable
	}
	res := p.fence.Evaluate(user, marker.Position)
	if !res.WithinRange {
		msg := fmt.Sprintf("You are too far from this spot (%sm). You must be within %sm to clean it.",
			geofence.FormatMeters(res.DistanceMeters), geofence.FormatMeters(p.fence.Threshold))
		return &warning{msg, p.cfg.WarningTTL}, &GateError{Result: res, Threshold: p.fence.Threshold}
	}

	f := p.flows[models.KindCleanup]
	f.state = StateLocationGatePassed
	f.pending = &models.PendingSubmission{Kind: models.KindCleanup, MarkerID: marker.ID, Target: marker.Position}
	return nil, nil
}

// AttachEvidence прикрепляет фото к открытому сценарию
func (p *Pipeline) AttachEvidence(kind models.SubmissionKind, ev models.Evidence) error {
	if len(ev.Data) == 0 {
		return ErrNoEvidence
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	f := p.flows[kind]
	switch f.state {
	case StateLocationGatePassed, StateEvidenceAttached:
	case StateSubmitting:
		return ErrBusy
	default:
		return ErrInvalidState
	}
	f.pending.Evidence = &ev
	f.state = StateEvidenceAttached
	return nil
}

// SetNote задает текст отметки
func (p *Pipeline) SetNote(kind models.SubmissionKind, note string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f := p.flows[kind]
	switch f.state {
	case StateLocationGatePassed, StateEvidenceAttached:
		f.pending.Note = note
		return nil
	case StateSubmitting:
		return ErrBusy
	default:
		return ErrInvalidState
	}
}

// Cancel закрывает форму и отбрасывает незавершенную отправку
func (p *Pipeline) Cancel(kind models.SubmissionKind) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f := p.flows[kind]
	if f.state == StateSubmitting {
		return ErrBusy
	}
	f.state = StateIdle
	f.pending = nil
	return nil
}

// Submit отправляет открытый сценарий на сервер
func (p *Pipeline) Submit(ctx context.Context, kind models.SubmissionKind) error {
	p.mu.Lock()
	f := p.flows[kind]
	switch f.state {
	case StateEvidenceAttached:
	case StateSubmitting:
		p.mu.Unlock()
		return ErrBusy
	case StateLocationGatePassed:
		p.mu.Unlock()
		return ErrNoEvidence
	default:
		p.mu.Unlock()
		return ErrInvalidState
	}
	pending := *f.pending
	f.state = StateSubmitting
	p.mu.Unlock()

	log := p.logger.WithFields(logrus.Fields{
		"component": "submission",
		"method":    "Submit",
		"kind":      kind,
		"marker_id": pending.MarkerID,
	})

	var (
		scoreReward, collected int
		successMsg             string
		err                    error
	)
	switch kind {
	case models.KindReport:
		note := strings.TrimSpace(pending.Note)
		if note == "" {
			note = DefaultNote
		}
		_, err = p.api.CreateMarker(ctx, pending.Target, note, *pending.Evidence)
		scoreReward = p.cfg.ReportReward
		successMsg = fmt.Sprintf("Report received! +%d points.", p.cfg.ReportReward)
	case models.KindCleanup:
		user, ok := p.locator.Current()
		if !ok {
			err = ErrLocationUnavailable
			break
		}
		err = p.api.CleanMarker(ctx, pending.MarkerID, user, *pending.Evidence)
		scoreReward = p.cfg.CleanupReward
		collected = 1
		successMsg = fmt.Sprintf("Area cleaned! +%d points.", p.cfg.CleanupReward)
	}

	if err != nil {
		p.finish(kind, StateRejected)
		log.WithError(err).Warn("Submission was not accepted")
		p.alerts.Warn(rejectionMessage(err), p.cfg.WarningTTL)
		return fmt.Errorf("submission: %s not accepted: %w", kind, err)
	}

	// локальная копия меняется сразу; удаленная - без отката при ошибке
	updated := p.stats.Apply(scoreReward, collected)
	log.WithField("score", updated.Score).Info("Submission accepted")
	p.incrementProfile(ctx, log, scoreReward, collected)

	if _, err := p.store.Refresh(ctx); err != nil {
		log.WithError(err).Debug("Post-submission refresh failed, poller will catch up")
	}

	p.finish(kind, StateSuccess)
	p.alerts.Success(successMsg)
	return nil
}

func (p *Pipeline) incrementProfile(ctx context.Context, log *logrus.Entry, score, collected int) {
	if p.profiles == nil || p.cfg.UserID == "" {
		return
	}
	if err := p.profiles.Increment(ctx, p.cfg.UserID, score, collected); err != nil {
		log.WithError(err).Error("Failed to apply reward to profile store, local stats keep the optimistic value")
	}
}

// finish фиксирует исход: success закрывает форму, rejected возвращает к прикрепленному фото
func (p *Pipeline) finish(kind models.SubmissionKind, outcome State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := p.flows[kind]
	switch outcome {
	case StateSuccess:
		f.state = StateIdle
		f.pending = nil
	case StateRejected:
		f.state = StateEvidenceAttached
	}
}

func rejectionMessage(err error) string {
	if rej, ok := markerapi.IsRejection(err); ok {
		return rej.Reason
	}
	if errors.Is(err, ErrLocationUnavailable) {
		return "Your location is not available."
	}
	return "Could not reach the server!"
}
