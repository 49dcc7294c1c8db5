package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shenikar/trashunter/internal/alert"
	"github.com/shenikar/trashunter/internal/location"
	"github.com/shenikar/trashunter/internal/maplayer"
	"github.com/shenikar/trashunter/internal/models"
	"github.com/shenikar/trashunter/internal/profile"
	"github.com/shenikar/trashunter/internal/store"
	"github.com/shenikar/trashunter/internal/submission"
	"github.com/sirupsen/logrus"
)

var (
	ErrModalOpen      = errors.New("app: a form is already open")
	ErrNoModal        = errors.New("app: no form is open")
	ErrNotSelectable  = errors.New("app: marker is not selectable")
	ErrNoProfileStore = errors.New("app: profile store is not configured")
)

// DefaultLeaderboard - размер таблицы лидеров
const DefaultLeaderboard = 20

type Modal string

const (
	ModalNone    Modal = "none"
	ModalReport  Modal = "report"
	ModalCleanup Modal = "cleanup"
)

// State - явное состояние приложения для отображения
type State struct {
	Modal    Modal
	Mode     models.DisplayMode
	UserID   string
	Stats    models.UserStats
	Location location.Snapshot
}

type Config struct {
	UserID          string
	LeaderboardSize int
}

// Deps - компоненты, которыми управляет контроллер
type Deps struct {
	Tracker    *location.Tracker
	Source     location.Source
	Store      *store.Store
	Poller     *store.Poller
	Reconciler *maplayer.Reconciler
	Pipeline   *submission.Pipeline
	Stats      *profile.LocalStats
	Profiles   profile.Store
	Alerts     *alert.Channel
}

// App связывает трекер, хранилище маркеров, слой карты и сценарии записи
type App struct {
	deps   Deps
	cfg    Config
	logger *logrus.Logger

	selMu     sync.Mutex
	selectErr error
}

func New(deps Deps, cfg Config, logger *logrus.Logger) *App {
	if cfg.LeaderboardSize <= 0 {
		cfg.LeaderboardSize = DefaultLeaderboard
	}
	a := &App{deps: deps, cfg: cfg, logger: logger}

	deps.Store.OnChange(deps.Reconciler.Reconcile)
	deps.Reconciler.OnSelect(func(m models.Marker) {
		err := deps.Pipeline.BeginCleanup(m)
		a.selMu.Lock()
		a.selectErr = err
		a.selMu.Unlock()
	})
	return a
}

// Start определяет позицию, загружает профиль и запускает опрос маркеров
func (a *App) Start(ctx context.Context) {
	log := a.logger.WithFields(logrus.Fields{
		"component": "app",
		"method":    "Start",
	})

	if a.deps.Source != nil {
		status := a.deps.Tracker.Resolve(ctx, a.deps.Source)
		log.WithField("location", status).Info("Location resolved")
	}

	if a.deps.Profiles != nil && a.cfg.UserID != "" {
		stats, err := a.deps.Profiles.Load(ctx, a.cfg.UserID)
		if err != nil {
			log.WithError(err).Warn("Failed to load profile, starting from empty stats")
		} else {
			a.deps.Stats.Set(stats)
		}
	}

	a.deps.Reconciler.Reconcile(a.deps.Store.Markers())
	if a.deps.Poller != nil {
		a.deps.Poller.Start(ctx)
	}
}

// Stop останавливает опрос и таймеры уведомлений
func (a *App) Stop() {
	if a.deps.Poller != nil {
		a.deps.Poller.Stop()
	}
	a.deps.Alerts.Close()
}

// Refresh синхронно обновляет снимок маркеров
func (a *App) Refresh(ctx context.Context) error {
	_, err := a.deps.Store.Refresh(ctx)
	return err
}

func (a *App) State() State {
	return State{
		Modal:    a.modal(),
		Mode:     a.deps.Reconciler.Mode(),
		UserID:   a.cfg.UserID,
		Stats:    a.deps.Stats.Get(),
		Location: a.deps.Tracker.Snapshot(),
	}
}

func (a *App) modal() Modal {
	kind, open := a.deps.Pipeline.Active()
	if !open {
		return ModalNone
	}
	if kind == models.KindCleanup {
		return ModalCleanup
	}
	return ModalReport
}

// MoveTo передает новую позицию устройства трекеру
func (a *App) MoveTo(pos models.Coordinate) {
	a.deps.Tracker.Update(pos)
}

// TapMap открывает отметку загрязнения в точке; пока открыта форма, нажатия игнорируются
func (a *App) TapMap(target models.Coordinate) error {
	if a.modal() != ModalNone {
		return ErrModalOpen
	}
	return a.deps.Pipeline.BeginReport(target)
}

// ReportHere - отметка в текущей позиции пользователя
func (a *App) ReportHere() error {
	pos, _ := a.deps.Tracker.Current()
	return a.TapMap(pos)
}

// SelectMarker обрабатывает нажатие на пин и запускает проверку уборки
func (a *App) SelectMarker(id string) error {
	if a.modal() != ModalNone {
		return ErrModalOpen
	}

	a.selMu.Lock()
	a.selectErr = nil
	a.selMu.Unlock()

	if !a.deps.Reconciler.Select(id) {
		return ErrNotSelectable
	}

	a.selMu.Lock()
	defer a.selMu.Unlock()
	return a.selectErr
}

// ToggleHeatmap переключает режим отображения
func (a *App) ToggleHeatmap() models.DisplayMode {
	return a.deps.Reconciler.Toggle()
}

func (a *App) AttachEvidence(ev models.Evidence) error {
	kind, err := a.activeKind()
	if err != nil {
		return err
	}
	return a.deps.Pipeline.AttachEvidence(kind, ev)
}

func (a *App) SetNote(note string) error {
	kind, err := a.activeKind()
	if err != nil {
		return err
	}
	return a.deps.Pipeline.SetNote(kind, note)
}

func (a *App) Submit(ctx context.Context) error {
	kind, err := a.activeKind()
	if err != nil {
		return err
	}
	return a.deps.Pipeline.Submit(ctx, kind)
}

func (a *App) Cancel() error {
	kind, err := a.activeKind()
	if err != nil {
		return err
	}
	return a.deps.Pipeline.Cancel(kind)
}

func (a *App) activeKind() (models.SubmissionKind, error) {
	kind, open := a.deps.Pipeline.Active()
	if !open {
		return "", ErrNoModal
	}
	return kind, nil
}

// Pending возвращает незавершенную отправку открытой формы
func (a *App) Pending() (models.PendingSubmission, bool) {
	kind, open := a.deps.Pipeline.Active()
	if !open {
		return models.PendingSubmission{}, false
	}
	return a.deps.Pipeline.Pending(kind)
}

// Counts возвращает число грязных и убранных маркеров для строки состояния
func (a *App) Counts() (dirty, cleaned int) {
	markers := a.deps.Store.Markers()
	return markers.Count(models.StatusDirty), markers.Count(models.StatusCleaned)
}

func (a *App) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	if a.deps.Profiles == nil {
		return nil, ErrNoProfileStore
	}
	entries, err := a.deps.Profiles.Leaderboard(ctx, a.cfg.LeaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("app: leaderboard: %w", err)
	}
	return entries, nil
}

// Layer возвращает прикрепленный слой карты или nil
func (a *App) Layer() maplayer.Layer {
	return a.deps.Reconciler.Attached()
}
