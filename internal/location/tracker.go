package location

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/shenikar/trashunter/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrPermissionDenied возвращается источником, если пользователь запретил геолокацию
var ErrPermissionDenied = errors.New("location permission denied")

// DefaultCenter - центр карты, когда позиция неизвестна
var DefaultCenter = models.Coordinate{Lat: 41.0082, Lng: 28.9784}

type Status string

const (
	StatusUnresolved Status = "unresolved"
	StatusGranted    Status = "granted"
	StatusDenied     Status = "denied"
)

// Source - одноразовое получение позиции устройства
type Source interface {
	CurrentPosition(ctx context.Context) (models.Coordinate, error)
}

// Snapshot - состояние трекера для отображения
type Snapshot struct {
	Status   Status
	Position *models.Coordinate
}

// Tracker хранит последнюю известную позицию. Снимок для отображения и живая ссылка
// для отложенных колбэков обновляются синхронно в Update.
type Tracker struct {
	logger *logrus.Logger

	// resolveMu держится на все время Resolve: источник опрашивается не более одного раза
	resolveMu sync.Mutex

	mu        sync.Mutex
	snapshot  Snapshot
	listeners []func(Snapshot)

	live atomic.Pointer[models.Coordinate]
}

func NewTracker(logger *logrus.Logger) *Tracker {
	return &Tracker{
		logger:   logger,
		snapshot: Snapshot{Status: StatusUnresolved},
	}
}

// Resolve запрашивает одну позицию. Любая ошибка источника переводит трекер в denied.
func (t *Tracker) Resolve(ctx context.Context, src Source) Status {
	log := t.logger.WithFields(logrus.Fields{
		"component": "location",
		"method":    "Resolve",
	})

	t.resolveMu.Lock()
	defer t.resolveMu.Unlock()

	if st := t.Status(); st != StatusUnresolved {
		return st
	}

	pos, err := src.CurrentPosition(ctx)
	if err != nil {
		log.WithError(err).Warn("Location unavailable, falling back to default center")
		return t.deny()
	}
	if !pos.Valid() {
		log.WithField("position", pos).Warn("Location source returned an invalid position")
		return t.deny()
	}

	t.Update(pos)
	log.WithField("position", pos).Info("Location resolved")
	return StatusGranted
}

// Update записывает новую позицию в обе ячейки
func (t *Tracker) Update(pos models.Coordinate) {
	p := pos

	t.mu.Lock()
	if t.snapshot.Status == StatusDenied {
		t.mu.Unlock()
		return
	}
	t.live.Store(&p)
	t.snapshot = Snapshot{Status: StatusGranted, Position: &p}
	snap := t.snapshot
	listeners := append([]func(Snapshot){}, t.listeners...)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// deny переводит нерешенный трекер в denied; позиция, полученная через Update за время запроса, сохраняется
func (t *Tracker) deny() Status {
	t.mu.Lock()
	if t.snapshot.Status != StatusUnresolved {
		st := t.snapshot.Status
		t.mu.Unlock()
		return st
	}
	t.live.Store(nil)
	t.snapshot = Snapshot{Status: StatusDenied}
	snap := t.snapshot
	listeners := append([]func(Snapshot){}, t.listeners...)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
	return StatusDenied
}

// Current читает живую ссылку; используется внутри асинхронных обработчиков
func (t *Tracker) Current() (models.Coordinate, bool) {
	p := t.live.Load()
	if p == nil {
		return models.Coordinate{}, false
	}
	return *p, true
}

// Snapshot возвращает состояние для отображения
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot
}

func (t *Tracker) Status() Status {
	return t.Snapshot().Status
}

// Center возвращает позицию пользователя или центр по умолчанию
func (t *Tracker) Center() models.Coordinate {
	if pos, ok := t.Current(); ok {
		return pos
	}
	return DefaultCenter
}

// OnChange подписывает слушателя на изменения снимка
func (t *Tracker) OnChange(fn func(Snapshot)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}
