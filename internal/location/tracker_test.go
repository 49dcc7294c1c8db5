package location

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shenikar/trashunter/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker() *Tracker {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return NewTracker(logger)
}

func TestTracker_InitialState(t *testing.T) {
	tr := newTestTracker()

	_, ok := tr.Current()
	assert.False(t, ok)
	assert.Equal(t, StatusUnresolved, tr.Status())
	assert.Equal(t, DefaultCenter, tr.Center())
}

func TestTracker_ResolveGranted(t *testing.T) {
	tr := newTestTracker()
	pos := models.Coordinate{Lat: 41.0, Lng: 29.0}

	st := tr.Resolve(context.Background(), StaticSource{Position: pos})

	assert.Equal(t, StatusGranted, st)
	cur, ok := tr.Current()
	require.True(t, ok)
	assert.Equal(t, pos, cur)
	snap := tr.Snapshot()
	require.NotNil(t, snap.Position)
	assert.Equal(t, pos, *snap.Position)
	assert.Equal(t, pos, tr.Center())
}

func TestTracker_ResolveDenied(t *testing.T) {
	tr := newTestTracker()

	st := tr.Resolve(context.Background(), DeniedSource{})

	assert.Equal(t, StatusDenied, st)
	_, ok := tr.Current()
	assert.False(t, ok)
	assert.Equal(t, DefaultCenter, tr.Center())

	// denied терминален
	tr.Update(models.Coordinate{Lat: 1, Lng: 1})
	_, ok = tr.Current()
	assert.False(t, ok)
	assert.Equal(t, StatusDenied, tr.Resolve(context.Background(), StaticSource{Position: models.Coordinate{Lat: 1, Lng: 1}}))
}

func TestTracker_InvalidPositionDenies(t *testing.T) {
	tr := newTestTracker()

	st := tr.Resolve(context.Background(), StaticSource{Position: models.Coordinate{Lat: 120, Lng: 0}})

	assert.Equal(t, StatusDenied, st)
}

func TestTracker_LiveReferenceSeenByEarlierClosure(t *testing.T) {
	tr := newTestTracker()
	tr.Update(models.Coordinate{Lat: 41.0, Lng: 29.0})

	// обработчик создан до прихода новой позиции
	handler := func() models.Coordinate {
		pos, _ := tr.Current()
		return pos
	}

	tr.Update(models.Coordinate{Lat: 41.5, Lng: 29.5})

	assert.Equal(t, models.Coordinate{Lat: 41.5, Lng: 29.5}, handler())
}

func TestTracker_OnChange(t *testing.T) {
	tr := newTestTracker()
	var got []Snapshot
	tr.OnChange(func(s Snapshot) { got = append(got, s) })

	tr.Update(models.Coordinate{Lat: 41.0, Lng: 29.0})

	require.Len(t, got, 1)
	assert.Equal(t, StatusGranted, got[0].Status)
}

// gatedSource отдает позицию после release и считает обращения
type gatedSource struct {
	pos     models.Coordinate
	err     error
	calls   atomic.Int32
	release chan struct{}
}

func (s *gatedSource) CurrentPosition(ctx context.Context) (models.Coordinate, error) {
	s.calls.Add(1)
	<-s.release
	return s.pos, s.err
}

func TestTracker_ConcurrentResolveQueriesSourceOnce(t *testing.T) {
	// Подготовка
	tr := newTestTracker()
	src := &gatedSource{pos: models.Coordinate{Lat: 41.0, Lng: 29.0}, release: make(chan struct{})}

	// Действие
	var wg sync.WaitGroup
	results := make([]Status, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = tr.Resolve(context.Background(), src)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()

	// Проверки
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, []Status{StatusGranted, StatusGranted}, results)
	assert.Equal(t, StatusGranted, tr.Status())
}

func TestTracker_FailedResolveKeepsPositionFromUpdate(t *testing.T) {
	tr := newTestTracker()
	src := &gatedSource{err: ErrPermissionDenied, release: make(chan struct{})}
	pos := models.Coordinate{Lat: 41.0, Lng: 29.0}

	done := make(chan Status)
	go func() { done <- tr.Resolve(context.Background(), src) }()
	for src.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	tr.Update(pos)
	close(src.release)

	assert.Equal(t, StatusGranted, <-done)
	cur, ok := tr.Current()
	require.True(t, ok)
	assert.Equal(t, pos, cur)
}
