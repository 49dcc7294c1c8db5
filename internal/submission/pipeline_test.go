package submission

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shenikar/trashunter/internal/alert"
	"github.com/shenikar/trashunter/internal/geofence"
	"github.com/shenikar/trashunter/internal/markerapi"
	"github.com/shenikar/trashunter/internal/models"
	"github.com/shenikar/trashunter/internal/profile"
	profilemocks "github.com/shenikar/trashunter/internal/profile/mocks"
	"github.com/shenikar/trashunter/internal/submission/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	userPos    = models.Coordinate{Lat: 41.0, Lng: 29.0}
	nearTarget = models.Coordinate{Lat: 41.0010, Lng: 29.0}
	farTarget  = models.Coordinate{Lat: 41.0030, Lng: 29.0}
	photo      = models.Evidence{Filename: "trash.jpg", Data: []byte{0xff, 0xd8, 0xff}}
)

type fixture struct {
	pipeline *Pipeline
	api      *mocks.MockMarkerAPI
	store    *mocks.MockRefresher
	locator  *mocks.MockLocator
	alerts   *mocks.MockNotifier
	profiles *profilemocks.MockStore
	stats    *profile.LocalStats
	logs     *bytes.Buffer
}

func newFixture(t *testing.T, userID string) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		api:      mocks.NewMockMarkerAPI(ctrl),
		store:    mocks.NewMockRefresher(ctrl),
		locator:  mocks.NewMockLocator(ctrl),
		alerts:   mocks.NewMockNotifier(ctrl),
		profiles: profilemocks.NewMockStore(ctrl),
		stats:    profile.NewLocalStats(),
		logs:     &bytes.Buffer{},
	}
	logger := logrus.New()
	logger.SetOutput(f.logs)

	f.pipeline = NewPipeline(f.api, f.store, f.locator, geofence.New(geofence.DefaultRadiusMeters),
		f.stats, f.profiles, f.alerts, Config{ReportReward: 50, CleanupReward: 100, UserID: userID}, logger)
	return f
}

func dirtyMarker(id string, pos models.Coordinate) models.Marker {
	return models.Marker{ID: id, Position: pos, Status: models.StatusDirty}
}

func TestBeginReport_WithinRangeOpensFlow(t *testing.T) {
	f := newFixture(t, "")
	f.locator.EXPECT().Current().Return(userPos, true)

	require.NoError(t, f.pipeline.BeginReport(nearTarget))

	assert.Equal(t, StateLocationGatePassed, f.pipeline.State(models.KindReport))
	pending, ok := f.pipeline.Pending(models.KindReport)
	require.True(t, ok)
	assert.Equal(t, nearTarget, pending.Target)
	kind, open := f.pipeline.Active()
	assert.True(t, open)
	assert.Equal(t, models.KindReport, kind)
}

func TestBeginReport_TooFarWarnsWithDistance(t *testing.T) {
	f := newFixture(t, "")
	f.locator.EXPECT().Current().Return(userPos, true)
	f.alerts.EXPECT().Warn(gomock.Any(), alert.WarningTTL).Do(func(msg string, _ time.Duration) {
		assert.Contains(t, msg, "333")
		assert.Contains(t, msg, "275")
	})

	err := f.pipeline.BeginReport(farTarget)

	var gateErr *GateError
	require.ErrorAs(t, err, &gateErr)
	assert.False(t, gateErr.Result.WithinRange)
	assert.Equal(t, StateIdle, f.pipeline.State(models.KindReport))
	_, open := f.pipeline.Active()
	assert.False(t, open)
}

func TestBeginReport_LocationUnavailable(t *testing.T) {
	f := newFixture(t, "")
	f.locator.EXPECT().Current().Return(models.Coordinate{}, false)
	f.alerts.EXPECT().Warn(gomock.Any(), alert.DefaultTTL)

	err := f.pipeline.BeginReport(nearTarget)

	assert.ErrorIs(t, err, ErrLocationUnavailable)
	assert.Equal(t, StateIdle, f.pipeline.State(models.KindReport))
}

func TestBeginReport_WarningListenerCanReadPipeline(t *testing.T) {
	// Подготовка: слушатель уведомлений читает состояние конвейера во время предупреждения
	f := newFixture(t, "")
	f.locator.EXPECT().Current().Return(userPos, true).Times(2)
	var seen []State
	f.alerts.EXPECT().Warn(gomock.Any(), gomock.Any()).Do(func(string, time.Duration) {
		seen = append(seen, f.pipeline.State(models.KindReport))
		_, open := f.pipeline.Active()
		assert.False(t, open)
	}).Times(2)

	// Действие
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.pipeline.BeginReport(farTarget)
		_ = f.pipeline.BeginCleanup(dirtyMarker("m1", farTarget))
	}()

	// Проверки
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline blocked inside alert callback")
	}
	assert.Equal(t, []State{StateIdle, StateIdle}, seen)
}

func TestBeginReport_RejectedWhileAnotherFlowOpen(t *testing.T) {
	f := newFixture(t, "")
	f.locator.EXPECT().Current().Return(userPos, true)
	require.NoError(t, f.pipeline.BeginCleanup(dirtyMarker("m1", nearTarget)))

	err := f.pipeline.BeginReport(nearTarget)

	assert.ErrorIs(t, err, ErrFlowActive)
}

func TestBeginCleanup_RejectsCleanedMarker(t *testing.T) {
	f := newFixture(t, "")
	m := models.Marker{ID: "m2", Position: nearTarget, Status: models.StatusCleaned}

	err := f.pipeline.BeginCleanup(m)

	assert.ErrorIs(t, err, ErrMarkerNotDirty)
	assert.Equal(t, StateIdle, f.pipeline.State(models.KindCleanup))
}

func TestBeginCleanup_TooFar(t *testing.T) {
	f := newFixture(t, "")
	f.locator.EXPECT().Current().Return(userPos, true)
	f.alerts.EXPECT().Warn(gomock.Any(), alert.WarningTTL).Do(func(msg string, _ time.Duration) {
		assert.Contains(t, msg, "333")
	})

	err := f.pipeline.BeginCleanup(dirtyMarker("m1", farTarget))

	var gateErr *GateError
	assert.ErrorAs(t, err, &gateErr)
	assert.Equal(t, StateIdle, f.pipeline.State(models.KindCleanup))
}

func TestSubmit_RequiresEvidence(t *testing.T) {
	f := newFixture(t, "")
	f.locator.EXPECT().Current().Return(userPos, true)
	require.NoError(t, f.pipeline.BeginReport(nearTarget))

	err := f.pipeline.Submit(context.Background(), models.KindReport)

	assert.ErrorIs(t, err, ErrNoEvidence)
	assert.ErrorIs(t, f.pipeline.AttachEvidence(models.KindReport, models.Evidence{}), ErrNoEvidence)
	assert.Equal(t, StateLocationGatePassed, f.pipeline.State(models.KindReport))
}

func TestSubmit_WithoutOpenFlow(t *testing.T) {
	f := newFixture(t, "")

	assert.ErrorIs(t, f.pipeline.Submit(context.Background(), models.KindReport), ErrInvalidState)
	assert.ErrorIs(t, f.pipeline.AttachEvidence(models.KindCleanup, photo), ErrInvalidState)
	assert.ErrorIs(t, f.pipeline.SetNote(models.KindReport, "x"), ErrInvalidState)
}

func TestSubmitReport_Success(t *testing.T) {
	f := newFixture(t, "u1")
	ctx := context.Background()
	f.locator.EXPECT().Current().Return(userPos, true)
	require.NoError(t, f.pipeline.BeginReport(nearTarget))
	require.NoError(t, f.pipeline.AttachEvidence(models.KindReport, photo))

	gomock.InOrder(
		f.api.EXPECT().CreateMarker(ctx, nearTarget, DefaultNote, photo).Return(dirtyMarker("m9", nearTarget), nil),
		f.profiles.EXPECT().Increment(ctx, "u1", 50, 0).Return(nil),
		f.store.EXPECT().Refresh(ctx).Return(models.NewMarkerCollection(nil), nil),
		f.alerts.EXPECT().Success("Report received! +50 points."),
	)

	require.NoError(t, f.pipeline.Submit(ctx, models.KindReport))

	assert.Equal(t, 50, f.stats.Get().Score)
	assert.Equal(t, 0, f.stats.Get().CollectedCount)
	assert.Equal(t, StateIdle, f.pipeline.State(models.KindReport))
	_, ok := f.pipeline.Pending(models.KindReport)
	assert.False(t, ok)
}

func TestSubmitReport_UsesTrimmedNote(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	f.locator.EXPECT().Current().Return(userPos, true)
	require.NoError(t, f.pipeline.BeginReport(nearTarget))
	require.NoError(t, f.pipeline.SetNote(models.KindReport, "  plastic bottles  "))
	require.NoError(t, f.pipeline.AttachEvidence(models.KindReport, photo))

	f.api.EXPECT().CreateMarker(ctx, nearTarget, "plastic bottles", photo).Return(models.Marker{}, nil)
	f.store.EXPECT().Refresh(ctx).Return(models.NewMarkerCollection(nil), nil)
	f.alerts.EXPECT().Success(gomock.Any())

	require.NoError(t, f.pipeline.Submit(ctx, models.KindReport))
	assert.Equal(t, 50, f.stats.Get().Score)
}

func TestSubmitReport_ServerRejectionKeepsEvidence(t *testing.T) {
	f := newFixture(t, "u1")
	ctx := context.Background()
	f.locator.EXPECT().Current().Return(userPos, true)
	require.NoError(t, f.pipeline.BeginReport(nearTarget))
	require.NoError(t, f.pipeline.AttachEvidence(models.KindReport, photo))

	rejection := &markerapi.RejectionError{StatusCode: 400, Reason: "Image is not a photo of waste"}
	f.api.EXPECT().CreateMarker(ctx, nearTarget, DefaultNote, photo).Return(models.Marker{}, rejection)
	f.alerts.EXPECT().Warn("Image is not a photo of waste", alert.WarningTTL)

	err := f.pipeline.Submit(ctx, models.KindReport)

	assert.ErrorIs(t, err, rejection)
	assert.Equal(t, 0, f.stats.Get().Score)
	assert.Equal(t, StateEvidenceAttached, f.pipeline.State(models.KindReport))
	pending, ok := f.pipeline.Pending(models.KindReport)
	require.True(t, ok)
	assert.Equal(t, photo, *pending.Evidence)
}

func TestSubmitReport_TransportFailure(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	f.locator.EXPECT().Current().Return(userPos, true)
	require.NoError(t, f.pipeline.BeginReport(nearTarget))
	require.NoError(t, f.pipeline.AttachEvidence(models.KindReport, photo))

	f.api.EXPECT().CreateMarker(ctx, nearTarget, DefaultNote, photo).Return(models.Marker{}, errors.New("connection refused"))
	f.alerts.EXPECT().Warn("Could not reach the server!", alert.WarningTTL)

	require.Error(t, f.pipeline.Submit(ctx, models.KindReport))
	assert.Equal(t, 0, f.stats.Get().Score)
	assert.Equal(t, StateEvidenceAttached, f.pipeline.State(models.KindReport))
}

func TestSubmitCleanup_SuccessSendsCurrentPosition(t *testing.T) {
	f := newFixture(t, "u1")
	ctx := context.Background()
	moved := models.Coordinate{Lat: 41.0005, Lng: 29.0}

	f.locator.EXPECT().Current().Return(userPos, true)
	require.NoError(t, f.pipeline.BeginCleanup(dirtyMarker("m1", nearTarget)))
	require.NoError(t, f.pipeline.AttachEvidence(models.KindCleanup, photo))

	f.locator.EXPECT().Current().Return(moved, true)
	gomock.InOrder(
		f.api.EXPECT().CleanMarker(ctx, "m1", moved, photo).Return(nil),
		f.profiles.EXPECT().Increment(ctx, "u1", 100, 1).Return(nil),
		f.store.EXPECT().Refresh(ctx).Return(models.NewMarkerCollection(nil), nil),
		f.alerts.EXPECT().Success("Area cleaned! +100 points."),
	)

	require.NoError(t, f.pipeline.Submit(ctx, models.KindCleanup))

	stats := f.stats.Get()
	assert.Equal(t, 100, stats.Score)
	assert.Equal(t, 1, stats.CollectedCount)
	assert.Equal(t, StateIdle, f.pipeline.State(models.KindCleanup))
}

func TestSubmitCleanup_ProfileFailureKeepsLocalStats(t *testing.T) {
	f := newFixture(t, "u1")
	ctx := context.Background()
	f.locator.EXPECT().Current().Return(userPos, true).Times(2)
	require.NoError(t, f.pipeline.BeginCleanup(dirtyMarker("m1", nearTarget)))
	require.NoError(t, f.pipeline.AttachEvidence(models.KindCleanup, photo))

	f.api.EXPECT().CleanMarker(ctx, "m1", userPos, photo).Return(nil)
	f.profiles.EXPECT().Increment(ctx, "u1", 100, 1).Return(errors.New("redis down"))
	f.store.EXPECT().Refresh(ctx).Return(models.MarkerCollection{}, errors.New("timeout"))
	f.alerts.EXPECT().Success(gomock.Any())

	require.NoError(t, f.pipeline.Submit(ctx, models.KindCleanup))

	assert.Equal(t, 100, f.stats.Get().Score)
	assert.Contains(t, f.logs.String(), "Failed to apply reward to profile store")
}

func TestSubmitCleanup_LocationLostBeforeSubmit(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	f.locator.EXPECT().Current().Return(userPos, true)
	require.NoError(t, f.pipeline.BeginCleanup(dirtyMarker("m1", nearTarget)))
	require.NoError(t, f.pipeline.AttachEvidence(models.KindCleanup, photo))

	f.locator.EXPECT().Current().Return(models.Coordinate{}, false)
	f.alerts.EXPECT().Warn("Your location is not available.", alert.WarningTTL)

	err := f.pipeline.Submit(ctx, models.KindCleanup)

	assert.ErrorIs(t, err, ErrLocationUnavailable)
	assert.Equal(t, StateEvidenceAttached, f.pipeline.State(models.KindCleanup))
}

func TestCancel_DiscardsPending(t *testing.T) {
	f := newFixture(t, "")
	f.locator.EXPECT().Current().Return(userPos, true)
	require.NoError(t, f.pipeline.BeginReport(nearTarget))
	require.NoError(t, f.pipeline.AttachEvidence(models.KindReport, photo))

	require.NoError(t, f.pipeline.Cancel(models.KindReport))

	assert.Equal(t, StateIdle, f.pipeline.State(models.KindReport))
	_, ok := f.pipeline.Pending(models.KindReport)
	assert.False(t, ok)
}

func TestSubmit_ConcurrentSubmitIsBusy(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	f.locator.EXPECT().Current().Return(userPos, true)
	require.NoError(t, f.pipeline.BeginReport(nearTarget))
	require.NoError(t, f.pipeline.AttachEvidence(models.KindReport, photo))

	f.api.EXPECT().CreateMarker(ctx, nearTarget, DefaultNote, photo).DoAndReturn(
		func(context.Context, models.Coordinate, string, models.Evidence) (models.Marker, error) {
			assert.Equal(t, StateSubmitting, f.pipeline.State(models.KindReport))
			assert.ErrorIs(t, f.pipeline.Submit(ctx, models.KindReport), ErrBusy)
			assert.ErrorIs(t, f.pipeline.Cancel(models.KindReport), ErrBusy)
			return models.Marker{}, nil
		})
	f.store.EXPECT().Refresh(ctx).Return(models.NewMarkerCollection(nil), nil)
	f.alerts.EXPECT().Success(gomock.Any())

	require.NoError(t, f.pipeline.Submit(ctx, models.KindReport))
}
