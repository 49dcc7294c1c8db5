package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shenikar/trashunter/internal/alert"
	"github.com/shenikar/trashunter/internal/geofence"
	"github.com/shenikar/trashunter/internal/location"
	"github.com/shenikar/trashunter/internal/maplayer"
	"github.com/shenikar/trashunter/internal/models"
	"github.com/shenikar/trashunter/internal/profile"
	profilemocks "github.com/shenikar/trashunter/internal/profile/mocks"
	"github.com/shenikar/trashunter/internal/store"
	storemocks "github.com/shenikar/trashunter/internal/store/mocks"
	"github.com/shenikar/trashunter/internal/submission"
	submissionmocks "github.com/shenikar/trashunter/internal/submission/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	userPos = models.Coordinate{Lat: 41.0000, Lng: 29.0000}
	photo   = models.Evidence{Filename: "photo.jpg", Data: []byte{0xff, 0xd8, 0xff, 0xe0}}
)

type harness struct {
	app      *App
	fetcher  *storemocks.MockFetcher
	api      *submissionmocks.MockMarkerAPI
	profiles *profilemocks.MockStore
	surface  *maplayer.Recorder
	alerts   *alert.Channel
	stats    *profile.LocalStats
}

func newHarness(t *testing.T, src location.Source, poller bool) *harness {
	ctrl := gomock.NewController(t)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	h := &harness{
		fetcher:  storemocks.NewMockFetcher(ctrl),
		api:      submissionmocks.NewMockMarkerAPI(ctrl),
		profiles: profilemocks.NewMockStore(ctrl),
		surface:  maplayer.NewRecorder(),
		alerts:   alert.NewChannel(),
		stats:    profile.NewLocalStats(),
	}

	tracker := location.NewTracker(logger)
	markers := store.New(h.fetcher, logger)
	reconciler := maplayer.NewReconciler(h.surface, nil, logger)
	pipeline := submission.NewPipeline(h.api, markers, tracker, geofence.New(275), h.stats, h.profiles, h.alerts,
		submission.Config{ReportReward: 50, CleanupReward: 100, UserID: "u1"}, logger)

	deps := Deps{
		Tracker:    tracker,
		Source:     src,
		Store:      markers,
		Reconciler: reconciler,
		Pipeline:   pipeline,
		Stats:      h.stats,
		Profiles:   h.profiles,
		Alerts:     h.alerts,
	}
	if poller {
		deps.Poller = store.NewPoller(markers, time.Hour, logger)
	}
	h.app = New(deps, Config{UserID: "u1"}, logger)
	t.Cleanup(h.app.Stop)
	return h
}

func (h *harness) start(t *testing.T) {
	h.profiles.EXPECT().Load(gomock.Any(), "u1").Return(models.UserStats{Score: 10, RankTitle: models.DefaultRankTitle}, nil)
	h.app.Start(context.Background())
}

func TestStart_ResolvesLocationAndLoadsProfile(t *testing.T) {
	h := newHarness(t, location.StaticSource{Position: userPos}, true)
	h.fetcher.EXPECT().ListMarkers(gomock.Any()).Return([]models.Marker{
		{ID: "m1", Position: models.Coordinate{Lat: 41.001, Lng: 29}, Status: models.StatusDirty},
	}, nil).MinTimes(1)

	h.start(t)

	state := h.app.State()
	assert.Equal(t, location.StatusGranted, state.Location.Status)
	assert.Equal(t, 10, state.Stats.Score)
	assert.Equal(t, ModalNone, state.Modal)
	assert.Equal(t, models.ModePins, state.Mode)
	assert.Eventually(t, func() bool {
		dirty, _ := h.app.Counts()
		return dirty == 1
	}, time.Second, 5*time.Millisecond)
}

func TestStart_DeniedLocationUsesDefaultCenter(t *testing.T) {
	h := newHarness(t, location.DeniedSource{}, false)
	h.start(t)

	state := h.app.State()
	assert.Equal(t, location.StatusDenied, state.Location.Status)
	assert.Nil(t, state.Location.Position)

	err := h.app.ReportHere()
	assert.ErrorIs(t, err, submission.ErrLocationUnavailable)
	current, ok := h.alerts.Current()
	require.True(t, ok)
	assert.Equal(t, alert.KindWarning, current.Kind)
}

func TestTapMap_GateScenario(t *testing.T) {
	h := newHarness(t, location.StaticSource{Position: userPos}, false)
	h.start(t)

	err := h.app.TapMap(models.Coordinate{Lat: 41.0030, Lng: 29.0000})
	var gateErr *submission.GateError
	require.ErrorAs(t, err, &gateErr)
	current, ok := h.alerts.Current()
	require.True(t, ok)
	assert.Contains(t, current.Message, "333")
	assert.Equal(t, ModalNone, h.app.State().Modal)

	require.NoError(t, h.app.TapMap(models.Coordinate{Lat: 41.0010, Lng: 29.0000}))
	assert.Equal(t, ModalReport, h.app.State().Modal)

	// пока форма открыта, нажатия на карту игнорируются
	assert.ErrorIs(t, h.app.TapMap(models.Coordinate{Lat: 41.0005, Lng: 29.0000}), ErrModalOpen)
	pending, ok := h.app.Pending()
	require.True(t, ok)
	assert.Equal(t, 41.0010, pending.Target.Lat)
}

func TestReportFlow_RefreshShowsNewDirtyMarker(t *testing.T) {
	h := newHarness(t, location.StaticSource{Position: userPos}, false)
	h.start(t)
	ctx := context.Background()
	target := models.Coordinate{Lat: 41.0010, Lng: 29.0000}

	require.NoError(t, h.app.TapMap(target))
	require.NoError(t, h.app.SetNote("bags near the pier"))
	require.NoError(t, h.app.AttachEvidence(photo))

	created := models.Marker{ID: "m7", Position: target, Status: models.StatusDirty, Note: "bags near the pier"}
	h.api.EXPECT().CreateMarker(ctx, target, "bags near the pier", photo).Return(created, nil)
	h.profiles.EXPECT().Increment(ctx, "u1", 50, 0).Return(nil)
	h.fetcher.EXPECT().ListMarkers(ctx).Return([]models.Marker{created}, nil)

	require.NoError(t, h.app.Submit(ctx))

	state := h.app.State()
	assert.Equal(t, 60, state.Stats.Score)
	assert.Equal(t, ModalNone, state.Modal)
	dirty, cleaned := h.app.Counts()
	assert.Equal(t, 1, dirty)
	assert.Equal(t, 0, cleaned)

	pins, ok := h.app.Layer().(*maplayer.PinLayer)
	require.True(t, ok)
	pin, found := pins.Find("m7")
	require.True(t, found)
	assert.True(t, pin.Interactive)
	assert.Equal(t, maplayer.IconDirty, pin.Icon)
}

func TestCleanupFlow_MarkerLosesInteractivity(t *testing.T) {
	h := newHarness(t, location.StaticSource{Position: userPos}, false)
	h.start(t)
	ctx := context.Background()
	m1 := models.Marker{ID: "m1", Position: models.Coordinate{Lat: 41.0010, Lng: 29.0000}, Status: models.StatusDirty}

	h.fetcher.EXPECT().ListMarkers(ctx).Return([]models.Marker{m1}, nil)
	require.NoError(t, h.app.Refresh(ctx))

	require.NoError(t, h.app.SelectMarker("m1"))
	state := h.app.State()
	assert.Equal(t, ModalCleanup, state.Modal)
	pending, ok := h.app.Pending()
	require.True(t, ok)
	assert.Equal(t, "m1", pending.MarkerID)

	require.NoError(t, h.app.AttachEvidence(photo))

	cleaned := m1
	cleaned.Status = models.StatusCleaned
	h.api.EXPECT().CleanMarker(ctx, "m1", userPos, photo).Return(nil)
	h.profiles.EXPECT().Increment(ctx, "u1", 100, 1).Return(nil)
	h.fetcher.EXPECT().ListMarkers(ctx).Return([]models.Marker{cleaned}, nil)

	require.NoError(t, h.app.Submit(ctx))

	state = h.app.State()
	assert.Equal(t, 110, state.Stats.Score)
	assert.Equal(t, 1, state.Stats.CollectedCount)
	assert.Equal(t, ModalNone, state.Modal)

	pins, ok := h.app.Layer().(*maplayer.PinLayer)
	require.True(t, ok)
	pin, found := pins.Find("m1")
	require.True(t, found)
	assert.False(t, pin.Interactive)
	assert.Equal(t, maplayer.IconCleaned, pin.Icon)

	assert.ErrorIs(t, h.app.SelectMarker("m1"), ErrNotSelectable)
}

func TestSelectMarker_TooFarKeepsModalClosed(t *testing.T) {
	h := newHarness(t, location.StaticSource{Position: userPos}, false)
	h.start(t)
	ctx := context.Background()

	far := models.Marker{ID: "m2", Position: models.Coordinate{Lat: 41.0030, Lng: 29.0000}, Status: models.StatusDirty}
	h.fetcher.EXPECT().ListMarkers(ctx).Return([]models.Marker{far}, nil)
	require.NoError(t, h.app.Refresh(ctx))

	err := h.app.SelectMarker("m2")

	var gateErr *submission.GateError
	assert.ErrorAs(t, err, &gateErr)
	assert.Equal(t, ModalNone, h.app.State().Modal)
}

func TestSelectMarker_IgnoredInHeatmapMode(t *testing.T) {
	h := newHarness(t, location.StaticSource{Position: userPos}, false)
	h.start(t)
	ctx := context.Background()

	h.fetcher.EXPECT().ListMarkers(ctx).Return([]models.Marker{
		{ID: "m1", Position: models.Coordinate{Lat: 41.001, Lng: 29}, Status: models.StatusDirty},
	}, nil)
	require.NoError(t, h.app.Refresh(ctx))

	assert.Equal(t, models.ModeHeatmap, h.app.ToggleHeatmap())
	assert.ErrorIs(t, h.app.SelectMarker("m1"), ErrNotSelectable)

	_, isHeat := h.app.Layer().(*maplayer.HeatLayer)
	assert.True(t, isHeat)
	assert.Equal(t, 1, h.surface.MaxAttached())
}

func TestCancel_ClosesModal(t *testing.T) {
	h := newHarness(t, location.StaticSource{Position: userPos}, false)
	h.start(t)

	assert.ErrorIs(t, h.app.Cancel(), ErrNoModal)
	require.NoError(t, h.app.ReportHere())
	assert.Equal(t, ModalReport, h.app.State().Modal)

	require.NoError(t, h.app.Cancel())
	assert.Equal(t, ModalNone, h.app.State().Modal)
	assert.ErrorIs(t, h.app.Submit(context.Background()), ErrNoModal)
}

func TestLeaderboard(t *testing.T) {
	h := newHarness(t, location.StaticSource{Position: userPos}, false)
	entries := []models.LeaderboardEntry{{UserID: "u2", Name: "Ayşe", Initials: "AY", Score: 300}}
	h.profiles.EXPECT().Leaderboard(gomock.Any(), DefaultLeaderboard).Return(entries, nil)

	got, err := h.app.Leaderboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
