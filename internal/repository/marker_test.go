package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/trashunter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCacheOnlyRepo(t *testing.T) (*MarkerRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	repo := NewMarkerRepository(nil, rdb, time.Minute).(*MarkerRepository)
	return repo, mr
}

func TestListCache_MissReturnsNil(t *testing.T) {
	repo, _ := newCacheOnlyRepo(t)

	got, err := repo.GetListFromCache(context.Background())

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListCache_RoundTripWithTTL(t *testing.T) {
	repo, mr := newCacheOnlyRepo(t)
	ctx := context.Background()
	cleanURL := "http://localhost:8080/uploads/clean.jpg"
	cleanedAt := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	markers := []*models.MarkerRecord{
		{ID: uuid.New(), Latitude: 41.001, Longitude: 29, Status: models.StatusDirty, ImageURL: "a", Note: "n",
			CreatedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Latitude: 41.002, Longitude: 29, Status: models.StatusCleaned, ImageURL: "b",
			CleanImageURL: &cleanURL, CleanedAt: &cleanedAt, CreatedAt: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)},
	}

	stored, err := repo.SetListCache(ctx, 0, markers)
	require.NoError(t, err)
	require.True(t, stored)
	assert.Equal(t, time.Minute, mr.TTL(markerListCacheKey))

	got, err := repo.GetListFromCache(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, markers[0].ID, got[0].ID)
	assert.Equal(t, models.StatusCleaned, got[1].Status)
	require.NotNil(t, got[1].CleanImageURL)
	assert.Equal(t, cleanURL, *got[1].CleanImageURL)
	assert.True(t, cleanedAt.Equal(*got[1].CleanedAt))
}

func TestListCache_EmptyListIsAHit(t *testing.T) {
	repo, _ := newCacheOnlyRepo(t)
	ctx := context.Background()

	_, err := repo.SetListCache(ctx, 0, nil)
	require.NoError(t, err)

	got, err := repo.GetListFromCache(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListCache_Invalidate(t *testing.T) {
	repo, mr := newCacheOnlyRepo(t)
	ctx := context.Background()
	_, err := repo.SetListCache(ctx, 0, []*models.MarkerRecord{{ID: uuid.New()}})
	require.NoError(t, err)

	require.NoError(t, repo.InvalidateListCache(ctx))

	assert.False(t, mr.Exists(markerListCacheKey))
	got, err := repo.GetListFromCache(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListCache_CorruptEntry(t *testing.T) {
	repo, mr := newCacheOnlyRepo(t)
	require.NoError(t, mr.Set(markerListCacheKey, "{not json"))

	_, err := repo.GetListFromCache(context.Background())

	assert.Error(t, err)
}

func TestListCache_InvalidateBumpsGeneration(t *testing.T) {
	repo, _ := newCacheOnlyRepo(t)
	ctx := context.Background()

	gen, err := repo.ListCacheGeneration(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, repo.InvalidateListCache(ctx))
	require.NoError(t, repo.InvalidateListCache(ctx))

	gen, err = repo.ListCacheGeneration(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)
}

func TestListCache_SnapshotReadBeforeWriteIsDropped(t *testing.T) {
	// Подготовка: снимок прочитан до записи, запись сбросила кеш
	repo, mr := newCacheOnlyRepo(t)
	ctx := context.Background()
	gen, err := repo.ListCacheGeneration(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.InvalidateListCache(ctx))

	// Действие
	stored, err := repo.SetListCache(ctx, gen, []*models.MarkerRecord{})

	// Проверки
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists(markerListCacheKey))

	got, err := repo.GetListFromCache(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListCache_CurrentGenerationIsStored(t *testing.T) {
	repo, _ := newCacheOnlyRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.InvalidateListCache(ctx))
	gen, err := repo.ListCacheGeneration(ctx)
	require.NoError(t, err)

	stored, err := repo.SetListCache(ctx, gen, []*models.MarkerRecord{{ID: uuid.New()}})

	require.NoError(t, err)
	assert.True(t, stored)
	got, err := repo.GetListFromCache(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
