package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/trashunter/internal/models"
	"github.com/shenikar/trashunter/internal/service"
)

const (
	markerListCacheKey = "markers:all"
	// markerListGenKey растет при каждой записи; снимок, прочитанный до записи, в кеш не попадает
	markerListGenKey = "markers:gen"
)

const markerColumns = `id, lat, lng, status, image_url, clean_image_url, note, created_at, cleaned_at`

type MarkerRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewMarkerRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.MarkerRepository {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &MarkerRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// Create создает маркер; id и created_at заполняет бд
func (r *MarkerRepository) Create(ctx context.Context, marker *models.MarkerRecord) error {
	query := `
		INSERT INTO markers (lat, lng, status, image_url, note)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		marker.Latitude,
		marker.Longitude,
		marker.Status,
		marker.ImageURL,
		marker.Note,
	).Scan(&marker.ID, &marker.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create marker: %w", err)
	}
	return nil
}

// GetByID возвращает маркер по его UUID
func (r *MarkerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MarkerRecord, error) {
	query := `SELECT ` + markerColumns + ` FROM markers WHERE id = $1;`

	marker, err := scanMarker(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("marker with id %s: %w", id, service.ErrMarkerNotFound)
		}
		return nil, fmt.Errorf("failed to get marker by id: %w", err)
	}
	return marker, nil
}

// List возвращает все маркеры от новых к старым
func (r *MarkerRepository) List(ctx context.Context) ([]*models.MarkerRecord, error) {
	query := `SELECT ` + markerColumns + ` FROM markers ORDER BY created_at DESC;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list markers: %w", err)
	}
	defer rows.Close()

	markers := make([]*models.MarkerRecord, 0)
	for rows.Next() {
		marker, err := scanMarker(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan marker row: %w", err)
		}
		markers = append(markers, marker)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return markers, nil
}

// MarkCleaned переводит грязный маркер в cleaned. Условие на статус не дает убрать маркер дважды.
func (r *MarkerRepository) MarkCleaned(ctx context.Context, id uuid.UUID, cleanImageURL string, cleanedAt time.Time) error {
	query := `
		UPDATE markers SET
			status = 'cleaned',
			clean_image_url = $1,
			cleaned_at = $2
		WHERE id = $3 AND status = 'dirty';
	`
	cmdTag, err := r.db.Exec(ctx, query, cleanImageURL, cleanedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark marker cleaned: %w", err)
	}

	// RowsAffected() == 0: маркера нет или его уже убрали
	if cmdTag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("marker with id %s: %w", id, service.ErrAlreadyCleaned)
	}
	return nil
}

// GetListFromCache возвращает снимок списка из Redis; nil, nil при промахе
func (r *MarkerRepository) GetListFromCache(ctx context.Context) ([]*models.MarkerRecord, error) {
	val, err := r.redisClient.Get(ctx, markerListCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get markers from cache: %w", err)
	}

	markers := make([]*models.MarkerRecord, 0)
	if err := json.Unmarshal(val, &markers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal markers from cache: %w", err)
	}
	return markers, nil
}

// ListCacheGeneration возвращает текущее поколение кеша списка; 0, если записей еще не было
func (r *MarkerRepository) ListCacheGeneration(ctx context.Context) (int64, error) {
	gen, err := r.redisClient.Get(ctx, markerListGenKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get markers cache generation: %w", err)
	}
	return gen, nil
}

// SetListCache сохраняет снимок списка, прочитанный при поколении gen.
// Если с тех пор была запись, снимок отбрасывается и возвращается false.
func (r *MarkerRepository) SetListCache(ctx context.Context, gen int64, markers []*models.MarkerRecord) (bool, error) {
	if markers == nil {
		markers = []*models.MarkerRecord{}
	}
	val, err := json.Marshal(markers)
	if err != nil {
		return false, fmt.Errorf("failed to marshal markers for cache: %w", err)
	}

	stored := false
	err = r.redisClient.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, markerListGenKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, markerListCacheKey, val, r.cacheTTL)
			return nil
		})
		if err != nil {
			return err
		}
		stored = true
		return nil
	}, markerListGenKey)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			// Запись произошла между WATCH и EXEC
			return false, nil
		}
		return false, fmt.Errorf("failed to set markers in cache: %w", err)
	}
	return stored, nil
}

// InvalidateListCache сдвигает поколение и удаляет снимок списка после любой записи
func (r *MarkerRepository) InvalidateListCache(ctx context.Context) error {
	_, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, markerListGenKey)
		pipe.Del(ctx, markerListCacheKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate markers cache: %w", err)
	}
	return nil
}

func scanMarker(row pgx.Row) (*models.MarkerRecord, error) {
	marker := &models.MarkerRecord{}
	err := row.Scan(
		&marker.ID,
		&marker.Latitude,
		&marker.Longitude,
		&marker.Status,
		&marker.ImageURL,
		&marker.CleanImageURL,
		&marker.Note,
		&marker.CreatedAt,
		&marker.CleanedAt,
	)
	if err != nil {
		return nil, err
	}
	return marker, nil
}
