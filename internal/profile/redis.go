package profile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/trashunter/internal/models"
)

const (
	leaderboardKey = "leaderboard"
	anonymousName  = "Hidden Hero"
)

// RedisStore хранит профили в хэшах profile:{uid}, рейтинг - в sorted set
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func profileKey(userID string) string {
	return fmt.Sprintf("profile:%s", userID)
}

// Load читает статистику; отсутствующий профиль дает значения по умолчанию
func (s *RedisStore) Load(ctx context.Context, userID string) (models.UserStats, error) {
	vals, err := s.client.HGetAll(ctx, profileKey(userID)).Result()
	if err != nil {
		return models.UserStats{}, fmt.Errorf("profile: failed to load %s: %w", userID, err)
	}
	stats := models.UserStats{
		Score:          atoi(vals["score"]),
		CollectedCount: atoi(vals["collected_count"]),
		RankTitle:      vals["rank_title"],
	}
	if stats.RankTitle == "" {
		stats.RankTitle = models.DefaultRankTitle
	}
	return stats, nil
}

// Increment атомарно увеличивает счет и число уборок
func (s *RedisStore) Increment(ctx context.Context, userID string, score, collected int) error {
	key := profileKey(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if score != 0 {
			pipe.HIncrBy(ctx, key, "score", int64(score))
			pipe.ZIncrBy(ctx, leaderboardKey, float64(score), userID)
		}
		if collected != 0 {
			pipe.HIncrBy(ctx, key, "collected_count", int64(collected))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("profile: failed to increment %s: %w", userID, err)
	}
	return nil
}

// SaveProfile записывает отображаемые поля профиля
func (s *RedisStore) SaveProfile(ctx context.Context, userID, fullName, rankTitle string) error {
	fields := map[string]any{"full_name": fullName}
	if rankTitle != "" {
		fields["rank_title"] = rankTitle
	}
	if err := s.client.HSet(ctx, profileKey(userID), fields).Err(); err != nil {
		return fmt.Errorf("profile: failed to save %s: %w", userID, err)
	}
	return nil
}

// Leaderboard возвращает первых limit пользователей с положительным счетом
func (s *RedisStore) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	top, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("profile: failed to query leaderboard: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(top))
	for _, z := range top {
		if z.Score <= 0 {
			continue
		}
		uid, _ := z.Member.(string)
		name, err := s.client.HGet(ctx, profileKey(uid), "full_name").Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("profile: failed to read name of %s: %w", uid, err)
		}
		entries = append(entries, models.LeaderboardEntry{
			UserID:   uid,
			Name:     displayName(name),
			Initials: initials(name),
			Score:    int(z.Score),
		})
	}
	return entries, nil
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return anonymousName
	}
	return name
}

func initials(name string) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) == 0 {
		return "??"
	}
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
