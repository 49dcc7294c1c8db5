package profile

import (
	"context"
	"sync"

	"github.com/shenikar/trashunter/internal/models"
)

//go:generate mockgen -source=profile.go -destination=mocks/mock_profile.go -package=mocks

// Store - внешнее хранилище профилей; может меняться другими клиентами
type Store interface {
	Load(ctx context.Context, userID string) (models.UserStats, error)
	Increment(ctx context.Context, userID string, score, collected int) error
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

// LocalStats - локальная, отстающая копия статистики пользователя
type LocalStats struct {
	mu    sync.RWMutex
	stats models.UserStats
}

func NewLocalStats() *LocalStats {
	return &LocalStats{stats: models.UserStats{RankTitle: models.DefaultRankTitle}}
}

func (l *LocalStats) Get() models.UserStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

func (l *LocalStats) Set(s models.UserStats) {
	if s.RankTitle == "" {
		s.RankTitle = models.DefaultRankTitle
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats = s
}

// Apply оптимистично прибавляет награду и возвращает новое значение
func (l *LocalStats) Apply(score, collected int) models.UserStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats.Score += score
	l.stats.CollectedCount += collected
	return l.stats
}
