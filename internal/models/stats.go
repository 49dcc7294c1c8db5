package models

// DefaultRankTitle - звание пользователя без сохраненного профиля
const DefaultRankTitle = "Çevre Gönüllüsü"

// UserStats - локальная копия статистики профиля
type UserStats struct {
	Score          int    `json:"score"`
	CollectedCount int    `json:"collected_count"`
	RankTitle      string `json:"rank_title"`
}

// LeaderboardEntry - строка таблицы лидеров
type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Score    int    `json:"score"`
}
