package models

import (
	"sort"
	"time"
)

type MarkerStatus string

const (
	StatusDirty   MarkerStatus = "dirty"
	StatusCleaned MarkerStatus = "cleaned"
)

// Valid сообщает, известен ли статус
func (s MarkerStatus) Valid() bool {
	return s == StatusDirty || s == StatusCleaned
}

// DefaultNote - подпись отметки, если пользователь ничего не ввел
const DefaultNote = "Atık tespiti."

// Marker - отмеченное место загрязнения в том виде, в каком его видит клиент
type Marker struct {
	ID              string       `json:"id"`
	Position        Coordinate   `json:"position"`
	Status          MarkerStatus `json:"status"`
	Note            string       `json:"note,omitempty"`
	ReportImageRef  string       `json:"report_image_ref,omitempty"`
	CleanupImageRef string       `json:"cleanup_image_ref,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	CleanedAt       *time.Time   `json:"cleaned_at,omitempty"`
}

func (m Marker) IsDirty() bool {
	return m.Status == StatusDirty
}

// MarkerCollection - снимок маркеров, проиндексированный по ID.
// Каждое обновление заменяет коллекцию целиком.
type MarkerCollection struct {
	byID map[string]Marker
}

// NewMarkerCollection строит коллекцию из снимка; при повторе ID побеждает последний
func NewMarkerCollection(markers []Marker) MarkerCollection {
	byID := make(map[string]Marker, len(markers))
	for _, m := range markers {
		byID[m.ID] = m
	}
	return MarkerCollection{byID: byID}
}

func (c MarkerCollection) Get(id string) (Marker, bool) {
	m, ok := c.byID[id]
	return m, ok
}

func (c MarkerCollection) Len() int {
	return len(c.byID)
}

// All возвращает маркеры, отсортированные по ID
func (c MarkerCollection) All() []Marker {
	out := make([]Marker, 0, len(c.byID))
	for _, m := range c.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count считает маркеры с заданным статусом
func (c MarkerCollection) Count(status MarkerStatus) int {
	n := 0
	for _, m := range c.byID {
		if m.Status == status {
			n++
		}
	}
	return n
}
