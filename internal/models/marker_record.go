package models

import (
	"time"

	"github.com/google/uuid"
)

// MarkerRecord - строка таблицы markers на стороне сервера
type MarkerRecord struct {
	ID            uuid.UUID    `json:"id"`
	Latitude      float64      `json:"lat"`
	Longitude     float64      `json:"lng"`
	Status        MarkerStatus `json:"status"`
	ImageURL      string       `json:"image_url"`
	CleanImageURL *string      `json:"clean_image_url,omitempty"`
	Note          string       `json:"note"`
	CreatedAt     time.Time    `json:"created_at"`
	CleanedAt     *time.Time   `json:"cleaned_at,omitempty"`
}

func (r *MarkerRecord) Position() Coordinate {
	return Coordinate{Lat: r.Latitude, Lng: r.Longitude}
}
