package v1

import (
	"mime/multipart"
	"time"

	"github.com/google/uuid"
)

// ReportPollutionForm - multipart-форма отметки загрязнения
// @Description multipart-форма отметки загрязнения
type ReportPollutionForm struct {
	Latitude  *float64              `form:"lat" validate:"required,latitude"`
	Longitude *float64              `form:"lng" validate:"required,longitude"`
	Note      string                `form:"note" validate:"max=1000"`
	File      *multipart.FileHeader `form:"file" validate:"required"`
}

// CleanupForm - multipart-форма подтверждения уборки
// @Description multipart-форма подтверждения уборки
type CleanupForm struct {
	UserLat *float64              `form:"user_lat" validate:"required,latitude"`
	UserLng *float64              `form:"user_lng" validate:"required,longitude"`
	File    *multipart.FileHeader `form:"file" validate:"required"`
}

// MarkerResponse DTO для ответа с информацией о маркере
// @Description DTO для ответа с информацией о маркере
type MarkerResponse struct {
	ID            uuid.UUID  `json:"id"`
	Latitude      float64    `json:"lat"`
	Longitude     float64    `json:"lng"`
	Status        string     `json:"status"`
	ImageURL      string     `json:"image_url"`
	CleanImageURL *string    `json:"clean_image_url"`
	Note          string     `json:"note"`
	CreatedAt     time.Time  `json:"created_at"`
	CleanedAt     *time.Time `json:"cleaned_at"`
}

// errorResponse - тело ошибки в формате {"detail": "..."}
type errorResponse struct {
	Detail string `json:"detail"`
}
