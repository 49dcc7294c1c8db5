package markerapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shenikar/trashunter/internal/models"
)

// errorPayload - тело ответа с ошибкой; поддерживаются оба формата detail и error
type errorPayload struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

func (p errorPayload) reason() string {
	if len(p.Detail) > 0 {
		var s string
		if err := json.Unmarshal(p.Detail, &s); err == nil {
			return s
		}
		return string(p.Detail)
	}
	return p.Error
}

// markerDTO - запись маркера в том виде, в каком ее отдает сервер
type markerDTO struct {
	ID            any     `json:"id"`
	Lat           any     `json:"lat"`
	Lng           any     `json:"lng"`
	Status        string  `json:"status"`
	Note          *string `json:"note"`
	ImageURL      *string `json:"image_url"`
	CleanImageURL *string `json:"clean_image_url"`
	CreatedAt     *string `json:"created_at"`
	CleanedAt     *string `json:"cleaned_at"`
}

// validatedMarker - поля, без которых маркер нельзя отрисовать
type validatedMarker struct {
	ID     string `validate:"required"`
	Status string `validate:"required,oneof=dirty cleaned"`
}

var errNoID = errors.New("marker has no id")

// ErrNotAList - ответ на запрос списка не является JSON-массивом
var ErrNotAList = errors.New("markerapi: marker list is not a JSON array")

func (c *Client) decodeMarker(raw []byte) (models.Marker, error) {
	var dto markerDTO
	dec := json.NewDecoder(bytes.NewReader(raw))
	// Числовые id не проходят через float64, чтобы не терять точность
	dec.UseNumber()
	if err := dec.Decode(&dto); err != nil {
		return models.Marker{}, fmt.Errorf("markerapi: invalid marker json: %w", err)
	}

	id := formatID(dto.ID)
	if id == "" {
		return models.Marker{}, errNoID
	}
	if err := c.validate.Struct(validatedMarker{ID: id, Status: dto.Status}); err != nil {
		return models.Marker{}, fmt.Errorf("markerapi: marker %s failed validation: %w", id, err)
	}

	m := models.Marker{
		ID: id,
		Position: models.Coordinate{
			Lat: parseNumber(dto.Lat),
			Lng: parseNumber(dto.Lng),
		},
		Status:          models.MarkerStatus(dto.Status),
		Note:            deref(dto.Note),
		ReportImageRef:  deref(dto.ImageURL),
		CleanupImageRef: deref(dto.CleanImageURL),
	}
	if t, ok := parseTime(deref(dto.CreatedAt)); ok {
		m.CreatedAt = t
	}
	if t, ok := parseTime(deref(dto.CleanedAt)); ok {
		m.CleanedAt = &t
	}
	return m, nil
}

func formatID(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return strconv.FormatInt(n, 10)
		}
		if f, err := id.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return id.String()
	default:
		return ""
	}
}

// parseNumber возвращает NaN для отсутствующих и нечисловых значений
func parseNumber(v any) float64 {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
