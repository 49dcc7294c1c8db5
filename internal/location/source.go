package location

import (
	"context"

	"github.com/shenikar/trashunter/internal/models"
)

// StaticSource отдает заранее известную позицию, например из конфигурации
type StaticSource struct {
	Position models.Coordinate
}

func (s StaticSource) CurrentPosition(ctx context.Context) (models.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinate{}, err
	}
	return s.Position, nil
}

// DeniedSource моделирует отказ в доступе к геолокации
type DeniedSource struct{}

func (DeniedSource) CurrentPosition(context.Context) (models.Coordinate, error) {
	return models.Coordinate{}, ErrPermissionDenied
}
