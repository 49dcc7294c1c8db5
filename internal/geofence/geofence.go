package geofence

import (
	"strconv"

	"github.com/golang/geo/s2"
	"github.com/shenikar/trashunter/internal/models"
)

const (
	// EarthRadiusMeters - средний радиус Земли
	EarthRadiusMeters = 6371000.0
	// DefaultRadiusMeters - радиус, в пределах которого разрешены отметка и уборка
	DefaultRadiusMeters = 275.0
)

// Evaluator - единственная точка принятия решений о близости
type Evaluator struct {
	Threshold float64
}

func New(threshold float64) Evaluator {
	if threshold <= 0 {
		threshold = DefaultRadiusMeters
	}
	return Evaluator{Threshold: threshold}
}

// Evaluate считает расстояние по формуле гаверсинусов и сравнивает его с порогом
func (e Evaluator) Evaluate(a, b models.Coordinate) models.GeoFenceResult {
	d := Distance(a, b)
	return models.GeoFenceResult{
		DistanceMeters: d,
		WithinRange:    d <= e.Threshold,
	}
}

// Distance возвращает расстояние между точками в метрах
func Distance(a, b models.Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// FormatMeters печатает расстояние целыми метрами с отбрасыванием дробной части
func FormatMeters(d float64) string {
	return strconv.Itoa(int(d))
}
