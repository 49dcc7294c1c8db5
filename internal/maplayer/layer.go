package maplayer

import "github.com/shenikar/trashunter/internal/models"

type Icon string

const (
	IconDirty   Icon = "dirty"
	IconCleaned Icon = "cleaned"
)

// Layer - слой, прикрепляемый к поверхности карты
type Layer interface {
	Mode() models.DisplayMode
}

// Tooltip - содержимое всплывающей подсказки маркера
type Tooltip struct {
	Title    string
	Note     string
	ImageURL string
}

// Pin - визуальный маркер для одной записи
type Pin struct {
	MarkerID           string
	Position           models.Coordinate
	Icon               Icon
	Interactive        bool
	Tooltip            Tooltip
	HasCleanupEvidence bool
}

type PinLayer struct {
	Pins []Pin
}

func (*PinLayer) Mode() models.DisplayMode { return models.ModePins }

// Find ищет пин по ID маркера
func (l *PinLayer) Find(id string) (Pin, bool) {
	for _, p := range l.Pins {
		if p.MarkerID == id {
			return p, true
		}
	}
	return Pin{}, false
}

// HeatPoint - взвешенная точка тепловой карты
type HeatPoint struct {
	Lat    float64
	Lng    float64
	Weight float64
}

// GradientStop - цвет градиента для заданной интенсивности
type GradientStop struct {
	At    float64
	Color string
}

type HeatOptions struct {
	Radius   int
	Blur     int
	MaxZoom  int
	Gradient []GradientStop
}

// DefaultHeatOptions - параметры отрисовки тепловой карты
var DefaultHeatOptions = HeatOptions{
	Radius:  25,
	Blur:    15,
	MaxZoom: 17,
	Gradient: []GradientStop{
		{At: 0.4, Color: "blue"},
		{At: 0.6, Color: "cyan"},
		{At: 0.7, Color: "lime"},
		{At: 0.8, Color: "yellow"},
		{At: 1.0, Color: "red"},
	},
}

type HeatLayer struct {
	Points  []HeatPoint
	Options HeatOptions
}

func (*HeatLayer) Mode() models.DisplayMode { return models.ModeHeatmap }

const (
	dirtyWeight   = 1.0
	cleanedWeight = 0.5
)

// Weight возвращает вес маркера в тепловой карте
func Weight(status models.MarkerStatus) float64 {
	if status == models.StatusDirty {
		return dirtyWeight
	}
	return cleanedWeight
}
