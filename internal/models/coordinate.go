package models

import "math"

// Coordinate - точка в градусах WGS84
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// InvalidCoordinate используется для отсутствующих или нечисловых координат
var InvalidCoordinate = Coordinate{Lat: math.NaN(), Lng: math.NaN()}

// Valid проверяет, что координата числовая и лежит в допустимых пределах
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}
