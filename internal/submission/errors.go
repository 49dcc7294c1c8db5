package submission

import (
	"errors"
	"fmt"

	"github.com/shenikar/trashunter/internal/geofence"
	"github.com/shenikar/trashunter/internal/models"
)

var (
	ErrLocationUnavailable = errors.New("submission: location not yet available")
	ErrMarkerNotDirty      = errors.New("submission: marker is not dirty")
	ErrFlowActive          = errors.New("submission: another submission is open")
	ErrBusy                = errors.New("submission: submission in flight")
	ErrInvalidState        = errors.New("submission: operation not allowed in current state")
	ErrNoEvidence          = errors.New("submission: evidence is required")
)

// GateError - цель вне радиуса геозоны
type GateError struct {
	Result    models.GeoFenceResult
	Threshold float64
}

func (e *GateError) Error() string {
	return fmt.Sprintf("submission: target is %sm away, limit is %sm",
		geofence.FormatMeters(e.Result.DistanceMeters), geofence.FormatMeters(e.Threshold))
}
