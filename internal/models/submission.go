package models

type DisplayMode string

const (
	ModePins    DisplayMode = "pins"
	ModeHeatmap DisplayMode = "heatmap"
)

// GeoFenceResult - результат проверки расстояния
type GeoFenceResult struct {
	DistanceMeters float64 `json:"distance_meters"`
	WithinRange    bool    `json:"within_range"`
}

// Evidence - прикрепленное фото-доказательство
type Evidence struct {
	Filename string
	Data     []byte
}

type SubmissionKind string

const (
	KindReport  SubmissionKind = "report"
	KindCleanup SubmissionKind = "cleanup"
)

// PendingSubmission существует только между подтверждением пользователя и ответом сервера
type PendingSubmission struct {
	Kind     SubmissionKind
	Target   Coordinate
	MarkerID string
	Evidence *Evidence
	Note     string
}
