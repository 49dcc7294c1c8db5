package maplayer

import (
	"sync"

	"github.com/shenikar/trashunter/internal/models"
	"github.com/sirupsen/logrus"
)

// Surface - поверхность карты, к которой прикрепляются слои
type Surface interface {
	Attach(Layer)
	Detach(Layer)
}

// ImageResolver превращает ссылку на изображение в URL
type ImageResolver func(ref string) string

// Reconciler пересобирает видимый слой при каждом изменении коллекции или режима.
// К поверхности прикреплено не более одного слоя.
type Reconciler struct {
	surface  Surface
	resolve  ImageResolver
	onSelect func(models.Marker)
	logger   *logrus.Logger

	// rebuildMu упорядочивает вызовы поверхности; mu держится только на время расчета.
	// Слушатели поверхности могут читать состояние, но не должны вызывать Reconcile, SetMode или Toggle.
	rebuildMu sync.Mutex

	mu       sync.Mutex
	mode     models.DisplayMode
	markers  models.MarkerCollection
	attached Layer
}

func NewReconciler(surface Surface, resolve ImageResolver, logger *logrus.Logger) *Reconciler {
	if resolve == nil {
		resolve = func(ref string) string { return ref }
	}
	return &Reconciler{
		surface: surface,
		resolve: resolve,
		logger:  logger,
		mode:    models.ModePins,
		markers: models.NewMarkerCollection(nil),
	}
}

// OnSelect задает обработчик выбора грязного маркера
func (r *Reconciler) OnSelect(fn func(models.Marker)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onSelect = fn
}

// Reconcile перестраивает слой для новой коллекции
func (r *Reconciler) Reconcile(markers models.MarkerCollection) {
	r.rebuildMu.Lock()
	defer r.rebuildMu.Unlock()

	r.mu.Lock()
	r.markers = markers
	old, next := r.rebuildLocked()
	r.mu.Unlock()

	r.swap(old, next)
}

// SetMode переключает режим; смена режима - полная замена слоя
func (r *Reconciler) SetMode(mode models.DisplayMode) {
	if mode != models.ModeHeatmap {
		mode = models.ModePins
	}
	r.rebuildMu.Lock()
	defer r.rebuildMu.Unlock()

	r.mu.Lock()
	r.mode = mode
	old, next := r.rebuildLocked()
	r.mu.Unlock()

	r.swap(old, next)
}

// Toggle переключает пины и тепловую карту и возвращает новый режим
func (r *Reconciler) Toggle() models.DisplayMode {
	r.rebuildMu.Lock()
	defer r.rebuildMu.Unlock()

	r.mu.Lock()
	if r.mode == models.ModeHeatmap {
		r.mode = models.ModePins
	} else {
		r.mode = models.ModeHeatmap
	}
	mode := r.mode
	old, next := r.rebuildLocked()
	r.mu.Unlock()

	r.swap(old, next)
	return mode
}

func (r *Reconciler) Mode() models.DisplayMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// Attached возвращает прикрепленный слой или nil
func (r *Reconciler) Attached() Layer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attached
}

// Select обрабатывает нажатие на пин. Возвращает true, если запущен сценарий уборки.
func (r *Reconciler) Select(id string) bool {
	r.mu.Lock()
	pins, ok := r.attached.(*PinLayer)
	if !ok {
		r.mu.Unlock()
		return false
	}
	pin, found := pins.Find(id)
	marker, known := r.markers.Get(id)
	onSelect := r.onSelect
	r.mu.Unlock()

	if !found || !known || !pin.Interactive || onSelect == nil {
		return false
	}
	onSelect(marker)
	return true
}

// rebuildLocked строит новый слой и возвращает пару для swap
func (r *Reconciler) rebuildLocked() (old, next Layer) {
	old = r.attached
	r.attached = nil

	switch r.mode {
	case models.ModeHeatmap:
		layer := r.buildHeatLayer()
		if len(layer.Points) > 0 {
			r.attached = layer
		}
	default:
		r.attached = r.buildPinLayer()
	}
	return old, r.attached
}

// swap открепляет старый слой и прикрепляет новый; вызывается без mu под rebuildMu
func (r *Reconciler) swap(old, next Layer) {
	if old != nil {
		r.surface.Detach(old)
	}
	if next != nil {
		r.surface.Attach(next)
	}
}

func (r *Reconciler) buildPinLayer() *PinLayer {
	all := r.markers.All()
	layer := &PinLayer{Pins: make([]Pin, 0, len(all))}
	for _, m := range all {
		if !m.Position.Valid() {
			r.logger.WithField("marker_id", m.ID).Debug("Skipping marker with invalid position")
			continue
		}
		dirty := m.IsDirty()
		pin := Pin{
			MarkerID:           m.ID,
			Position:           m.Position,
			Icon:               IconCleaned,
			Interactive:        dirty,
			HasCleanupEvidence: !dirty && m.CleanupImageRef != "",
			Tooltip: Tooltip{
				Title:    "Cleaned",
				Note:     m.Note,
				ImageURL: r.resolve(m.ReportImageRef),
			},
		}
		if dirty {
			pin.Icon = IconDirty
			pin.Tooltip.Title = "Pollution"
		}
		layer.Pins = append(layer.Pins, pin)
	}
	return layer
}

func (r *Reconciler) buildHeatLayer() *HeatLayer {
	all := r.markers.All()
	layer := &HeatLayer{Points: make([]HeatPoint, 0, len(all)), Options: DefaultHeatOptions}
	for _, m := range all {
		if !m.Position.Valid() {
			continue
		}
		layer.Points = append(layer.Points, HeatPoint{
			Lat:    m.Position.Lat,
			Lng:    m.Position.Lng,
			Weight: Weight(m.Status),
		})
	}
	return layer
}
