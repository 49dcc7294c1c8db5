package maplayer

import "sync"

// Recorder - поверхность в памяти; хранит прикрепленные слои
type Recorder struct {
	mu       sync.Mutex
	attached []Layer
	maxSeen  int
	onChange func([]Layer)
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnChange вызывается после каждого прикрепления и открепления
func (r *Recorder) OnChange(fn func([]Layer)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

func (r *Recorder) Attach(l Layer) {
	r.mu.Lock()
	r.attached = append(r.attached, l)
	if len(r.attached) > r.maxSeen {
		r.maxSeen = len(r.attached)
	}
	layers, fn := r.snapshotLocked()
	r.mu.Unlock()
	if fn != nil {
		fn(layers)
	}
}

func (r *Recorder) Detach(l Layer) {
	r.mu.Lock()
	for i, a := range r.attached {
		if a == l {
			r.attached = append(r.attached[:i], r.attached[i+1:]...)
			break
		}
	}
	layers, fn := r.snapshotLocked()
	r.mu.Unlock()
	if fn != nil {
		fn(layers)
	}
}

// Layers возвращает прикрепленные сейчас слои
func (r *Recorder) Layers() []Layer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Layer{}, r.attached...)
}

// MaxAttached - наибольшее число одновременно прикрепленных слоев
func (r *Recorder) MaxAttached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxSeen
}

func (r *Recorder) snapshotLocked() ([]Layer, func([]Layer)) {
	return append([]Layer{}, r.attached...), r.onChange
}
