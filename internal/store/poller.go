package store

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultInterval - период опроса сервера
const DefaultInterval = 2 * time.Second

// Poller периодически обновляет Store
type Poller struct {
	store    *Store
	interval time.Duration
	logger   *logrus.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPoller(store *Store, interval time.Duration, logger *logrus.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// Start сразу обновляет снимок, затем обновляет его по таймеру до Stop или отмены ctx
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.WithField("interval", p.interval).Info("Starting marker poller...")
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(ctx)
	}()
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// ошибки уже залогированы в Store.Refresh; следующий тик повторит попытку
	_, _ = p.store.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Stopping marker poller.")
			return
		case <-ticker.C:
			_, _ = p.store.Refresh(ctx)
		}
	}
}

// Stop останавливает таймер и дожидается завершения текущего обновления
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		p.wg.Wait()
	}
}
