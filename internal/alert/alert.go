package alert

import (
	"sync"
	"time"
)

const (
	DefaultTTL = 3 * time.Second
	WarningTTL = 4 * time.Second
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
)

// Alert - короткое уведомление пользователю
type Alert struct {
	Kind      Kind
	Message   string
	ExpiresAt time.Time
}

// Channel показывает не более одного уведомления; новое заменяет текущее
type Channel struct {
	ttl      time.Duration
	mu       sync.Mutex
	current  *Alert
	gen      uint64
	timer    *time.Timer
	listener func(Alert, bool)
}

func NewChannel() *Channel {
	return &Channel{ttl: DefaultTTL}
}

// NewChannelTTL задает срок жизни уведомлений об успехе
func NewChannelTTL(ttl time.Duration) *Channel {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Channel{ttl: ttl}
}

// OnChange задает слушателя; второй аргумент false означает, что слот опустел
func (c *Channel) OnChange(fn func(Alert, bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = fn
}

func (c *Channel) Success(msg string) {
	c.Show(KindSuccess, msg, c.ttl)
}

func (c *Channel) Warn(msg string, ttl time.Duration) {
	c.Show(KindWarning, msg, ttl)
}

// Show заменяет текущее уведомление и запускает таймер его истечения
func (c *Channel) Show(kind Kind, msg string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	a := Alert{Kind: kind, Message: msg, ExpiresAt: time.Now().Add(ttl)}

	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.current = &a
	c.timer = time.AfterFunc(ttl, func() { c.expire(gen) })
	listener := c.listener
	c.mu.Unlock()

	if listener != nil {
		listener(a, true)
	}
}

// Dismiss закрывает уведомление досрочно
func (c *Channel) Dismiss() {
	c.mu.Lock()
	c.clearLocked()
	c.gen++
	listener := c.listener
	c.mu.Unlock()

	if listener != nil {
		listener(Alert{}, false)
	}
}

func (c *Channel) expire(gen uint64) {
	c.mu.Lock()
	// таймер замененного уведомления не трогает новое
	if gen != c.gen || c.current == nil {
		c.mu.Unlock()
		return
	}
	c.clearLocked()
	listener := c.listener
	c.mu.Unlock()

	if listener != nil {
		listener(Alert{}, false)
	}
}

func (c *Channel) clearLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.current = nil
}

// Current возвращает видимое уведомление
func (c *Channel) Current() (Alert, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Alert{}, false
	}
	return *c.current, true
}

// Close останавливает таймер истечения
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	c.gen++
}
