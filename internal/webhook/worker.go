package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const popTimeout = time.Second

// Settings - параметры доставки вебхуков
type Settings struct {
	URL        string
	Secret     string
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
}

// Worker забирает события из очереди Redis и отправляет их POST-запросом
type Worker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	settings    Settings
	httpClient  *http.Client

	wg sync.WaitGroup
}

func NewWorker(redisClient *redis.Client, logger *logrus.Logger, settings Settings) *Worker {
	if settings.MaxRetries <= 0 {
		settings.MaxRetries = 1
	}
	if settings.BaseDelay <= 0 {
		settings.BaseDelay = time.Second
	}
	return &Worker{
		redisClient: redisClient,
		logger:      logger,
		settings:    settings,
		httpClient: &http.Client{
			Timeout: settings.Timeout,
		},
	}
}

// Start запускает горутину обработки очереди до отмены ctx
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting webhook worker...")
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

// Wait ждет завершения горутины после отмены ctx
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			w.logger.Info("Stopping webhook worker.")
			return
		}

		result, err := w.redisClient.BRPop(ctx, popTimeout, webhookQueueKey).Result()
		if err != nil {
			switch {
			case errors.Is(err, redis.Nil), ctx.Err() != nil:
			default:
				w.logger.WithError(err).Error("Failed to pop webhook event from Redis")
				w.sleep(ctx, w.settings.BaseDelay)
			}
			continue
		}

		// result[0] - ключ, result[1] - значение
		payload := result[1]
		var event MarkerEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			w.logger.WithError(err).Error("Failed to unmarshal webhook event from Redis")
			continue
		}

		if err := w.Deliver(ctx, event, payload); err != nil {
			w.logger.WithError(err).Error("Webhook dropped")
		}
	}
}

// Deliver отправляет событие с экспоненциальной задержкой между попытками
func (w *Worker) Deliver(ctx context.Context, event MarkerEvent, rawPayload string) error {
	fields := logrus.Fields{"event_type": event.Type}
	if event.Marker != nil {
		fields["marker_id"] = event.Marker.ID
	}
	log := w.logger.WithFields(fields)
	log.Debug("Processing webhook event...")

	if w.settings.URL == "" {
		log.Debug("Webhook URL is not configured. Skipping webhook delivery.")
		return nil
	}

	delay := w.settings.BaseDelay
	maxRetries := w.settings.MaxRetries
	for i := 0; i < maxRetries; i++ {
		status, err := w.send(ctx, rawPayload)
		if err == nil && status >= 200 && status < 300 {
			log.Info("Webhook delivered successfully.")
			return nil
		}
		if err != nil {
			log.WithError(err).Warnf("Failed to send webhook. Retries left: %d", maxRetries-1-i)
		} else {
			log.Warnf("Webhook delivery failed with status code %d. Retries left: %d", status, maxRetries-1-i)
		}
		if i == maxRetries-1 {
			break
		}
		if !w.sleep(ctx, delay) {
			return ctx.Err()
		}
		delay *= 2
	}

	return fmt.Errorf("webhook: failed to deliver %s after %d attempts", event.Type, maxRetries)
}

func (w *Worker) send(ctx context.Context, rawPayload string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.settings.URL, bytes.NewBufferString(rawPayload))
	if err != nil {
		return 0, fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// подпись HMAC, если задан WEBHOOK_SECRET
	if w.settings.Secret != "" {
		req.Header.Set("X-Webhook-Signature", Sign(rawPayload, w.settings.Secret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Sign возвращает HMAC-SHA256 подпись тела в hex
func Sign(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
