package markerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/trashunter/internal/models"
	"github.com/sirupsen/logrus"
)

// RejectionError - сервер ответил неуспешным статусом
type RejectionError struct {
	StatusCode int
	Reason     string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.Reason)
}

// Client - HTTP клиент API маркеров
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *logrus.Logger
	validate   *validator.Validate
	apiKey     string
}

type Option func(*Client)

// WithHTTPClient подменяет HTTP клиент
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIKey добавляет заголовок X-API-Key к запросам на запись
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func New(baseURL string, timeout time.Duration, logger *logrus.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("markerapi: invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("markerapi: base url %q must be http or https", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL возвращает адрес API, относительно которого разрешаются ссылки на изображения
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListMarkers запрашивает полный снимок маркеров
func (c *Client) ListMarkers(ctx context.Context) ([]models.Marker, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/markers"), nil)
	if err != nil {
		return nil, fmt.Errorf("markerapi: failed to build list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("markerapi: failed to list markers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, rejection(resp)
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("markerapi: failed to decode marker list: %w", err)
	}
	// null декодируется в nil без ошибки; пустой список приходит как []
	if raw == nil {
		return nil, ErrNotAList
	}

	markers := make([]models.Marker, 0, len(raw))
	for i, entry := range raw {
		m, err := c.decodeMarker(entry)
		if err != nil {
			c.logger.WithError(err).WithField("index", i).Warn("Dropping malformed marker entry")
			continue
		}
		markers = append(markers, m)
	}
	return markers, nil
}

// CreateMarker отправляет новую отметку загрязнения
func (c *Client) CreateMarker(ctx context.Context, pos models.Coordinate, note string, ev models.Evidence) (models.Marker, error) {
	fields := map[string]string{
		"lat":  formatFloat(pos.Lat),
		"lng":  formatFloat(pos.Lng),
		"note": note,
	}
	resp, err := c.sendMultipart(ctx, http.MethodPost, c.endpoint("/api/markers"), fields, ev)
	if err != nil {
		return models.Marker{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Marker{}, fmt.Errorf("markerapi: failed to read create response: %w", err)
	}
	m, err := c.decodeMarker(body)
	if err != nil {
		// сервер принял отметку; новый маркер появится при следующем обновлении
		c.logger.WithError(err).Warn("Create response did not contain a well-formed marker")
		return models.Marker{}, nil
	}
	return m, nil
}

// CleanMarker просит сервер перевести маркер в статус cleaned
func (c *Client) CleanMarker(ctx context.Context, id string, user models.Coordinate, ev models.Evidence) error {
	fields := map[string]string{
		"user_lat": formatFloat(user.Lat),
		"user_lng": formatFloat(user.Lng),
	}
	path := "/api/markers/" + url.PathEscape(id) + "/clean"
	resp, err := c.sendMultipart(ctx, http.MethodPut, c.endpoint(path), fields, ev)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// ResolveImageURL разрешает ссылку на изображение относительно адреса API
func (c *Client) ResolveImageURL(ref string) string {
	return ResolveImageURL(c.baseURL.String(), ref)
}

// ResolveImageURL оставляет абсолютные URL как есть, относительные присоединяет к base
func ResolveImageURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

func (c *Client) sendMultipart(ctx context.Context, method, endpoint string, fields map[string]string, ev models.Evidence) (*http.Response, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("markerapi: failed to write field %s: %w", k, err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(ev.Filename)))
	h.Set("Content-Type", mimetype.Detect(ev.Data).String())
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("markerapi: failed to create file part: %w", err)
	}
	if _, err := part.Write(ev.Data); err != nil {
		return nil, fmt.Errorf("markerapi: failed to write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("markerapi: failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("markerapi: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("markerapi: request %s %s failed: %w", method, endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, rejection(resp)
	}
	return resp, nil
}

func rejection(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload errorPayload
	reason := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		reason = payload.reason()
	}
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return &RejectionError{StatusCode: resp.StatusCode, Reason: reason}
}

// IsRejection сообщает, отклонил ли запрос сам сервер
func IsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
