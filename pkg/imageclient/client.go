package imageclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sir_venger/imgserve/internal/models"
	"github.com/sir_venger/imgserve/pkg/imageproto"
)

// Image — загруженная картинка вместе с заголовками, важными потребителю.
type Image struct {
	Body         []byte
	ContentType  string
	CacheControl string
}

// Health — ответ /health.
type Health struct {
	OK bool `json:"ok"`
	models.Stats
}

type Client interface {
	// Get скачать картинку по имени (с расширением или без)
	Get(ctx context.Context, name string) (*Image, error)
	// Health статистика каталога на сервере
	Health(ctx context.Context) (*Health, error)
}

type httpClient struct {
	base string
	c    *http.Client
}

// New создаёт клиент; hc == nil означает http.DefaultClient.
func New(baseURL string, hc *http.Client) Client {
	if hc == nil {
		hc = http.DefaultClient
	}

	return &httpClient{
		base: strings.TrimRight(baseURL, "/"),
		c:    hc,
	}
}

// Get скачивает картинку целиком.
func (h *httpClient) Get(ctx context.Context, name string) (*Image, error) {
	u := fmt.Sprintf(imageproto.ImagePathFormat, h.base, escapePath(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, name); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Image{
		Body:         body,
		ContentType:  resp.Header.Get("Content-Type"),
		CacheControl: resp.Header.Get("Cache-Control"),
	}, nil
}

// Health запрашивает /health.
func (h *httpClient) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.base+imageproto.HealthPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, imageproto.HealthPath); err != nil {
		return nil, err
	}

	var out Health
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	return &out, nil
}

func checkStatus(resp *http.Response, name string) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", models.ErrNotFound, name)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", models.ErrForbidden, name)
	default:
		return fmt.Errorf("image GET failed: %s", resp.Status)
	}
}

// escapePath экранирует каждый сегмент, сохраняя разделители.
func escapePath(name string) string {
	segs := strings.Split(strings.TrimLeft(name, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
