package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Default canvas size sent with batch requests.
const (
	DefaultWidth  = 1080
	DefaultHeight = 1920
)

// HTTPEngine posts ink batches as JSON to a recognition endpoint and expects
// {"candidates": ["...", ...]} back.
type HTTPEngine struct {
	Endpoint string
	APIKey   string
	Language string
	Width    int
	Height   int
	Client   *http.Client

	mu    sync.Mutex
	ready bool
}

// NewHTTPEngine creates an engine for endpoint.
func NewHTTPEngine(endpoint, apiKey, language string) *HTTPEngine {
	return &HTTPEngine{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Language: language,
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type httpResponse struct {
	Candidates []string `json:"candidates"`
}

func (e *HTTPEngine) IsReady(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// EnsureReady checks the endpoint once; a successful check is cached.
func (e *HTTPEngine) EnsureReady(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready {
		return true
	}
	if e.Endpoint == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, e.Endpoint, nil)
	if err != nil {
		return false
	}
	e.authorize(req)
	resp, err := e.client().Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	// Endpoints that only accept POST still prove they are reachable.
	e.ready = resp.StatusCode < 500 && resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden
	return e.ready
}

func (e *HTTPEngine) Recognize(ctx context.Context, ink Ink) ([]string, error) {
	body, err := json.Marshal(ink.Batch(e.Width, e.Height, e.Language))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	e.authorize(req)

	resp, err := e.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("recognizer returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var out httpResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("invalid recognizer response: %w", err)
	}
	return out.Candidates, nil
}

func (e *HTTPEngine) authorize(req *http.Request) {
	if e.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.APIKey)
	}
}

func (e *HTTPEngine) client() *http.Client {
	if e.Client != nil {
		return e.Client
	}
	return http.DefaultClient
}
