package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/exp/slog"

	"heybuddy/internal/outbox"
	"heybuddy/internal/store"
)

// TokenSource supplies the current bearer token, or "" when unauthenticated.
type TokenSource func() string

// HTTPTransport speaks to the REST backend: POST to create, PUT to replace,
// DELETE to remove, GET with an owner_id filter for bulk pulls.
type HTTPTransport struct {
	client    *http.Client
	baseURL   string
	token     TokenSource
	userAgent string
	log       *slog.Logger
}

func NewHTTPTransport(baseURL string, token TokenSource, log *slog.Logger) *HTTPTransport {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &HTTPTransport{
		client:    client,
		baseURL:   baseURL,
		token:     token,
		userAgent: "HeyBuddy-Client/1.0",
		log:       log,
	}
}

func (t *HTTPTransport) Send(ctx context.Context, op outbox.Operation, table string, data json.RawMessage) error {
	var (
		method string
		path   string
		body   io.Reader
	)

	recordID, err := recordIDOf(data)
	if err != nil {
		return &TransmissionError{Op: op, Table: table, Err: err}
	}

	switch op {
	case outbox.OpCreate:
		method = http.MethodPost
		path = "/api/v1/" + table
		body = bytes.NewReader(data)
	case outbox.OpUpdate:
		method = http.MethodPut
		path = "/api/v1/" + table + "/" + url.PathEscape(recordID)
		body = bytes.NewReader(data)
	case outbox.OpDelete:
		method = http.MethodDelete
		path = "/api/v1/" + table + "/" + url.PathEscape(recordID)
	default:
		return &TransmissionError{Op: op, Table: table, Err: fmt.Errorf("unknown operation")}
	}

	resp, err := t.doRequest(ctx, method, path, body)
	if err != nil {
		return &TransmissionError{Op: op, Table: table, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return &TransmissionError{Op: op, Table: table,
			Err: fmt.Errorf("server returned status %d", resp.StatusCode)}
	}

	return nil
}

func (t *HTTPTransport) Pull(ctx context.Context, table, ownerID string) ([]store.Record, error) {
	path := "/api/v1/" + table
	if ownerID != "" {
		path += "?owner_id=" + url.QueryEscape(ownerID)
	}

	resp, err := t.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("pull %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("pull %s: server returned status %d", table, resp.StatusCode)
	}

	var result struct {
		Records []store.Record `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("pull %s: decode response: %w", table, err)
	}

	return result.Records, nil
}

func (t *HTTPTransport) Ping(ctx context.Context) error {
	resp, err := t.doRequest(ctx, http.MethodGet, "/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

func (t *HTTPTransport) doRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", t.userAgent)
	if t.token != nil {
		if tok := t.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	if t.log != nil {
		t.log.Debug("sending request", "method", method, "url", req.URL.String())
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

func recordIDOf(data json.RawMessage) (string, error) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("payload without id: %w", err)
	}
	if payload.ID == "" {
		return "", fmt.Errorf("payload without id")
	}
	return payload.ID, nil
}
