// Package backend is the typed JSON-over-HTTP client for the remote
// catalog/booking/payment platform. Every call carries the tenant header and,
// once a session exists, the bearer token, both snapshotted at call time.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alsafar-travels/umrahdesk/internal/errs"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Headers are the outbound auth/tenant headers for one call.
type Headers struct {
	TenantID string
	Token    string
}

// HeaderSource supplies a snapshot of the current headers. A logout that
// races an in-flight call must not alter headers already taken.
type HeaderSource interface {
	Headers() Headers
}

type Client struct {
	origin  string
	http    *http.Client
	headers HeaderSource
	logger  *zap.Logger
}

func NewClient(origin string, timeout time.Duration, headers HeaderSource, logger *zap.Logger) *Client {
	return &Client{
		origin:  origin,
		http:    &http.Client{Timeout: timeout},
		headers: headers,
		logger:  logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.origin+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	hdrs := c.headers.Headers()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Tenant-ID", hdrs.TenantID)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if hdrs.Token != "" {
		req.Header.Set("Authorization", "Bearer "+hdrs.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %s %s: %v", errs.ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", errs.ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodDelete, path, body, out)
}
