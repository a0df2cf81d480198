// Package client talks to the cardbinder document store: one binder
// document per authenticated collector, merge-written.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cardbinder/cardbinder/pkg/domain"
)

// Client is the cardbinder API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetMe returns the authenticated collector's profile.
func (c *Client) GetMe(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/api/me", &u); err != nil {
		return nil, fmt.Errorf("client.GetMe: %w", err)
	}
	return &u, nil
}

// GetBinder fetches the collector's binder document. A 404 means no
// document exists yet; callers check with IsStatus(err, 404) and seed.
func (c *Client) GetBinder(ctx context.Context) (*domain.Document, error) {
	var doc domain.Document
	if err := c.get(ctx, "/api/binder", &doc); err != nil {
		return nil, fmt.Errorf("client.GetBinder: %w", err)
	}
	return &doc, nil
}

// PutBinder merge-writes the binder document. Fields absent from doc are
// preserved server-side.
func (c *Client) PutBinder(ctx context.Context, doc domain.Document) error {
	if err := c.doRequest(ctx, http.MethodPut, "/api/binder", doc, nil); err != nil {
		return fmt.Errorf("client.PutBinder: %w", err)
	}
	return nil
}

// ExchangeCode trades a one-time login code for a session token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	var result struct {
		Token string `json:"token"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/auth/cli-exchange", map[string]string{"code": code}, &result); err != nil {
		return "", fmt.Errorf("client.ExchangeCode: %w", err)
	}
	if result.Token == "" {
		return "", fmt.Errorf("client.ExchangeCode: empty token in response")
	}
	return result.Token, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
