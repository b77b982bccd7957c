package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// APIError is a structured error response from the server.
type APIError struct {
	Status        int
	Code          string
	Message       string
	RetryAfterSec int64
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// Client is the HTTP backend for the public portfolio API.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithHTTPClient is for callers that need their own transport, such as
// tests against httptest servers.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) Login(ctx context.Context, email, password string) (Pair, error) {
	var res struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	err := c.postJSON(ctx, "/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "", &res)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (Pair, error) {
	var res struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	err := c.postJSON(ctx, "/v1/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	}, "", &res)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}, nil
}

func (c *Client) Logout(ctx context.Context, accessToken string) error {
	var res struct {
		OK bool `json:"ok"`
	}
	return c.postJSON(ctx, "/v1/auth/logout", struct{}{}, accessToken, &res)
}

// FetchCollection reads a collection snapshot as raw JSON.
func (c *Client) FetchCollection(ctx context.Context, name string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/"+name, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiErrorFrom(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s body: %w", name, err)
	}
	return body, nil
}

// WatchEvents subscribes to the SSE change stream of a collection. Each
// received value signals that the collection changed; the payload is not
// included, callers re-fetch.
func (c *Client) WatchEvents(ctx context.Context, name string) (<-chan struct{}, func(), error) {
	ctx, cancelCtx := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/collections/"+name+"/watch", nil)
	if err != nil {
		cancelCtx()
		return nil, nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		cancelCtx()
		return nil, nil, fmt.Errorf("open watch stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := apiErrorFrom(resp)
		resp.Body.Close()
		cancelCtx()
		return nil, nil, apiErr
	}

	events := make(chan struct{}, 1)

	go func() {
		defer close(events)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "event:") {
				continue
			}
			if strings.TrimSpace(strings.TrimPrefix(line, "event:")) != "change" {
				continue
			}
			select {
			case events <- struct{}{}:
			default:
				// An undelivered event already forces a re-fetch.
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			cancelCtx()
		})
	}

	return events, cancel, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, accessToken string, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiErrorFrom(resp)
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

func apiErrorFrom(resp *http.Response) *APIError {
	apiErr := &APIError{
		Status:  resp.StatusCode,
		Code:    "UNKNOWN",
		Message: resp.Status,
	}

	var payload struct {
		Code          string `json:"code"`
		Message       string `json:"message"`
		RetryAfterSec int64  `json:"retry_after_sec"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Code != "" {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
		apiErr.RetryAfterSec = payload.RetryAfterSec
	}

	return apiErr
}
