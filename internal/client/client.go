package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Do sends req and decodes a JSON answer into out when out is not nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	var body io.Reader
	if req.Body != nil {
		if raw, ok := req.Body.(json.RawMessage); ok {
			body = bytes.NewReader(raw)
		} else {
			data, err := json.Marshal(req.Body)
			if err != nil {
				return fmt.Errorf("client: encode body: %w", err)
			}
			body = bytes.NewReader(data)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var e struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.Unmarshal(data, &e)
		msg := e.Message
		if msg == "" {
			msg = e.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if w, ok := out.(io.Writer); ok {
		_, err := w.Write(data)
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

type LoginResponse struct {
	Token string `json:"token"`
}

type SyncResponse struct {
	Status    string `json:"status"`
	Updated   string `json:"updated"`
	Fetched   int    `json:"fetched"`
	TotalDays int    `json:"total_days"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Date    string `json:"date,omitempty"`
	Days    int    `json:"days,omitempty"`
}

func (c *Client) Login(ctx context.Context, password string) (string, error) {
	var out LoginResponse
	err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/v1/auth/login", Body: LoginPayload{Password: password}}, &out)
	return out.Token, err
}

func (c *Client) Sync(ctx context.Context) (*SyncResponse, error) {
	var out SyncResponse
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/v1/update"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export writes the raw snapshot document to w.
func (c *Client) Export(ctx context.Context, w io.Writer) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/export"}, w)
}

func (c *Client) Import(ctx context.Context, r io.Reader) (*StatusResponse, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("client: read import: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: import file is not valid JSON", domain.ErrInvalidInput)
	}

	var out StatusResponse
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/v1/import", Body: json.RawMessage(data)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Clear(ctx context.Context) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/v1/clear"}, nil)
}
