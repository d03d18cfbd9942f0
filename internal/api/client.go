// Package api is the HTTP client for the task-queue backend. The backend owns
// all scheduling and persistence; this package only speaks its REST surface
// and normalizes failures into the console's error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// NewClient creates a client for the backend at baseURL. log may be nil.
func NewClient(baseURL string, log *slog.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errValidation("server", "missing backend URL")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errValidation("server", fmt.Sprintf("bad backend URL: %v", err))
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log,
	}, nil
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.http.Timeout = d
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// get issues a GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// send issues a mutating request with a JSON body (body may be nil) and
// decodes the response into out (out may be nil).
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errValidation("body", err.Error())
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return errValidation("request", err.Error())
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "url", u, "err", err)
		return &NetworkError{Op: method, URL: u, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("request", "method", method, "url", u,
		"status", resp.StatusCode, "dur", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{URL: u, Err: err}
	}
	return nil
}

// decodeAPIError extracts the server-supplied detail from a non-2xx response,
// falling back to the transport status text when no recognized field is
// present.
func decodeAPIError(resp *http.Response) error {
	detail := http.StatusText(resp.StatusCode)

	b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(bytes.TrimSpace(b)) > 0 {
		var payload struct {
			Message string `json:"message"`
			Err     string `json:"error"`
			Detail  string `json:"detail"`
		}
		if json.Unmarshal(b, &payload) == nil {
			switch {
			case strings.TrimSpace(payload.Message) != "":
				detail = strings.TrimSpace(payload.Message)
			case strings.TrimSpace(payload.Err) != "":
				detail = strings.TrimSpace(payload.Err)
			case strings.TrimSpace(payload.Detail) != "":
				detail = strings.TrimSpace(payload.Detail)
			}
		}
	}

	return &APIError{Status: resp.StatusCode, Detail: detail}
}
