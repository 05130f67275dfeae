// Package chatbot is the HTTP client for the Gonzago question-answering
// service. The service answers GET /chatbot/{query} with a JSON object
// holding the echoed query and the response text.
package chatbot

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	DefaultTimeout = 2 * time.Minute

	maxBodyBytes = 1 << 20
)

// Answer is the body returned by the chatbot endpoint. Response is a pointer
// so that a missing field can be told apart from an empty answer.
type Answer struct {
	Query    string  `json:"query"`
	Response *string `json:"response"`
}

// Client issues chatbot queries. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = max(d, 0)
		c.http = &hc
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New returns a client for the service at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoint returns the request URL for query. The query is escaped as a
// single path segment.
func (c *Client) Endpoint(query string) string {
	return c.baseURL + "/chatbot/" + url.PathEscape(query)
}

// Ask sends query and returns the response text. Every failure is a
// *RequestError.
func (c *Client) Ask(ctx context.Context, query string) (string, error) {
	endpoint := c.Endpoint(query)
	payload, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}
	var answer Answer
	if err := json.Unmarshal(payload, &answer); err != nil {
		return "", &RequestError{Kind: KindDecode, Err: errors.Wrap(err, "chatbot returned non-json payload")}
	}
	if answer.Response == nil {
		return "", &RequestError{Kind: KindDecode, Err: errors.New("chatbot payload has no response field")}
	}
	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("response_chars", len(*answer.Response)).
		Msg("chatbot answered")
	return *answer.Response, nil
}

// Ping checks that the service root answers with a 2xx status.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, c.baseURL+"/")
	return err
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &RequestError{Kind: KindNetwork, Err: errors.Wrap(err, "build request")}
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{Kind: KindNetwork, Err: errors.Wrap(err, "chatbot request failed")}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &RequestError{Kind: KindNetwork, Err: errors.Wrap(err, "read chatbot response")}
	}
	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("chatbot request finished")
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{
			Kind:   KindStatus,
			Status: resp.StatusCode,
			Err:    errors.Errorf("unexpected status: %s", compactSingleLine(string(payload), 240)),
		}
	}
	return payload, nil
}

func compactSingleLine(text string, limit int) string {
	compact := strings.Join(strings.Fields(text), " ")
	if len(compact) <= limit {
		return compact
	}
	if limit <= 3 {
		return compact[:limit]
	}
	return compact[:limit-3] + "..."
}
