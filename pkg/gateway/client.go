package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// DefaultBaseURL is the production FCM host.
const DefaultBaseURL = "https://fcm.googleapis.com"

const sendPath = "/v1/projects/%s/messages:send"

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the gateway host, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithRequestTimeout bounds each individual send request.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.requestTimeout = timeout
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// Client sends batches of FCM v1 messages.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	requestTimeout time.Duration
	log            *slog.Logger
}

// New creates a Client with a 30 second per-request timeout by default.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:     &http.Client{},
		baseURL:        DefaultBaseURL,
		requestTimeout: 30 * time.Second,
		log:            slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send dispatches all messages concurrently and blocks until every request
// has completed. The returned slice has exactly one reply per message, in
// message order.
func (c *Client) Send(ctx context.Context, projectID, accessToken string, messages []map[string]any) []Reply {
	replies := make([]Reply, len(messages))
	if len(messages) == 0 {
		return replies
	}

	endpoint := c.baseURL + fmt.Sprintf(sendPath, projectID)

	var wg sync.WaitGroup
	for i, message := range messages {
		wg.Add(1)
		go func(i int, message map[string]any) {
			defer wg.Done()
			replies[i] = c.post(ctx, endpoint, accessToken, i, message)
		}(i, message)
	}
	wg.Wait()

	return replies
}

func (c *Client) post(ctx context.Context, endpoint, accessToken string, index int, message map[string]any) Reply {
	reply := Reply{Index: index}

	body, err := json.Marshal(map[string]any{"message": message})
	if err != nil {
		c.log.WarnContext(ctx, "message not serializable",
			slog.Int("index", index), slog.String("error", err.Error()))
		return reply
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return reply
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json; UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.DebugContext(ctx, "send request failed",
			slog.Int("index", index), slog.String("error", err.Error()))
		return reply
	}
	defer func() { _ = resp.Body.Close() }()

	reply.Received = true
	reply.StatusCode = resp.StatusCode
	if date, err := http.ParseTime(resp.Header.Get("Date")); err == nil {
		reply.Date = date
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return reply
	}

	if reply.Success() {
		var envelope struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &envelope); err == nil {
			reply.Name = envelope.Name
		}
		return reply
	}

	var envelope struct {
		Error *ErrorDetail `json:"error"`
	}
	// A non-JSON error body leaves the detail nil rather than inventing one.
	if err := json.Unmarshal(raw, &envelope); err == nil {
		reply.Error = envelope.Error
	}
	return reply
}
