// Package elevenlabs implements voice listing and speech synthesis against
// the ElevenLabs HTTP API. Synthesized speech is streamed straight into an
// artifact store.
package elevenlabs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/koscakluka/ema-chat/core/audio"
	"github.com/koscakluka/ema-chat/core/texttospeech"
)

const (
	DefaultBaseURL = "https://api.elevenlabs.io"
	DefaultModelID = "eleven_multilingual_v1"

	DefaultSynthesisTimeout = 120 * time.Second
)

type Client struct {
	apiKey     string
	baseURL    string
	modelID    string
	timeout    time.Duration
	httpClient *http.Client
	store      *audio.Store
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithModelID(modelID string) ClientOption {
	return func(c *Client) {
		if modelID != "" {
			c.modelID = modelID
		}
	}
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds a whole request including the body download. Zero
// disables the bound.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

// NewClient creates a client writing synthesized speech into store. A nil
// store writes into the system temp directory.
func NewClient(apiKey string, store *audio.Store, opts ...ClientOption) *Client {
	if store == nil {
		store = audio.NewOSStore("")
	}

	client := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		modelID:    DefaultModelID,
		timeout:    DefaultSynthesisTimeout,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		store:      store,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) ModelID() string { return c.modelID }

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) newRequest(ctx context.Context, method, path, accept string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", texttospeech.ErrTransport, err)
	}
	req.Header.Set("accept", accept)
	req.Header.Set("xi-api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", texttospeech.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d: %s", texttospeech.ErrTransport, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return resp, nil
}
