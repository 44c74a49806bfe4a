package transmission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vadimtrunov/transmate/internal/core"
	"github.com/vadimtrunov/transmate/internal/httpclient"
)

const (
	sessionHeader    = "X-Transmission-Session-Id"
	methodSessionGet = "session-get"

	// maxErrorBody bounds how much of a non-2xx body is kept in errors.
	maxErrorBody = 4096
)

// Config configures a Client. Zero fields take the DefaultConfig values.
type Config struct {
	BaseURL  string
	Path     string
	Username string
	Password string
	Timeout  time.Duration
	// Proxy is an optional proxy URL for all daemon traffic.
	Proxy string
	// MaxSessionRetries caps how many times a call is re-issued after the
	// daemon rejects the session id with HTTP 409.
	MaxSessionRetries int
}

// DefaultConfig returns the daemon's stock endpoint settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:           "http://localhost:9091/",
		Path:              "/transmission/rpc",
		Timeout:           5 * time.Second,
		MaxSessionRetries: 3,
	}
}

// Client implements core.TorrentClient for the Transmission daemon.
//
// The session id is the only mutable state. It is written solely by the
// request pipeline; clients built from the same Config keep independent ids.
type Client struct {
	url    string
	cfg    Config
	http   *httpclient.Client
	logger *slog.Logger

	mu        sync.RWMutex
	sessionID string
}

var _ core.TorrentClient = (*Client)(nil)

// New creates a new Transmission client.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = withDefaults(cfg)

	endpoint, err := url.JoinPath(cfg.BaseURL, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("build rpc url: %w", err)
	}

	httpClient, err := httpclient.New(httpclient.Config{
		Timeout: cfg.Timeout,
		Proxy:   cfg.Proxy,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	return &Client{
		url:    endpoint,
		cfg:    cfg,
		http:   httpClient,
		logger: logger,
	}, nil
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Path == "" {
		cfg.Path = def.Path
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxSessionRetries <= 0 {
		cfg.MaxSessionRetries = def.MaxSessionRetries
	}
	return cfg
}

// Name returns "transmission".
func (c *Client) Name() string { return "transmission" }

// URL returns the RPC endpoint.
func (c *Client) URL() string { return c.url }

// SessionID returns the cached session id, empty before the first call.
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

func (c *Client) setSessionID(id string) {
	c.mu.Lock()
	c.sessionID = id
	c.mu.Unlock()
}

// Request sends one RPC call and returns the daemon's reply.
//
// A session id is fetched first if none is cached. A 409 reply stores the
// session id it carries and re-issues the same call, at most
// MaxSessionRetries times. When the reply's result is not "success" the
// reply is returned together with an *RPCError.
func (c *Client) Request(ctx context.Context, method string, args any) (*Response, error) {
	if method != methodSessionGet && c.SessionID() == "" {
		if _, err := c.GetSession(ctx); err != nil {
			return nil, err
		}
	}

	if args == nil {
		args = struct{}{}
	}
	body, err := json.Marshal(rpcRequest{Method: method, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", method, err)
	}

	logger := c.logger.With(slog.String("method", method), slog.String("request_id", uuid.NewString()))

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxSessionRetries; attempt++ {
		reply, err := c.send(ctx, method, body)
		if err == nil {
			if reply.Result != "success" {
				return reply, &RPCError{Method: method, Result: reply.Result}
			}
			return reply, nil
		}
		if !errors.Is(err, ErrSessionInvalidated) {
			return nil, err
		}
		lastErr = err
		logger.Debug("session id refreshed, retrying", slog.Int("attempt", attempt+1))
	}

	logger.Warn("session retries exhausted", slog.Int("retries", c.cfg.MaxSessionRetries))
	return nil, lastErr
}

// call issues an RPC call and decodes the reply arguments into out.
func (c *Client) call(ctx context.Context, method string, args, out any) error {
	reply, err := c.Request(ctx, method, args)
	if err != nil {
		return err
	}
	if out == nil || len(reply.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(reply.Arguments, out); err != nil {
		return fmt.Errorf("decode %s arguments: %w", method, err)
	}
	return nil
}

// send performs a single round trip.
func (c *Client) send(ctx context.Context, method string, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(sessionHeader, c.SessionID())
	if c.cfg.Username != "" || c.cfg.Password != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		_, _ = io.Copy(io.Discard, resp.Body)
		id := resp.Header.Get(sessionHeader)
		if id == "" {
			return nil, &TransportError{Method: method, StatusCode: resp.StatusCode, Err: errMissingSessionID}
		}
		c.setSessionID(id)
		return nil, &TransportError{Method: method, StatusCode: resp.StatusCode, Err: ErrSessionInvalidated}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &TransportError{
			Method:     method,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(errBody)),
		}
	}

	var reply Response
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, &TransportError{
			Method:     method,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return &reply, nil
}
