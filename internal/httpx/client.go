package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mehmetcc/moviedesk/internal/config"
	"github.com/mehmetcc/moviedesk/internal/token"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// TokenSource yields the current credential. It is read on every request.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Request is the optional part of a call. A nil *Request is a plain GET.
type Request struct {
	Method string
	Header http.Header
	// Body is sent as JSON. json.RawMessage, []byte and io.Reader are sent as is.
	Body any
}

type Client interface {
	// Fetch performs one call and returns the response JSON, or nil for an
	// empty success body. Non-2xx responses fail with *APIError.
	Fetch(ctx context.Context, path string, req *Request) (json.RawMessage, error)
	// FetchInto is Fetch followed by decoding into out. A null or empty body
	// leaves out untouched.
	FetchInto(ctx context.Context, path string, req *Request, out any) error
}

type client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
}

func NewClient(cfg *config.APIConfig, tokens TokenSource, logger *zap.Logger) Client {
	if tokens == nil {
		tokens = TokenFunc(func() string { return "" })
	}
	return &client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		tokens: tokens,
		logger: logger,
	}
}

func (c *client) Fetch(ctx context.Context, path string, req *Request) (json.RawMessage, error) {
	if req == nil {
		req = &Request{}
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	for k, vs := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if auth := token.Header(c.tokens.Token()); auth != "" {
		httpReq.Header.Set("Authorization", auth)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("failed to read response body", zap.String("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	c.logger.Debug("request completed",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(text)}
	}

	trimmed := bytes.TrimSpace(text)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: %s %s", ErrDecode, method, path)
	}
	return json.RawMessage(trimmed), nil
}

func (c *client) FetchInto(ctx context.Context, path string, req *Request, out any) error {
	raw, err := c.Fetch(ctx, path, req)
	if err != nil {
		return err
	}
	if isNull(raw) || out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
