// Package msr is a client for the MotorsportReg REST API.
package msr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tartampluch/hpde-analytics/internal/config"
	"go.uber.org/zap"
)

// Client performs authenticated requests. The HTTP client is expected to
// sign requests (see auth.Flow).
type Client struct {
	BaseURL        string
	OrganizationID string
	HTTP           *http.Client
	MaxRetries     int
	RetryDelay     time.Duration
}

// NewClient creates a client with the default retry policy.
func NewClient(httpClient *http.Client, baseURL, orgID string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.HTTPTimeout}
	}
	return &Client{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		OrganizationID: orgID,
		HTTP:           httpClient,
		MaxRetries:     config.DefaultMaxRetries,
		RetryDelay:     config.DefaultRetryDelay,
	}
}

// Get fetches endpoint and returns the payload unwrapped from the
// {"response": ...} envelope. Server errors and transport failures are
// retried with a linearly growing delay; other statuses fail at once.
func (c *Client) Get(ctx context.Context, endpoint string, includeOrgHeader bool) (map[string]any, error) {
	if !strings.HasSuffix(endpoint, config.SuffixJSON) {
		endpoint += config.SuffixJSON
	}
	target := c.BaseURL + endpoint

	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := zap.L().With(
		zap.String(config.LogKeyComponent, config.CompClient),
		zap.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)

	headers := http.Header{}
	headers.Set(config.HeaderAccept, config.MimeJSON)
	headers.Set(config.HeaderUserAgent, config.UserAgent)
	if includeOrgHeader && c.OrganizationID != "" {
		headers.Set(config.HeaderOrgID, c.OrganizationID)
	}

	attempt := 0
	op := func() (map[string]any, error) {
		attempt++
		log.Debug(config.MsgRequest, zap.Int(config.LogKeyAttempt, attempt))

		data, err := c.do(ctx, target, endpoint, headers)
		if err == nil {
			return data, nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return nil, backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{step: c.RetryDelay}, uint64(max(c.MaxRetries, 0))),
		ctx,
	)

	return backoff.RetryNotifyWithData(op, policy, func(err error, delay time.Duration) {
		log.Warn(config.MsgRetry,
			zap.Int(config.LogKeyAttempt, attempt),
			zap.Duration(config.LogKeyDelay, delay),
			zap.Error(err),
		)
	})
}

// do performs a single request.
func (c *Client) do(ctx context.Context, target, endpoint string, headers http.Header) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRequestFailed, err)
	}
	req.Header = headers.Clone()

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRequestFailed, err)
	}

	body := &limitedReadCloser{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}
	defer func() { _ = body.Close() }()

	content, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRequestFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		zap.L().Warn(config.ErrStatus,
			zap.String(config.LogKeyComponent, config.CompClient),
			zap.String(config.LogKeyEndpoint, endpoint),
			zap.Int(config.LogKeyStatus, resp.StatusCode),
		)
		return nil, newAPIError(resp.StatusCode, endpoint, string(content))
	}

	return decodeEnvelope(content)
}

// decodeEnvelope parses a JSON object, unwrapping {"response": {...}}.
func decodeEnvelope(content []byte) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%s: %w", config.ErrDecodeResponse, err))
	}
	if inner, ok := data[config.EnvelopeKey].(map[string]any); ok {
		return inner, nil
	}
	return data, nil
}

// linearBackOff waits step, 2*step, 3*step, ... between attempts.
type linearBackOff struct {
	step time.Duration
	n    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return b.step * time.Duration(b.n)
}

func (b *linearBackOff) Reset() {
	b.n = 0
}

// limitedReadCloser wraps an io.Reader (Limited) and the original io.Closer.
// This ensures we can close the network connection properly while limiting the read size.
type limitedReadCloser struct {
	io.Reader
	io.Closer
}

func (l *limitedReadCloser) Read(p []byte) (n int, err error) {
	return l.Reader.Read(p)
}

func (l *limitedReadCloser) Close() error {
	return l.Closer.Close()
}
