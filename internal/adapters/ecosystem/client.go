// Package ecosystem is the REST client for the test-execution ecosystem API.
package ecosystem

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
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"

	domainauth "github.com/target/runconsole/internal/domain/auth"
	apperrors "github.com/target/runconsole/internal/errors"
	"github.com/target/runconsole/internal/observability/metrics"
	"github.com/target/runconsole/internal/observability/statsd"
	"github.com/target/runconsole/internal/ports"
)

const (
	// maxResponseBytes bounds any response body read from the ecosystem.
	maxResponseBytes = 10 << 20
	bodyExcerptBytes = 512

	headerAPIVersion = "ClientApiVersion"
)

var _ ports.EcosystemClient = (*Client)(nil)

// Options configures a Client.
type Options struct {
	BaseURL      string
	APIVersion   string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// ServiceToken is used when the request context carries no user token.
	ServiceToken string

	Logger  *slog.Logger
	Metrics statsd.Sink
	// Transport overrides the base round tripper, mainly for tests.
	Transport http.RoundTripper
}

// Client talks to the ecosystem API. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	apiVersion string
	http       *retryablehttp.Client
	logger     *slog.Logger
	metrics    statsd.Sink
}

// New constructs a Client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("ecosystem base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse ecosystem base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("ecosystem base URL must be http or https, got %q", opts.BaseURL)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "ecosystem_client")

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{
		Timeout:   opts.Timeout,
		Transport: &bearerTransport{base: transport, fallback: opts.ServiceToken},
	}
	rc.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		rc.RetryWaitMax = opts.RetryWaitMax
	}
	rc.Logger = logger
	rc.CheckRetry = checkRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL:    base,
		apiVersion: opts.APIVersion,
		http:       rc,
		logger:     logger,
		metrics:    opts.Metrics,
	}, nil
}

// bearerTransport authenticates each request with the caller's upstream token,
// falling back to the configured service token.
type bearerTransport struct {
	base     http.RoundTripper
	fallback string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, ok := domainauth.UpstreamTokenFromContext(req.Context())
	if !ok {
		token = t.fallback
	}
	if token == "" {
		return t.base.RoundTrip(req)
	}
	out := req.Clone(req.Context())
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(out)
	return t.base.RoundTrip(out)
}

type noRetryKey struct{}

// checkRetry applies the default policy except for requests marked as
// non-idempotent, which are attempted once.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if noRetry, _ := ctx.Value(noRetryKey{}).(bool); noRetry {
		return false, ctx.Err()
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// call describes one request to the ecosystem.
type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	accept string
}

// do executes c and returns the response body of a 2xx response.
func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	u := c.baseURL.JoinPath(cl.path)
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}

	var payload io.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request body")
		}
		payload = bytes.NewReader(raw)
	}
	if cl.method != http.MethodGet && cl.method != http.MethodDelete {
		ctx = context.WithValue(ctx, noRetryKey{}, true)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, cl.method, u.String(), payload)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build ecosystem request")
	}
	accept := cl.accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	req.Header.Set(headerAPIVersion, c.apiVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	metrics.EmitUpstreamRequest(c.metrics, metrics.UpstreamMetric{
		Operation: cl.op,
		Status:    status,
		Duration:  time.Since(start),
	})
	if err != nil {
		return nil, transportError(ctx, cl.op, err)
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeMalformedResponse, "%s: read response", cl.op)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upErr := newUpstreamError(cl.op, resp.StatusCode, body)
		c.logger.WarnContext(ctx, "ecosystem request rejected",
			"operation", cl.op,
			"status", resp.StatusCode,
			"message", upErr.Message,
		)
		return nil, upErr.appError()
	}
	return body, nil
}

// doJSON executes c and decodes a JSON response into out.
func (c *Client) doJSON(ctx context.Context, cl call, out any) error {
	body, err := c.do(ctx, cl)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeMalformedResponse, "%s: decode response", cl.op)
	}
	return nil
}

func readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxResponseBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxResponseBytes)
	}
	return body, nil
}

func transportError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return apperrors.Wrapf(err, apperrors.ErrCodeCanceled, "%s: request canceled", op)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.Wrapf(err, apperrors.ErrCodeTimeout, "%s: request timed out", op)
	default:
		return apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "%s: ecosystem unreachable", op)
	}
}
