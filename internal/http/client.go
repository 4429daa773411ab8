// Package http implements the signed HTTP transport for the ledger API.
//
// It is the single choke point for every network call: it signs requests,
// sends them, and translates HTTP status codes and transport faults into the
// library's error taxonomy. It performs no retries unless the caller opts in
// through the retry options.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fennelpay/ledger-go/internal/auth"
	"github.com/fennelpay/ledger-go/internal/constants"
	"github.com/fennelpay/ledger-go/pkg/ledger"
)

// Request represents an API request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

// Response represents an API response with a fully read body.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// Client issues signed requests against one API base URL.
type Client struct {
	baseURL      string
	signer       *auth.Signer
	client       *retryablehttp.Client
	logger       ledger.Logger
	debug        bool
	userAgent    string
	interceptors *ledger.InterceptorChain
	now          func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for transport-level logs.
func WithLogger(logger ledger.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables verbose request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.client.HTTPClient.Timeout = timeout
	}
}

// WithRetryConfig enables caller-opted retries for transient failures.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.client.RetryMax = retryMax
		c.client.RetryWaitMin = waitMin
		c.client.RetryWaitMax = waitMax
	}
}

// WithInterceptors sets the interceptor chain run around every request.
func WithInterceptors(chain *ledger.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// withClock overrides the signing clock. Test hook.
func withClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

const defaultUserAgent = "ledger-go"

// NewClient creates a transport client for the given base URL and signer.
func NewClient(baseURL string, signer *auth.Signer, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0 // retry policy belongs to the caller
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	// Hand back the final response even when the retry policy gave up on it,
	// so status codes translate into API errors instead of transport errors.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:   baseURL,
		signer:    signer,
		client:    retryClient,
		userAgent: defaultUserAgent,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// NewClientForCredential resolves the base URL and signer from a credential
// and applies the process-wide settings.
func NewClientForCredential(credential *ledger.Credential, settings *ledger.Settings) (*Client, error) {
	baseURL, err := credential.BaseURL()
	if err != nil {
		return nil, &ledger.ConfigError{Reason: "environment", Err: err}
	}

	signer, err := auth.NewSigner(credential.AccessID, credential.PrivateKey)
	if err != nil {
		return nil, &ledger.ConfigError{Reason: "private key", Err: err}
	}

	return NewClient(baseURL, signer, optionsFromSettings(settings)...), nil
}

// optionsFromSettings maps the process-wide settings onto client options.
func optionsFromSettings(settings *ledger.Settings) []Option {
	if settings == nil {
		return nil
	}

	var opts []Option

	if settings.Logger != nil {
		opts = append(opts, WithLogger(settings.Logger))
	}

	if settings.Debug {
		opts = append(opts, WithDebug(true))
	}

	if settings.UserAgent != "" {
		opts = append(opts, WithUserAgent(settings.UserAgent))
	}

	if settings.Timeout > 0 {
		opts = append(opts, WithTimeout(settings.Timeout))
	}

	if settings.RetryMax > 0 {
		waitMin := constants.DefaultRetryWaitMin
		waitMax := constants.DefaultRetryWaitMax

		if settings.RetryWaitMin > 0 {
			waitMin = settings.RetryWaitMin
		}

		if settings.RetryWaitMax > 0 {
			waitMax = settings.RetryWaitMax
		}

		opts = append(opts, WithRetryConfig(settings.RetryMax, waitMin, waitMax))
	}

	if settings.Interceptors != nil {
		opts = append(opts, WithInterceptors(settings.Interceptors))
	}

	return opts
}

// Do signs and sends one request, translating failures into the error
// taxonomy. A transport fault is a *ledger.NetworkError; a non-2xx status is
// a *ledger.ErrorResponse.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	bodyBytes, err := encodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	fullPath := req.Path
	if len(req.Query) > 0 {
		fullPath += "?" + req.Query.Encode()
	}

	interceptReq := &ledger.Request{
		Method:  req.Method,
		Path:    fullPath,
		Headers: make(nethttp.Header),
		Body:    bodyBytes,
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, interceptReq)
	if err != nil {
		return nil, err
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, c.baseURL+fullPath, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if len(bodyBytes) > 0 {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for key, values := range interceptReq.Headers {
		for _, value := range values {
			httpReq.Header.Set(key, value)
		}
	}

	for key, value := range c.signer.SignRequest(req.Method, fullPath, bodyBytes, c.now()) {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("sending request", map[string]interface{}{
			"method": req.Method,
			"path":   fullPath,
		})
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		netErr := &ledger.NetworkError{Err: err}
		_ = c.interceptors.ExecuteResponseInterceptors(ctx, interceptReq, &ledger.Response{Error: netErr})

		return nil, netErr
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ledger.NetworkError{Err: err}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("received response", map[string]interface{}{
			"method":      req.Method,
			"path":        fullPath,
			"status_code": httpResp.StatusCode,
		})
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	var apiErr error
	if httpResp.StatusCode >= 400 {
		apiErr = translateError(httpResp.StatusCode, respBody)
	}

	err = c.interceptors.ExecuteResponseInterceptors(ctx, interceptReq, &ledger.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
		Error:      apiErr,
	})
	if err != nil {
		return nil, err
	}

	if apiErr != nil {
		if c.logger != nil {
			c.logger.Error("request failed", map[string]interface{}{
				"method":      req.Method,
				"path":        fullPath,
				"status_code": resp.StatusCode,
			})
		}

		return nil, apiErr
	}

	return resp, nil
}

// encodeBody serializes a request body. []byte and json.RawMessage pass
// through untouched so the rest layer can pre-encode envelopes.
func encodeBody(body interface{}) ([]byte, error) {
	switch value := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return value, nil
	case json.RawMessage:
		return value, nil
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}

		return data, nil
	}
}

// translateError maps a non-2xx response onto the error taxonomy.
func translateError(statusCode int, body []byte) error {
	errResp, err := ledger.ParseErrorResponse(statusCode, body)
	if err != nil || len(errResp.Errors) == 0 {
		return &ledger.ErrorResponse{
			StatusCode: statusCode,
			Errors: []ledger.APIError{{
				Code:    nethttp.StatusText(statusCode),
				Message: string(body),
			}},
		}
	}

	return errResp
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path})
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPatch, Path: path, Body: body})
}
