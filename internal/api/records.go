package api

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

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/net/http/httpproxy"

	"github.com/thesavant42/recordsearch/internal/models"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "recordsearch"
	maxResponseBytes = 32 << 20 // 32 MiB
)

// RequestIDHeader carries the per-request id sent to the backend
const RequestIDHeader = "X-Request-ID"

var (
	// ErrBackendNotConfigured is returned when no backend base URL was provided
	ErrBackendNotConfigured = errors.New("backend server url is not defined in config")
	// ErrInvalidBackendURL is returned when the base URL is not an absolute http(s) URL
	ErrInvalidBackendURL = errors.New("backend server url is invalid")
	// ErrNotArray is returned when the body is valid JSON but not an array of objects
	ErrNotArray = errors.New("API response is not an array")
)

// StatusError reports a non-2xx response from the backend
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error status: %d", e.StatusCode)
}

// IsConfigError reports whether err comes from a missing or malformed base URL.
// Configuration errors never reach the network.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrBackendNotConfigured) || errors.Is(err, ErrInvalidBackendURL)
}

// ClientConfig is injected by the caller; the client never reads the environment
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	Proxy     httpproxy.Config
	UserAgent string
}

// RecordsClient handles requests to the records backend
type RecordsClient struct {
	httpClient *http.Client
	logger     *log.Logger
	base       *url.URL
	baseErr    error
	userAgent  string
}

// NewRecordsClient creates a new records backend client
func NewRecordsClient(cfg ClientConfig, logger *log.Logger) *RecordsClient {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	proxyFunc := cfg.Proxy.ProxyFunc()
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = func(req *http.Request) (*url.URL, error) {
		return proxyFunc(req.URL)
	}

	base, baseErr := parseBaseURL(cfg.BaseURL)

	return &RecordsClient{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger:    logger,
		base:      base,
		baseErr:   baseErr,
		userAgent: userAgent,
	}
}

// BaseURL returns the configured backend base URL, or "" when unset or invalid
func (c *RecordsClient) BaseURL() string {
	if c.base == nil {
		return ""
	}
	return c.base.String()
}

// parseBaseURL accepts an absolute http(s) URL, optionally with a path prefix
func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrBackendNotConfigured
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackendURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute http(s) url", ErrInvalidBackendURL, raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// RecordsURL builds the full request URL for a query
func (c *RecordsClient) RecordsURL(q models.Query) (string, error) {
	if c.baseErr != nil {
		return "", c.baseErr
	}
	return c.base.String() + q.Normalize().Path(), nil
}

// FetchRecords performs exactly one GET for the query and returns the records in received order.
// The upper bound is passed through unchanged; whether it is inclusive is up to the backend.
func (c *RecordsClient) FetchRecords(ctx context.Context, q models.Query) ([]models.Record, error) {
	reqURL, err := c.RecordsURL(q)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	c.logger.Debug("fetching records", "url", reqURL, "request_id", requestID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("backend returned error status", "status", resp.StatusCode, "request_id", requestID)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	records, err := decodeRecords(body)
	if err != nil {
		c.logger.Warn("could not decode records", "err", err, "request_id", requestID)
		return nil, err
	}

	c.logger.Info("records fetched", "count", len(records), "elapsed", time.Since(start).Round(time.Millisecond), "request_id", requestID)
	return records, nil
}

// decodeRecords parses a JSON array of records. The result is never nil on success.
func decodeRecords(body []byte) ([]models.Record, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrNotArray
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	// "null" decodes without error into a nil slice
	if raw == nil {
		return nil, ErrNotArray
	}

	records := make([]models.Record, 0, len(raw))
	for _, elem := range raw {
		var rec models.Record
		trimmed := strings.TrimSpace(string(elem))
		if !strings.HasPrefix(trimmed, "{") {
			return nil, ErrNotArray
		}
		if err := json.Unmarshal(elem, &rec); err != nil {
			return nil, fmt.Errorf("failed to parse record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
	return records, nil
}
