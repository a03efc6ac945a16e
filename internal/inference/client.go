package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// DefaultTimeout bounds each remote call.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 16 << 20

// Options configures a Client.
type Options struct {
	Token      string        // Bearer token; empty means unauthenticated calls
	Timeout    time.Duration // Per-call timeout; DefaultTimeout if zero
	HTTPClient *http.Client  // Optional transport override, mainly for tests
}

// Client posts JSON payloads to an ordered list of equivalent endpoints.
// A Client is safe for concurrent use.
type Client struct {
	opts Options

	once sync.Once
	hc   *http.Client
}

// NewClient creates a Client. The underlying HTTP client is configured once,
// on first use.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{opts: opts}
}

// Authenticated reports whether calls carry a bearer token.
func (c *Client) Authenticated() bool {
	return c.opts.Token != ""
}

func (c *Client) httpClient() *http.Client {
	c.once.Do(func() {
		if c.opts.HTTPClient != nil {
			c.hc = c.opts.HTTPClient
			return
		}
		c.hc = &http.Client{Timeout: c.opts.Timeout}
		if !c.Authenticated() {
			log.Printf("[inference] No API token configured, using unauthenticated (rate-limited) access")
		}
	})
	return c.hc
}

// OutcomeKind classifies the result of trying an endpoint list
type OutcomeKind int

const (
	// OutcomeSuccess means an endpoint returned a usable payload
	OutcomeSuccess OutcomeKind = iota
	// OutcomeRetryable means the provider is warming up or rate limiting
	OutcomeRetryable
	// OutcomeFatal means an endpoint failed with a non-recoverable error
	OutcomeFatal
	// OutcomeExhausted means every endpoint reported 410
	OutcomeExhausted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeFatal:
		return "fatal"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Outcome is the structured result of Call.
type Outcome struct {
	Kind        OutcomeKind
	Endpoint    string // endpoint that produced the outcome
	Status      int
	Body        []byte // set on success
	RateLimited bool
	RetryAfter  time.Duration
	Message     string
	Cause       error
}

// Err converts a non-success outcome into the matching error type.
// It returns nil for OutcomeSuccess.
func (o Outcome) Err() error {
	switch o.Kind {
	case OutcomeSuccess:
		return nil
	case OutcomeRetryable:
		return &RetryableError{
			Endpoint:    o.Endpoint,
			Status:      o.Status,
			RateLimited: o.RateLimited,
			RetryAfter:  o.RetryAfter,
			Message:     o.Message,
		}
	case OutcomeFatal:
		return &FatalError{
			Endpoint: o.Endpoint,
			Status:   o.Status,
			Message:  o.Message,
			Cause:    o.Cause,
		}
	default:
		return ErrAllEndpointsUnavailable
	}
}

// Call posts payload to each endpoint in order until one of them settles the call.
//
// 410 moves on to the next endpoint. 503 and 429 stop immediately with a
// retryable outcome. Any other failure moves on, unless it happened on the
// last endpoint, in which case the outcome is fatal. The outcome is exhausted
// only when every endpoint answered 410; if an earlier endpoint failed some
// other way, that failure is reported as fatal.
func (c *Client) Call(ctx context.Context, endpoints []string, payload any) Outcome {
	body, err := json.Marshal(payload)
	if err != nil {
		return Outcome{Kind: OutcomeFatal, Message: "failed to encode request", Cause: err}
	}

	var failure *Outcome
	for i, endpoint := range endpoints {
		last := i == len(endpoints)-1

		status, header, respBody, err := c.post(ctx, endpoint, body)
		if err != nil {
			if ctx.Err() != nil || last {
				return Outcome{Kind: OutcomeFatal, Endpoint: endpoint, Message: "HTTP request failed", Cause: err}
			}
			log.Printf("[inference] %s failed: %v, trying next endpoint", endpoint, err)
			failure = &Outcome{Kind: OutcomeFatal, Endpoint: endpoint, Message: "HTTP request failed", Cause: err}
			continue
		}

		// Some providers answer 200 with an error object instead of a status code.
		perr, isErrorObject := decodeProviderError(respBody)
		if isErrorObject && status >= 200 && status < 300 {
			if perr.EstimatedTime > 0 {
				status = http.StatusServiceUnavailable
			} else {
				status = http.StatusInternalServerError
			}
		}

		switch {
		case status >= 200 && status < 300:
			return Outcome{Kind: OutcomeSuccess, Endpoint: endpoint, Status: status, Body: respBody}

		case status == http.StatusGone:
			log.Printf("[inference] %s is no longer served (410), trying next endpoint", endpoint)
			continue

		case status == http.StatusServiceUnavailable:
			retryAfter := perr.estimatedDuration()
			if retryAfter == 0 {
				retryAfter = parseRetryAfter(header.Get("Retry-After"))
			}
			return Outcome{
				Kind:       OutcomeRetryable,
				Endpoint:   endpoint,
				Status:     status,
				RetryAfter: retryAfter,
				Message:    perr.Message,
			}

		case status == http.StatusTooManyRequests:
			return Outcome{
				Kind:        OutcomeRetryable,
				Endpoint:    endpoint,
				Status:      status,
				RateLimited: true,
				RetryAfter:  parseRetryAfter(header.Get("Retry-After")),
				Message:     perr.Message,
			}

		default:
			if last {
				return Outcome{Kind: OutcomeFatal, Endpoint: endpoint, Status: status, Message: perr.Message}
			}
			log.Printf("[inference] %s returned status %d, trying next endpoint", endpoint, status)
			failure = &Outcome{Kind: OutcomeFatal, Endpoint: endpoint, Status: status, Message: perr.Message}
		}
	}

	if failure != nil {
		return *failure
	}
	return Outcome{Kind: OutcomeExhausted}
}

// post performs a single bounded request.
func (c *Client) post(ctx context.Context, endpoint string, body []byte) (int, http.Header, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, resp.Header, respBody, nil
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
