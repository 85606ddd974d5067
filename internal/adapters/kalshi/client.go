package kalshi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.elections.kalshi.com"

	// Minimum gap between consecutive venue calls. The venue's abuse
	// controls trip on tight polling loops; a cooperative pause is enough.
	minCallGap = 200 * time.Millisecond

	requestTimeout = 10 * time.Second
)

// Client issues HTTP calls against the trading venue, signing requests when a
// Signer is configured. It never retries and never rate-adapts; throttling is
// a fixed minimum delay between calls.
type Client struct {
	http    *http.Client
	baseURL string
	signer  *Signer
	limiter *rate.Limiter
}

// NewClient creates a Client for the given base URL. An empty baseURL uses
// production. signer may be nil for read-only use of the public social API.
func NewClient(baseURL string, signer *Signer) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		signer:  signer,
		limiter: rate.NewLimiter(rate.Every(minCallGap), 1),
	}
}

// get issues a GET and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// post issues a JSON POST and decodes the response into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// do performs one throttled, optionally signed request.
//
// On 2xx the body is decoded into out: JSON when the content-type says so
// (a failure there is a *DecodeError), otherwise the raw text is assigned
// when out is a *string. On non-2xx it returns a *HTTPError with the body.
// Network failures come back as *TransportError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.signer != nil {
		headers, err := c.signer.Headers(method, path)
		if err != nil {
			return err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(respBody),
		}
	}

	if out == nil {
		return nil
	}

	if isJSON(resp.Header.Get("Content-Type")) {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &DecodeError{Err: err}
		}
		return nil
	}

	// 2xx with a non-JSON body is a successful text response, not a decode
	// failure — but only when the caller asked for text.
	if s, ok := out.(*string); ok {
		*s = string(respBody)
		return nil
	}
	return &DecodeError{Err: fmt.Errorf("unexpected content-type %q", resp.Header.Get("Content-Type"))}
}

func isJSON(contentType string) bool {
	return strings.Contains(contentType, "application/json")
}
