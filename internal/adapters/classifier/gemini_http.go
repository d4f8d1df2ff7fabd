package classifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	maxAttempts     = 3
	maxErrorBody    = 8 << 10
	defaultBackoff  = 250 * time.Millisecond
	defaultMaxDelay = 20 * time.Second
)

// httpStatusError is a non-2xx reply from the Generative Language API.
// Status and Message come from the {"error": {...}} envelope when the body
// carries one. RetryAfter is the server's requested delay, zero if none.
type httpStatusError struct {
	Code       int
	Status     string
	Message    string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("gemini: %d %s: %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini: %d: %s", e.Code, e.Message)
}

// Retryable reports whether the API asked to try again later.
func (e *httpStatusError) Retryable() bool {
	switch e.Status {
	case "RESOURCE_EXHAUSTED", "UNAVAILABLE", "INTERNAL", "DEADLINE_EXCEEDED":
		return true
	}
	switch e.Code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func parseAPIError(resp *http.Response) *httpStatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	he := &httpStatusError{Code: resp.StatusCode}

	if gjson.ValidBytes(body) {
		e := gjson.GetBytes(body, "error")
		he.Status = e.Get("status").String()
		he.Message = e.Get("message").String()
		// google.rpc.RetryInfo detail, e.g. "retryDelay": "17s"
		for _, d := range e.Get("details.#.retryDelay").Array() {
			if v, err := time.ParseDuration(d.String()); err == nil && v > 0 {
				he.RetryAfter = v
				break
			}
		}
	}
	if he.Message == "" {
		he.Message = strings.TrimSpace(string(body))
	}
	if he.Message == "" {
		he.Message = http.StatusText(resp.StatusCode)
	}
	if v, ok := parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()); ok {
		he.RetryAfter = v
	}

	return he
}

// parseRetryAfter reads a Retry-After header in either delta-seconds or
// HTTP-date form.
func parseRetryAfter(h string, now time.Time) (time.Duration, bool) {
	h = strings.TrimSpace(h)
	if h == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(h); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(h); err == nil {
		if d := at.Sub(now); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

func (c *GeminiClient) newRequest(ctx context.Context, endpoint string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// post sends body to endpoint, retrying network failures and the API's
// transient statuses. The wait between attempts is the larger of the
// exponential backoff and the server's requested delay; a requested delay
// beyond maxDelay ends the retries.
func (c *GeminiClient) post(ctx context.Context, endpoint string, body []byte) (*http.Response, error) {
	backoff := c.backoff
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := c.newRequest(ctx, endpoint, body)
		if err != nil {
			return nil, err
		}

		resp, err := c.session.Do(req)
		wait := backoff
		switch {
		case err != nil:
			lastErr = err
			var netErr net.Error
			if !errors.As(err, &netErr) {
				return nil, err
			}
		case resp.StatusCode >= 400:
			he := parseAPIError(resp)
			resp.Body.Close()
			lastErr = he
			if !he.Retryable() || he.RetryAfter > c.maxDelay {
				return nil, he
			}
			wait = max(wait, he.RetryAfter)
		default:
			return resp, nil
		}

		if attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return nil, lastErr
}
