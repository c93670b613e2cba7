package evaluator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
	"unicode/utf8"

	"ppoeval/internal/domain"
)

// RateLimitError indicates a model provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

// StatusError converts a non-200 provider response into a domain error.
// 429 becomes a *RateLimitError; everything else wraps ErrUpstreamService.
func StatusError(provider string, status int, body []byte, retryAfter string) error {
	baseErr := fmt.Errorf("%w: %s API error (status %d): %s", domain.ErrUpstreamService, provider, status, truncate(string(body), 500))
	if status == 429 {
		return NewRateLimitError(provider, baseErr, ParseRetryAfterHeader(retryAfter))
	}
	return baseErr
}

// TransportError classifies a failed HTTP round trip. Deadlines and client
// timeouts map to ErrUpstreamTimeout, anything else to ErrUpstreamService.
func TransportError(provider string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: calling %s API: %v", domain.ErrUpstreamTimeout, provider, err)
	}
	return fmt.Errorf("%w: calling %s API: %v", domain.ErrUpstreamService, provider, err)
}

// EmptyResponseError reports a 200 response that carried no text.
func EmptyResponseError(provider, detail string) error {
	return fmt.Errorf("%w: empty response from %s API: %s", domain.ErrUpstreamService, provider, detail)
}

// MissingCredentialError reports a provider built without an API key.
func MissingCredentialError(provider string) error {
	return fmt.Errorf("%w: no API key configured for %s", domain.ErrMissingCredential, provider)
}

// truncate cuts s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
