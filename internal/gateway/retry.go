package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RetryPolicy retries rate-limited provider calls with exponential backoff.
// Every other failure stops immediately.
type RetryPolicy struct {
	Base       time.Duration
	MaxRetries int
	// OnRetry is called before each wait. Optional.
	OnRetry func(err error, wait time.Duration)
}

// DefaultRetryPolicy waits 1.5s then 3s before giving up.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Base: 1500 * time.Millisecond, MaxRetries: 2}
}

// Do runs fn until it succeeds, fails with a non rate-limit error, or the
// retry budget is spent. Attempts never overlap.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	operation := func() (string, error) {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		if !IsRateLimited(err) {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.Base
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = p.Base << max(p.MaxRetries, 0)

	opts := []backoff.RetryOption{
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(max(p.MaxRetries, 0) + 1)),
	}
	if p.OnRetry != nil {
		opts = append(opts, backoff.WithNotify(p.OnRetry))
	}

	return backoff.Retry(ctx, operation, opts...)
}

// IsRateLimited classifies quota and throttling failures from the gRPC and
// REST transports as well as wrapped provider messages.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(strings.ToLower(msg), "quota")
}
