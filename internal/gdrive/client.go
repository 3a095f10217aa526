package gdrive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
)

// Retry and pagination defaults. Transient failures get up to five attempts
// with exponential backoff clamped to [2s, 5s] per attempt.
const (
	defaultMaxAttempts = 5
	defaultMinBackoff  = 2 * time.Second
	defaultMaxBackoff  = 5 * time.Second
	defaultPageLimit   = 250
	defaultSettleDelay = 5 * time.Second
)

// Rate limiting defaults. Drive allows roughly 10 queries per second per
// user; staying under that avoids burning retry budget on 429s.
const (
	defaultRatePerSecond = 8.0
	defaultRateBurst     = 10
)

// Options tunes a Client. The zero value selects the defaults above.
type Options struct {
	Logger        *slog.Logger
	MaxAttempts   int
	MinBackoff    time.Duration
	MaxBackoff    time.Duration
	RatePerSecond float64
	RateBurst     int
	// SettleDelay is the wait between listing a drive's contents and
	// deleting them, absorbing the Drive API's list-consistency lag.
	SettleDelay time.Duration
	// PageLimit bounds accumulated results for paged listings when the
	// caller does not set one per call.
	PageLimit int64
}

// Client wraps a *drive.Service with client-side rate limiting, retry on
// transient statuses, and error classification. Every method blocks until
// the API responds or retries exhaust. The only shared mutable state is the
// rate limiter, so a Client is safe for concurrent use.
type Client struct {
	svc         *drive.Service
	limiter     *rate.Limiter
	logger      *slog.Logger
	maxAttempts int
	minBackoff  time.Duration
	maxBackoff  time.Duration
	settleDelay time.Duration
	pageLimit   int64

	// sleepFunc is called to wait between retries and for the settle delay.
	// Defaults to timeSleep. Tests override this to avoid real delays.
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// New creates a Drive adapter client over an authenticated service handle.
// The service's lifecycle is owned by the caller.
func New(svc *drive.Service, opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}

	if opts.MinBackoff <= 0 {
		opts.MinBackoff = defaultMinBackoff
	}

	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}

	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = defaultRatePerSecond
	}

	if opts.RateBurst <= 0 {
		opts.RateBurst = defaultRateBurst
	}

	// Zero means unset; a negative value explicitly disables the wait.
	if opts.SettleDelay == 0 {
		opts.SettleDelay = defaultSettleDelay
	} else if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}

	if opts.PageLimit <= 0 {
		opts.PageLimit = defaultPageLimit
	}

	return &Client{
		svc:         svc,
		limiter:     rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.RateBurst),
		logger:      opts.Logger,
		maxAttempts: opts.MaxAttempts,
		minBackoff:  opts.MinBackoff,
		maxBackoff:  opts.MaxBackoff,
		settleDelay: opts.SettleDelay,
		pageLimit:   opts.PageLimit,
		sleepFunc:   timeSleep,
	}
}

// call invokes one Drive API operation with rate limiting and retry on
// transient statuses. fn performs the SDK call and captures its result via
// closure; it must be safe to invoke repeatedly. Retry state never outlives
// a single call.
func (c *Client) call(ctx context.Context, op string, fn func() error) error {
	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("gdrive: %s: waiting for rate limiter: %w", op, err)
		}

		err := fn()
		if err == nil {
			c.logger.Debug("api call succeeded",
				slog.String("op", op),
				slog.Int("attempt", attempt),
			)

			return nil
		}

		if ctx.Err() != nil {
			return fmt.Errorf("gdrive: %s canceled: %w", op, ctx.Err())
		}

		status := statusOf(err)
		if !isTransient(status) {
			return wrapAPIError(op, err)
		}

		if attempt >= c.maxAttempts {
			c.logger.Error("api call failed after retries",
				slog.String("op", op),
				slog.Int("status", status),
				slog.Int("attempts", attempt),
			)

			return &APIError{
				Op:         op,
				StatusCode: status,
				Body:       err.Error(),
				Err:        ErrRetriesExhausted,
				cause:      err,
			}
		}

		backoff := c.backoff(attempt)
		c.logger.Warn("transient api error, retrying",
			slog.String("op", op),
			slog.Int("status", status),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
		)

		if sleepErr := c.sleepFunc(ctx, backoff); sleepErr != nil {
			return fmt.Errorf("gdrive: %s canceled: %w", op, sleepErr)
		}
	}
}

// backoff returns the exponential delay after the given 1-based attempt,
// clamped to [minBackoff, maxBackoff].
func (c *Client) backoff(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt-1)) * time.Second
	if d < c.minBackoff {
		d = c.minBackoff
	}

	if d > c.maxBackoff {
		d = c.maxBackoff
	}

	return d
}

// timeSleep waits for the given duration or until the context is canceled.
// It is the default sleepFunc for Client.
func timeSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
