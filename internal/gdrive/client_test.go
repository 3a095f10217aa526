package gdrive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// sleepRecorder captures retry delays instead of sleeping, for fast tests.
type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)

	return nil
}

// newTestClient creates a Client pointed at the given httptest server with
// recorded (instant) sleeps and a rate limiter that never blocks.
func newTestClient(t *testing.T, url string, opts Options) (*Client, *sleepRecorder) {
	t.Helper()

	svc, err := drive.NewService(context.Background(),
		option.WithEndpoint(url),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if opts.RatePerSecond == 0 {
		opts.RatePerSecond = 1e6
		opts.RateBurst = 1e6
	}

	rec := &sleepRecorder{}
	c := New(svc, opts)
	c.sleepFunc = rec.sleep

	return c, rec
}

func TestCall_RetryBoundOnTransient(t *testing.T) {
	var requests atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"error":{"errors":[{"reason":"backendError"}],"code":503,"message":"try later"}}`)
	}))
	defer srv.Close()

	client, rec := newTestClient(t, srv.URL, Options{})

	_, err := client.GetFile(context.Background(), "f1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetriesExhausted)

	// Exactly five invocations, with a wait between each pair of attempts.
	assert.Equal(t, int32(5), requests.Load())
	require.Len(t, rec.delays, 4)

	for _, d := range rec.delays {
		assert.GreaterOrEqual(t, d, 2*time.Second)
		assert.LessOrEqual(t, d, 5*time.Second)
	}
}

func TestCall_NonTransientNoRetry(t *testing.T) {
	var requests atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"errors":[{"reason":"insufficientFilePermissions"}],"code":403}}`)
	}))
	defer srv.Close()

	client, rec := newTestClient(t, srv.URL, Options{})

	_, err := client.GetFile(context.Background(), "f1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, int32(1), requests.Load())
	assert.Empty(t, rec.delays)

	// The raw vendor error stays reachable for callers that need it.
	var gerr *googleapi.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, http.StatusForbidden, gerr.Code)
}

func TestCall_SucceedsAfterTransient(t *testing.T) {
	var requests atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":{"code":429,"message":"rate limit"}}`)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"f1","name":"report.txt"}`)
	}))
	defer srv.Close()

	client, rec := newTestClient(t, srv.URL, Options{})

	f, err := client.GetFile(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "f1", f.ID)
	assert.Equal(t, int32(2), requests.Load())
	require.Len(t, rec.delays, 1)
	assert.Equal(t, 2*time.Second, rec.delays[0])
}

func TestBackoff_ClampedToWindow(t *testing.T) {
	client, _ := newTestClient(t, "http://unused.invalid", Options{})

	want := []time.Duration{
		2 * time.Second, // 1s raised to the floor
		2 * time.Second,
		4 * time.Second,
		5 * time.Second, // 8s clamped to the cap
		5 * time.Second,
	}

	for attempt, expected := range want {
		assert.Equal(t, expected, client.backoff(attempt+1), "attempt %d", attempt+1)
	}
}

func TestTimeSleep_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := timeSleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
