package gdrive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// Upload tuning. Chunk-send backoff is bounded to [1s, 10s], and both the
// per-session attempts and whole-session restarts are capped so a dead
// session cannot retry forever.
const (
	uploadChunkSize    = 8 * 1024 * 1024
	uploadMinBackoff   = 1 * time.Second
	uploadMaxBackoff   = 10 * time.Second
	maxUploadAttempts  = 8
	maxSessionRestarts = 3
)

// UploadFile streams a local file into the given parent as a resumable
// chunked upload. Transient server errors retry the send with bounded
// backoff; a not-found response means the resumable session itself is
// gone, so the upload is abandoned and restarted from the beginning of the
// file with a fresh session. Any other failure is final and carries the
// name, path, and MIME type for diagnosis.
func (c *Client) UploadFile(ctx context.Context, parentID, path, name, mimeType string) (*File, error) {
	for restart := 0; ; restart++ {
		f, err := c.uploadOnce(ctx, parentID, path, name, mimeType)
		if err == nil {
			return f, nil
		}

		if errors.Is(err, ErrNotFound) && restart < maxSessionRestarts {
			c.logger.Warn("upload session lost, restarting from the beginning",
				slog.String("name", name),
				slog.Int("restart", restart+1),
			)

			continue
		}

		return nil, fmt.Errorf("gdrive: uploading %q from %s (%s): %w", name, path, mimeType, err)
	}
}

// uploadOnce runs one complete upload session. The SDK drives the
// chunk-by-chunk protocol for the resumable session; this loop is the
// session-level retry policy for transient server failures.
func (c *Client) uploadOnce(ctx context.Context, parentID, path, name, mimeType string) (*File, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening upload source: %w", err)
	}
	defer src.Close()

	meta := &drive.File{
		Name:    name,
		Parents: []string{parentID},
	}

	for attempt := 1; ; attempt++ {
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewinding upload source: %w", err)
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}

		resp, err := c.svc.Files.Create(meta).
			SupportsAllDrives(true).
			Fields(fileFields).
			Media(src, googleapi.ContentType(mimeType), googleapi.ChunkSize(uploadChunkSize)).
			Context(ctx).Do()
		if err == nil {
			f := fromFile(resp)

			c.logger.Debug("upload complete",
				slog.String("file_id", f.ID),
				slog.String("name", f.Name),
			)

			return &f, nil
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("upload canceled: %w", ctx.Err())
		}

		status := statusOf(err)
		if !isTransientUpload(status) || attempt >= maxUploadAttempts {
			return nil, wrapAPIError("files.create upload", err)
		}

		backoff := uploadBackoff(attempt)
		c.logger.Warn("transient upload failure, retrying chunk send",
			slog.String("name", name),
			slog.Int("status", status),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
		)

		if sleepErr := c.sleepFunc(ctx, backoff); sleepErr != nil {
			return nil, fmt.Errorf("upload canceled: %w", sleepErr)
		}
	}
}

// isTransientUpload reports whether a chunk send should be retried within
// the same session. Narrower than the general transient set: a 404 must
// bubble up so the whole session restarts, and a 429 is already handled by
// the media transport.
func isTransientUpload(code int) bool {
	switch code {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// uploadBackoff returns the exponential delay after the given 1-based
// attempt, clamped to [uploadMinBackoff, uploadMaxBackoff].
func uploadBackoff(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt-1)) * time.Second
	if d < uploadMinBackoff {
		d = uploadMinBackoff
	}

	if d > uploadMaxBackoff {
		d = uploadMaxBackoff
	}

	return d
}
