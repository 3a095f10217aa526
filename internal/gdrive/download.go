package gdrive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// DownloadFile streams a file's content to w and returns the number of
// bytes written. There is no retry: a partially consumed stream cannot be
// resent safely, so any failure aborts the transfer and surfaces as a
// final error naming the file.
func (c *Client) DownloadFile(ctx context.Context, fileID string, w io.Writer) (int64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("gdrive: downloading %s: waiting for rate limiter: %w", fileID, err)
	}

	resp, err := c.svc.Files.Get(fileID).
		SupportsAllDrives(true).
		Context(ctx).Download()
	if err != nil {
		return 0, fmt.Errorf("gdrive: downloading %s: %w", fileID, wrapAPIError("files.get media", err))
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("gdrive: downloading %s: streaming content: %w", fileID, err)
	}

	c.logger.Debug("download complete",
		slog.String("file_id", fileID),
		slog.Int64("bytes", n),
	)

	return n, nil
}

// ExportDoc renders a Workspace-native document (Doc, Sheet, Slides) into
// the requested format and returns the converted bytes. Defaults to plain
// text. Like downloads there is no retry; remote and local failures are
// both final and carry the file id and target format.
func (c *Client) ExportDoc(ctx context.Context, fileID, mimeType string) ([]byte, error) {
	if mimeType == "" {
		mimeType = ExportMimeText
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("gdrive: exporting %s as %s: waiting for rate limiter: %w", fileID, mimeType, err)
	}

	resp, err := c.svc.Files.Export(fileID, mimeType).
		Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("gdrive: exporting %s as %s: %w", fileID, mimeType, wrapAPIError("files.export", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gdrive: exporting %s as %s: reading converted content: %w", fileID, mimeType, err)
	}

	return data, nil
}
