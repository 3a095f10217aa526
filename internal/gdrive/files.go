package gdrive

import (
	"context"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// fileFields is the metadata selection used across file operations.
const fileFields = "id, name, mimeType, parents, webViewLink"

// ListOptions tunes a paged listing operation.
type ListOptions struct {
	// Query is a Drive search expression, e.g. NonFolderQuery. Empty
	// matches everything.
	Query string
	// Fields is the response field selection. The continuation token is
	// always appended when missing. Empty uses the API default.
	Fields string
	// Limit bounds the accumulated result count (inclusive overshoot by
	// up to one page). Zero uses the client default.
	Limit int64
}

// GetFile fetches a file's metadata.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	var resp *drive.File

	err := c.call(ctx, "files.get", func() error {
		var err error
		resp, err = c.svc.Files.Get(fileID).
			SupportsAllDrives(true).
			Fields(fileFields).
			Context(ctx).Do()

		return err
	})
	if err != nil {
		return nil, err
	}

	f := fromFile(resp)

	return &f, nil
}

// CreateFolder creates a folder under the given parent, which may be a
// shared drive or another folder.
func (c *Client) CreateFolder(ctx context.Context, parentID, name string) (*File, error) {
	meta := &drive.File{
		Name:     name,
		MimeType: MimeTypeFolder,
		Parents:  []string{parentID},
	}

	var resp *drive.File

	err := c.call(ctx, "files.create", func() error {
		var err error
		resp, err = c.svc.Files.Create(meta).
			SupportsAllDrives(true).
			Fields(fileFields).
			Context(ctx).Do()

		return err
	})
	if err != nil {
		return nil, err
	}

	f := fromFile(resp)

	return &f, nil
}

// ListFiles lists the files in a shared drive, following continuation
// tokens until the listing is exhausted or opts.Limit is exceeded.
func (c *Client) ListFiles(ctx context.Context, driveID string, opts ListOptions) ([]File, error) {
	fields := withPageToken(opts.Fields)

	files, err := collectPages(c.limitOrDefault(opts.Limit), func(token string) ([]*drive.File, string, error) {
		var resp *drive.FileList

		err := c.call(ctx, "files.list", func() error {
			call := c.svc.Files.List().
				Corpora("drive").
				DriveId(driveID).
				SupportsAllDrives(true).
				IncludeItemsFromAllDrives(true).
				Context(ctx)

			if opts.Query != "" {
				call = call.Q(opts.Query)
			}

			if fields != "" {
				call = call.Fields(googleapi.Field(fields))
			}

			if token != "" {
				call = call.PageToken(token)
			}

			var err error
			resp, err = call.Do()

			return err
		})
		if err != nil {
			return nil, "", err
		}

		return resp.Files, resp.NextPageToken, nil
	})
	if err != nil {
		return nil, err
	}

	return fromFiles(files), nil
}

// CopyFile copies a file into a shared drive under a new name.
func (c *Client) CopyFile(ctx context.Context, driveID, fileID, newName string) (*File, error) {
	meta := &drive.File{
		Name:    newName,
		DriveId: driveID,
	}

	var resp *drive.File

	err := c.call(ctx, "files.copy", func() error {
		var err error
		resp, err = c.svc.Files.Copy(fileID, meta).
			SupportsAllDrives(true).
			Fields(fileFields).
			Context(ctx).Do()

		return err
	})
	if err != nil {
		return nil, err
	}

	f := fromFile(resp)

	return &f, nil
}

// DeleteFile permanently deletes a file. Shared-drive files skip the trash.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	return c.call(ctx, "files.delete", func() error {
		return c.svc.Files.Delete(fileID).
			SupportsAllDrives(true).
			Context(ctx).Do()
	})
}

// MoveFile reparents a file into dest (a shared drive or folder), removing
// every previous parent in the same update so the file never ends up
// multi-homed.
func (c *Client) MoveFile(ctx context.Context, destID, fileID string) (*File, error) {
	var current *drive.File

	err := c.call(ctx, "files.get", func() error {
		var err error
		current, err = c.svc.Files.Get(fileID).
			SupportsAllDrives(true).
			Fields("parents").
			Context(ctx).Do()

		return err
	})
	if err != nil {
		return nil, err
	}

	previousParents := strings.Join(current.Parents, ",")

	var resp *drive.File

	err = c.call(ctx, "files.update", func() error {
		var err error
		resp, err = c.svc.Files.Update(fileID, &drive.File{}).
			AddParents(destID).
			RemoveParents(previousParents).
			SupportsAllDrives(true).
			Fields(fileFields).
			Context(ctx).Do()

		return err
	})
	if err != nil {
		return nil, err
	}

	f := fromFile(resp)

	return &f, nil
}

// limitOrDefault resolves a per-call listing limit against the client-wide
// default.
func (c *Client) limitOrDefault(limit int64) int64 {
	if limit > 0 {
		return limit
	}

	return c.pageLimit
}
