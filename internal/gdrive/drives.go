package gdrive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// driveFields is the metadata selection for shared-drive operations.
const driveFields = "id, name, hidden"

// CreateDrive provisions a new shared drive. Drive creation requires a
// client-supplied idempotency id; on a name-collision conflict the id is
// regenerated and the create retried, up to the client's attempt budget.
func (c *Client) CreateDrive(ctx context.Context, name string) (*Drive, error) {
	var resp *drive.Drive

	for attempt := 1; ; attempt++ {
		requestID := uuid.NewString()

		err := c.call(ctx, "drives.create", func() error {
			var err error
			resp, err = c.svc.Drives.Create(requestID, &drive.Drive{Name: name}).
				Context(ctx).Do()

			return err
		})
		if err == nil {
			break
		}

		if !errors.Is(err, ErrConflict) || attempt >= c.maxAttempts {
			return nil, err
		}

		c.logger.Warn("drive create conflict, regenerating request id",
			slog.String("name", name),
			slog.Int("attempt", attempt),
		)
	}

	d := fromDrive(resp)

	return &d, nil
}

// GetDrive fetches shared-drive metadata.
func (c *Client) GetDrive(ctx context.Context, driveID string) (*Drive, error) {
	var resp *drive.Drive

	err := c.call(ctx, "drives.get", func() error {
		var err error
		resp, err = c.svc.Drives.Get(driveID).
			Fields(driveFields).
			Context(ctx).Do()

		return err
	})
	if err != nil {
		return nil, err
	}

	d := fromDrive(resp)

	return &d, nil
}

// ListDrives lists the shared drives visible to the authenticated
// principal, following continuation tokens until exhausted or opts.Limit
// is exceeded. opts.Query filters server-side (e.g. "name contains 'sec'").
func (c *Client) ListDrives(ctx context.Context, opts ListOptions) ([]Drive, error) {
	fields := withPageToken(opts.Fields)

	drives, err := collectPages(c.limitOrDefault(opts.Limit), func(token string) ([]*drive.Drive, string, error) {
		var resp *drive.DriveList

		err := c.call(ctx, "drives.list", func() error {
			call := c.svc.Drives.List().Context(ctx)

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

		return resp.Drives, resp.NextPageToken, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]Drive, 0, len(drives))
	for _, d := range drives {
		out = append(out, fromDrive(d))
	}

	return out, nil
}

// UpdateDrive renames a shared drive.
func (c *Client) UpdateDrive(ctx context.Context, driveID, name string) (*Drive, error) {
	var resp *drive.Drive

	err := c.call(ctx, "drives.update", func() error {
		var err error
		resp, err = c.svc.Drives.Update(driveID, &drive.Drive{Name: name}).
			Context(ctx).Do()

		return err
	})
	if err != nil {
		return nil, err
	}

	d := fromDrive(resp)

	return &d, nil
}

// RestrictDrive locks a shared drive down for incident work: only members
// can access it, and readers and commenters cannot copy, print, or
// download its contents. Domain-wide access stays off.
func (c *Client) RestrictDrive(ctx context.Context, driveID string) (*Drive, error) {
	meta := &drive.Drive{
		Restrictions: &drive.DriveRestrictions{
			CopyRequiresWriterPermission: true,
			DriveMembersOnly:             true,
			DomainUsersOnly:              false,
			ForceSendFields:              []string{"DomainUsersOnly"},
		},
	}

	var resp *drive.Drive

	err := c.call(ctx, "drives.update", func() error {
		var err error
		resp, err = c.svc.Drives.Update(driveID, meta).
			Context(ctx).Do()

		return err
	})
	if err != nil {
		return nil, err
	}

	d := fromDrive(resp)

	return &d, nil
}

// DeleteDrive removes a shared drive. The API refuses to delete a
// non-empty drive, so when empty is set every contained file is deleted
// first. The settle delay between listing and deleting absorbs the API's
// list-consistency lag; it is a pragmatic wait, not a guarantee.
func (c *Client) DeleteDrive(ctx context.Context, driveID string, empty bool) error {
	if empty {
		files, err := c.ListFiles(ctx, driveID, ListOptions{})
		if err != nil {
			return fmt.Errorf("gdrive: listing drive %s before delete: %w", driveID, err)
		}

		if c.settleDelay > 0 {
			if err := c.sleepFunc(ctx, c.settleDelay); err != nil {
				return fmt.Errorf("gdrive: drives.delete canceled: %w", err)
			}
		}

		for _, f := range files {
			if err := c.DeleteFile(ctx, f.ID); err != nil {
				return fmt.Errorf("gdrive: emptying drive %s: %w", driveID, err)
			}
		}
	}

	return c.call(ctx, "drives.delete", func() error {
		return c.svc.Drives.Delete(driveID).Context(ctx).Do()
	})
}
