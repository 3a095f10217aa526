// Package workspace provisions and retires Google Drive shared drives used
// as incident workspaces. Composite operations run their remote steps
// strictly sequentially and are best-effort: there is no rollback, so a
// partial failure leaves the remote state wherever the last successful
// step put it, and the returned error reports how far the operation got.
package workspace

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/incidentkit/teamdrive-go/internal/gdrive"
)

// DriveAPI is the slice of the Drive adapter the workspace service needs.
// Defined at the consumer so tests can substitute a fake.
type DriveAPI interface {
	CreateDrive(ctx context.Context, name string) (*gdrive.Drive, error)
	GetDrive(ctx context.Context, driveID string) (*gdrive.Drive, error)
	ListDrives(ctx context.Context, opts gdrive.ListOptions) ([]gdrive.Drive, error)
	RestrictDrive(ctx context.Context, driveID string) (*gdrive.Drive, error)
	DeleteDrive(ctx context.Context, driveID string, empty bool) error
	CreateFolder(ctx context.Context, parentID, name string) (*gdrive.File, error)
	ListFiles(ctx context.Context, driveID string, opts gdrive.ListOptions) ([]gdrive.File, error)
	MoveFile(ctx context.Context, destID, fileID string) (*gdrive.File, error)
	GrantUser(ctx context.Context, targetID, email string, role gdrive.Role) (*gdrive.Permission, error)
	GrantDomain(ctx context.Context, targetID, domain string, role gdrive.Role) (*gdrive.Permission, error)
	ListPermissions(ctx context.Context, targetID string) ([]gdrive.Permission, error)
}

// Config carries workspace policy.
type Config struct {
	// Domain is granted commenter access to archived material.
	Domain string
	// Scaffold lists subfolders created in every new workspace.
	Scaffold []string
	Logger   *slog.Logger
}

// Service orchestrates workspace lifecycle operations over the Drive
// adapter. Stateless; safe for concurrent use if the underlying DriveAPI is.
type Service struct {
	api      DriveAPI
	domain   string
	scaffold []string
	logger   *slog.Logger
}

// NewService creates a workspace service.
func NewService(api DriveAPI, cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		api:      api,
		domain:   cfg.Domain,
		scaffold: cfg.Scaffold,
		logger:   logger,
	}
}

// MemberError records a member whose access grant failed during provisioning.
type MemberError struct {
	Email string
	Err   error
}

// ProvisionResult reports what Provision managed to build. Failed is
// non-empty when some member grants did not go through; the drive still
// exists in that case.
type ProvisionResult struct {
	Drive   gdrive.Drive
	Granted []string
	Failed  []MemberError
}

// Provision creates an incident workspace drive and grants each member
// owner-level access, one at a time. A failed grant is recorded and the
// remaining members are still processed; the drive is never rolled back.
// When restrict is set the drive is locked to members-only access after
// the grants.
func (s *Service) Provision(ctx context.Context, name string, members []string, restrict bool) (*ProvisionResult, error) {
	name = NormalizeName(name)

	d, err := s.api.CreateDrive(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("workspace: creating drive %q: %w", name, err)
	}

	s.logger.Info("workspace drive created",
		slog.String("drive_id", d.ID),
		slog.String("name", d.Name),
	)

	res := &ProvisionResult{Drive: *d}

	for _, member := range members {
		if _, err := s.api.GrantUser(ctx, d.ID, member, gdrive.RoleOwner); err != nil {
			s.logger.Warn("member grant failed",
				slog.String("drive_id", d.ID),
				slog.String("error", err.Error()),
			)

			res.Failed = append(res.Failed, MemberError{Email: member, Err: err})

			continue
		}

		res.Granted = append(res.Granted, member)
	}

	if restrict {
		if _, err := s.api.RestrictDrive(ctx, d.ID); err != nil {
			return res, fmt.Errorf("workspace: restricting drive %s: %w", d.ID, err)
		}
	}

	for _, folder := range s.scaffold {
		if _, err := s.api.CreateFolder(ctx, d.ID, folder); err != nil {
			return res, fmt.Errorf("workspace: creating scaffold folder %q: %w", folder, err)
		}
	}

	return res, nil
}

// ArchiveResult reports how far an archive run got.
type ArchiveResult struct {
	Folder gdrive.File
	Moved  int
	Total  int
}

// Archive retires a workspace: it creates a destination folder (exactly
// once, before anything moves), lists every non-folder file in the source
// drive, then for each file grants domain-wide commenter access and moves
// it into the destination. Only after every file has been processed is the
// emptied source drive deleted. A failure partway leaves already-moved
// files in place and the source drive intact.
func (s *Service) Archive(ctx context.Context, sourceDriveID, destDriveID, folderName string) (*ArchiveResult, error) {
	folder, err := s.api.CreateFolder(ctx, destDriveID, NormalizeName(folderName))
	if err != nil {
		return nil, fmt.Errorf("workspace: creating archive folder %q: %w", folderName, err)
	}

	files, err := s.api.ListFiles(ctx, sourceDriveID, gdrive.ListOptions{Query: gdrive.NonFolderQuery})
	if err != nil {
		return nil, fmt.Errorf("workspace: listing drive %s for archive: %w", sourceDriveID, err)
	}

	res := &ArchiveResult{Folder: *folder, Total: len(files)}

	for _, f := range files {
		if _, err := s.api.GrantDomain(ctx, f.ID, s.domain, gdrive.RoleCommenter); err != nil {
			return res, fmt.Errorf("workspace: sharing %s with domain %s: %w", f.ID, s.domain, err)
		}

		if _, err := s.api.MoveFile(ctx, folder.ID, f.ID); err != nil {
			return res, fmt.Errorf("workspace: moving %s into archive: %w", f.ID, err)
		}

		res.Moved++
	}

	if err := s.api.DeleteDrive(ctx, sourceDriveID, true); err != nil {
		return res, fmt.Errorf("workspace: deleting archived drive %s: %w", sourceDriveID, err)
	}

	s.logger.Info("workspace archived",
		slog.String("source_drive_id", sourceDriveID),
		slog.String("folder_id", folder.ID),
		slog.Int("files_moved", res.Moved),
	)

	return res, nil
}

// Close deletes a workspace drive outright, emptying it first.
func (s *Service) Close(ctx context.Context, driveID string) error {
	if err := s.api.DeleteDrive(ctx, driveID, true); err != nil {
		return fmt.Errorf("workspace: closing drive %s: %w", driveID, err)
	}

	return nil
}

// Status is a read-only snapshot of a workspace.
type Status struct {
	Drive       gdrive.Drive
	Permissions []gdrive.Permission
}

// GetStatus fetches drive metadata and the member list. Both reads are
// independent, so unlike the mutating composites they run concurrently.
func (s *Service) GetStatus(ctx context.Context, driveID string) (*Status, error) {
	var st Status

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d, err := s.api.GetDrive(ctx, driveID)
		if err != nil {
			return err
		}

		st.Drive = *d

		return nil
	})

	g.Go(func() error {
		perms, err := s.api.ListPermissions(ctx, driveID)
		if err != nil {
			return err
		}

		st.Permissions = perms

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("workspace: fetching status for %s: %w", driveID, err)
	}

	return &st, nil
}
