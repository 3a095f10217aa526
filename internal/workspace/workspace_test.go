package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/incidentkit/teamdrive-go/internal/gdrive"
)

// fakeDrive records every call in order and fails the operations listed
// in failOn. The mutex matters for GetStatus, which issues its reads
// concurrently.
type fakeDrive struct {
	mu     sync.Mutex
	calls  []string
	failOn map[string]error

	driveSeq  int
	folderSeq int
	files     []gdrive.File
}

func (f *fakeDrive) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeDrive) fail(op string) error {
	if err, ok := f.failOn[op]; ok {
		return err
	}

	return nil
}

func (f *fakeDrive) CreateDrive(_ context.Context, name string) (*gdrive.Drive, error) {
	f.record("CreateDrive(%s)", name)

	if err := f.fail("CreateDrive"); err != nil {
		return nil, err
	}

	f.driveSeq++

	return &gdrive.Drive{ID: fmt.Sprintf("drive-%d", f.driveSeq), Name: name}, nil
}

func (f *fakeDrive) GetDrive(_ context.Context, driveID string) (*gdrive.Drive, error) {
	f.record("GetDrive(%s)", driveID)

	if err := f.fail("GetDrive"); err != nil {
		return nil, err
	}

	return &gdrive.Drive{ID: driveID, Name: "sev1 payment outage"}, nil
}

func (f *fakeDrive) ListDrives(_ context.Context, _ gdrive.ListOptions) ([]gdrive.Drive, error) {
	f.record("ListDrives")

	return nil, f.fail("ListDrives")
}

func (f *fakeDrive) RestrictDrive(_ context.Context, driveID string) (*gdrive.Drive, error) {
	f.record("RestrictDrive(%s)", driveID)

	if err := f.fail("RestrictDrive"); err != nil {
		return nil, err
	}

	return &gdrive.Drive{ID: driveID}, nil
}

func (f *fakeDrive) DeleteDrive(_ context.Context, driveID string, empty bool) error {
	f.record("DeleteDrive(%s,empty=%t)", driveID, empty)

	return f.fail("DeleteDrive")
}

func (f *fakeDrive) CreateFolder(_ context.Context, parentID, name string) (*gdrive.File, error) {
	f.record("CreateFolder(%s,%s)", parentID, name)

	if err := f.fail("CreateFolder"); err != nil {
		return nil, err
	}

	f.folderSeq++

	return &gdrive.File{ID: fmt.Sprintf("folder-%d", f.folderSeq), Name: name}, nil
}

func (f *fakeDrive) ListFiles(_ context.Context, driveID string, opts gdrive.ListOptions) ([]gdrive.File, error) {
	f.record("ListFiles(%s,q=%s)", driveID, opts.Query)

	if err := f.fail("ListFiles"); err != nil {
		return nil, err
	}

	return f.files, nil
}

func (f *fakeDrive) MoveFile(_ context.Context, destID, fileID string) (*gdrive.File, error) {
	f.record("MoveFile(%s,%s)", destID, fileID)

	if err := f.fail("MoveFile"); err != nil {
		return nil, err
	}

	return &gdrive.File{ID: fileID, Parents: []string{destID}}, nil
}

func (f *fakeDrive) GrantUser(_ context.Context, targetID, email string, role gdrive.Role) (*gdrive.Permission, error) {
	f.record("GrantUser(%s,%s,%s)", targetID, email, role)

	if err, ok := f.failOn["GrantUser:"+email]; ok {
		return nil, err
	}

	if err := f.fail("GrantUser"); err != nil {
		return nil, err
	}

	return &gdrive.Permission{Email: email, Role: role, Type: gdrive.GranteeUser}, nil
}

func (f *fakeDrive) GrantDomain(_ context.Context, targetID, domain string, role gdrive.Role) (*gdrive.Permission, error) {
	f.record("GrantDomain(%s,%s,%s)", targetID, domain, role)

	if err := f.fail("GrantDomain"); err != nil {
		return nil, err
	}

	return &gdrive.Permission{Domain: domain, Role: role, Type: gdrive.GranteeDomain}, nil
}

func (f *fakeDrive) ListPermissions(_ context.Context, targetID string) ([]gdrive.Permission, error) {
	f.record("ListPermissions(%s)", targetID)

	if err := f.fail("ListPermissions"); err != nil {
		return nil, err
	}

	return []gdrive.Permission{
		{ID: "p1", Email: "oncall@example.com", Role: gdrive.RoleOrganizer, Type: gdrive.GranteeUser},
	}, nil
}

func newTestService(fake *fakeDrive, scaffold []string) *Service {
	return NewService(fake, Config{
		Domain:   "example.com",
		Scaffold: scaffold,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestProvision_GrantsEachMemberOwner(t *testing.T) {
	fake := &fakeDrive{}
	svc := newTestService(fake, nil)

	res, err := svc.Provision(context.Background(), "sev1 payment outage",
		[]string{"a@example.com", "b@example.com"}, false)
	require.NoError(t, err)

	assert.Equal(t, "drive-1", res.Drive.ID)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, res.Granted)
	assert.Empty(t, res.Failed)

	assert.Equal(t, []string{
		"CreateDrive(sev1 payment outage)",
		"GrantUser(drive-1,a@example.com,owner)",
		"GrantUser(drive-1,b@example.com,owner)",
	}, fake.calls)
}

func TestProvision_PartialGrantFailureContinues(t *testing.T) {
	fake := &fakeDrive{failOn: map[string]error{
		"GrantUser:bad@example.com": errors.New("invalid sharing request"),
	}}
	svc := newTestService(fake, nil)

	res, err := svc.Provision(context.Background(), "outage",
		[]string{"a@example.com", "bad@example.com", "c@example.com"}, false)
	require.NoError(t, err, "a failed grant must not abort provisioning")

	assert.Equal(t, []string{"a@example.com", "c@example.com"}, res.Granted)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "bad@example.com", res.Failed[0].Email)
	assert.ErrorContains(t, res.Failed[0].Err, "invalid sharing request")
}

func TestProvision_RestrictAndScaffold(t *testing.T) {
	fake := &fakeDrive{}
	svc := newTestService(fake, []string{"Timeline", "Evidence"})

	res, err := svc.Provision(context.Background(), "outage", nil, true)
	require.NoError(t, err)
	assert.Equal(t, "drive-1", res.Drive.ID)

	assert.Equal(t, []string{
		"CreateDrive(outage)",
		"RestrictDrive(drive-1)",
		"CreateFolder(drive-1,Timeline)",
		"CreateFolder(drive-1,Evidence)",
	}, fake.calls)
}

func TestProvision_NormalizesName(t *testing.T) {
	fake := &fakeDrive{}
	svc := newTestService(fake, nil)

	// Decomposed "é" plus doubled interior spaces.
	res, err := svc.Provision(context.Background(), "Résumé  review", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "Résumé review", res.Drive.Name)
}

func TestProvision_CreateFailure(t *testing.T) {
	fake := &fakeDrive{failOn: map[string]error{"CreateDrive": errors.New("quota exceeded")}}
	svc := newTestService(fake, nil)

	_, err := svc.Provision(context.Background(), "outage", []string{"a@example.com"}, false)
	require.Error(t, err)
	assert.ErrorContains(t, err, "quota exceeded")

	// No grants may be attempted without a drive.
	assert.Equal(t, []string{"CreateDrive(outage)"}, fake.calls)
}

func TestArchive_Ordering(t *testing.T) {
	fake := &fakeDrive{files: []gdrive.File{
		{ID: "f1", Name: "timeline.doc"},
		{ID: "f2", Name: "postmortem.doc"},
	}}
	svc := newTestService(fake, nil)

	res, err := svc.Archive(context.Background(), "drive-src", "drive-archive", "2026-08 outage")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Moved)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, "folder-1", res.Folder.ID)

	// The destination folder is created exactly once before anything moves,
	// each file is shared before it moves, and the source drive goes away
	// only after every file has been processed.
	assert.Equal(t, []string{
		"CreateFolder(drive-archive,2026-08 outage)",
		"ListFiles(drive-src,q=" + gdrive.NonFolderQuery + ")",
		"GrantDomain(f1,example.com,commenter)",
		"MoveFile(folder-1,f1)",
		"GrantDomain(f2,example.com,commenter)",
		"MoveFile(folder-1,f2)",
		"DeleteDrive(drive-src,empty=true)",
	}, fake.calls)
}

func TestArchive_MoveFailureKeepsSourceDrive(t *testing.T) {
	fake := &fakeDrive{
		files:  []gdrive.File{{ID: "f1"}, {ID: "f2"}},
		failOn: map[string]error{"MoveFile": errors.New("parent not writable")},
	}
	svc := newTestService(fake, nil)

	res, err := svc.Archive(context.Background(), "drive-src", "drive-archive", "outage")
	require.Error(t, err)
	assert.ErrorContains(t, err, "f1")

	assert.Equal(t, 0, res.Moved)
	assert.Equal(t, 2, res.Total)

	for _, call := range fake.calls {
		assert.NotContains(t, call, "DeleteDrive", "source drive must survive a partial archive")
	}
}

func TestArchive_EmptyDrive(t *testing.T) {
	fake := &fakeDrive{}
	svc := newTestService(fake, nil)

	res, err := svc.Archive(context.Background(), "drive-src", "drive-archive", "outage")
	require.NoError(t, err)
	assert.Zero(t, res.Total)

	assert.Equal(t, []string{
		"CreateFolder(drive-archive,outage)",
		"ListFiles(drive-src,q=" + gdrive.NonFolderQuery + ")",
		"DeleteDrive(drive-src,empty=true)",
	}, fake.calls)
}

func TestClose_EmptiesDrive(t *testing.T) {
	fake := &fakeDrive{}
	svc := newTestService(fake, nil)

	require.NoError(t, svc.Close(context.Background(), "drive-1"))
	assert.Equal(t, []string{"DeleteDrive(drive-1,empty=true)"}, fake.calls)
}

func TestGetStatus(t *testing.T) {
	fake := &fakeDrive{}
	svc := newTestService(fake, nil)

	st, err := svc.GetStatus(context.Background(), "drive-1")
	require.NoError(t, err)

	assert.Equal(t, "drive-1", st.Drive.ID)
	require.Len(t, st.Permissions, 1)
	assert.Equal(t, "oncall@example.com", st.Permissions[0].Email)
}

func TestGetStatus_PermissionsFailure(t *testing.T) {
	fake := &fakeDrive{failOn: map[string]error{"ListPermissions": errors.New("forbidden")}}
	svc := newTestService(fake, nil)

	_, err := svc.GetStatus(context.Background(), "drive-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "drive-1")
}
