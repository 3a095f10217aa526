package gdrive

import "google.golang.org/api/drive/v3"

// Google Workspace MIME types the adapter cares about.
const (
	MimeTypeFolder = "application/vnd.google-apps.folder"
	MimeTypeDoc    = "application/vnd.google-apps.document"
	MimeTypeSheet  = "application/vnd.google-apps.spreadsheet"
)

// Export formats for format-converting downloads of Workspace documents.
const (
	ExportMimeText = "text/plain"
	ExportMimeCSV  = "text/csv"
)

// NonFolderQuery is the Drive search query selecting everything except
// folders, used when relocating a drive's contents.
const NonFolderQuery = "mimeType != 'application/vnd.google-apps.folder'"

// Role is a Drive permission role, strongest first.
type Role string

const (
	RoleOwner         Role = "owner"
	RoleOrganizer     Role = "organizer"
	RoleFileOrganizer Role = "fileOrganizer"
	RoleWriter        Role = "writer"
	RoleCommenter     Role = "commenter"
	RoleReader        Role = "reader"
)

// GranteeType identifies what kind of principal a permission applies to.
type GranteeType string

const (
	GranteeUser   GranteeType = "user"
	GranteeGroup  GranteeType = "group"
	GranteeDomain GranteeType = "domain"
	GranteeAnyone GranteeType = "anyone"
)

// File is file metadata normalized from the SDK response — callers never
// see raw API data. Zero values mean the field was outside the request's
// field selection.
type File struct {
	ID          string
	Name        string
	MimeType    string
	Parents     []string
	WebViewLink string
	Size        int64
	Trashed     bool
}

func fromFile(f *drive.File) File {
	return File{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Parents:     f.Parents,
		WebViewLink: f.WebViewLink,
		Size:        f.Size,
		Trashed:     f.Trashed,
	}
}

func fromFiles(files []*drive.File) []File {
	out := make([]File, 0, len(files))
	for _, f := range files {
		out = append(out, fromFile(f))
	}

	return out
}

// Drive is shared-drive metadata normalized from the SDK response.
type Drive struct {
	ID     string
	Name   string
	Hidden bool
}

func fromDrive(d *drive.Drive) Drive {
	return Drive{
		ID:     d.Id,
		Name:   d.Name,
		Hidden: d.Hidden,
	}
}

// Permission is a single access grant on a file or shared drive. Exactly
// one of Email or Domain is set, depending on Type.
type Permission struct {
	ID     string
	Email  string
	Domain string
	Role   Role
	Type   GranteeType
}

func fromPermission(p *drive.Permission) Permission {
	return Permission{
		ID:     p.Id,
		Email:  p.EmailAddress,
		Domain: p.Domain,
		Role:   Role(p.Role),
		Type:   GranteeType(p.Type),
	}
}

// Comment is a file comment normalized from the SDK response.
type Comment struct {
	ID       string
	Author   string
	Content  string
	Created  string // RFC 3339, as reported by the API
	Resolved bool
}

func fromComment(c *drive.Comment) Comment {
	out := Comment{
		ID:       c.Id,
		Content:  c.Content,
		Created:  c.CreatedTime,
		Resolved: c.Resolved,
	}

	if c.Author != nil {
		out.Author = c.Author.DisplayName
	}

	return out
}
