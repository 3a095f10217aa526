package gdrive

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// NewService builds an authenticated Drive API service handle. When
// credentialsFile is set it must point at a service-account or authorized
// OAuth client JSON file; otherwise application-default credentials are
// used. The returned service's lifecycle belongs to the caller.
func NewService(ctx context.Context, credentialsFile string) (*drive.Service, error) {
	opts := []option.ClientOption{option.WithScopes(drive.DriveScope)}

	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gdrive: creating drive service: %w", err)
	}

	return svc, nil
}

// NewServiceWithTokenSource builds a Drive API service from a caller-owned
// OAuth2 token source, for embedders that manage their own credentials.
func NewServiceWithTokenSource(ctx context.Context, ts oauth2.TokenSource) (*drive.Service, error) {
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("gdrive: creating drive service: %w", err)
	}

	return svc, nil
}
