package gdrive

import (
	"context"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// ListComments enumerates the comments on a file, following continuation
// tokens until exhausted or opts.Limit is exceeded. The comments API
// requires an explicit field selection; the default is the wildcard.
func (c *Client) ListComments(ctx context.Context, fileID string, opts ListOptions) ([]Comment, error) {
	fields := opts.Fields
	if fields == "" {
		fields = "*"
	}

	fields = withPageToken(fields)

	comments, err := collectPages(c.limitOrDefault(opts.Limit), func(token string) ([]*drive.Comment, string, error) {
		var resp *drive.CommentList

		err := c.call(ctx, "comments.list", func() error {
			call := c.svc.Comments.List(fileID).
				Fields(googleapi.Field(fields)).
				Context(ctx)

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

		return resp.Comments, resp.NextPageToken, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]Comment, 0, len(comments))
	for _, cm := range comments {
		out = append(out, fromComment(cm))
	}

	return out, nil
}
