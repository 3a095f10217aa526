package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/incidentkit/teamdrive-go/internal/gdrive"
)

func newLsCmd() *cobra.Command {
	var (
		query string
		limit int64
	)

	cmd := &cobra.Command{
		Use:   "ls <drive-id>",
		Short: "List files in a shared drive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDriveClient(cmd.Context())
			if err != nil {
				return err
			}

			files, err := client.ListFiles(cmd.Context(), args[0], gdrive.ListOptions{
				Query: query,
				Limit: limit,
			})
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(os.Stdout, files)
			}

			rows := make([][]string, 0, len(files))
			for _, f := range files {
				rows = append(rows, []string{f.ID, f.MimeType, f.Name})
			}

			printTable(os.Stdout, []string{"ID", "TYPE", "NAME"}, rows)

			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Drive search query (e.g. \"name contains 'report'\")")
	cmd.Flags().Int64Var(&limit, "limit", 0, "page size (0 uses the client default)")

	return cmd
}

func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <parent-id> <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDriveClient(cmd.Context())
			if err != nil {
				return err
			}

			f, err := client.CreateFolder(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(os.Stdout, f)
			}

			statusf("created folder %s (%s)\n", f.Name, f.ID)

			return nil
		},
	}
}

func newMvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <file-id> <dest-folder-id>",
		Short: "Move a file into another folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDriveClient(cmd.Context())
			if err != nil {
				return err
			}

			f, err := client.MoveFile(cmd.Context(), args[1], args[0])
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(os.Stdout, f)
			}

			statusf("moved %s\n", f.ID)

			return nil
		},
	}
}

func newCpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cp <file-id> <drive-id> <new-name>",
		Short: "Copy a file into a shared drive",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDriveClient(cmd.Context())
			if err != nil {
				return err
			}

			f, err := client.CopyFile(cmd.Context(), args[1], args[0], args[2])
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(os.Stdout, f)
			}

			statusf("copied to %s (%s)\n", f.Name, f.ID)

			return nil
		},
	}
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <file-id>",
		Short: "Delete a file or folder permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDriveClient(cmd.Context())
			if err != nil {
				return err
			}

			if err := client.DeleteFile(cmd.Context(), args[0]); err != nil {
				return err
			}

			statusf("deleted %s\n", args[0])

			return nil
		},
	}
}

func newPutCmd() *cobra.Command {
	var mimeType string

	cmd := &cobra.Command{
		Use:   "put <local-path> <parent-id> [name]",
		Short: "Upload a file",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			name := filepath.Base(path)
			if len(args) == 3 {
				name = args[2]
			}

			mt := mimeType
			if mt == "" {
				mt = mime.TypeByExtension(filepath.Ext(path))
			}

			client, err := newDriveClient(cmd.Context())
			if err != nil {
				return err
			}

			f, err := client.UploadFile(cmd.Context(), args[1], path, name, mt)
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(os.Stdout, f)
			}

			statusf("uploaded %s (%s)\n", f.Name, f.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&mimeType, "mime-type", "", "override the detected MIME type")

	return cmd
}

func newGetCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <file-id>",
		Short: "Download a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDriveClient(cmd.Context())
			if err != nil {
				return err
			}

			w := os.Stdout
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()

				w = f
			}

			n, err := client.DownloadFile(cmd.Context(), args[0], w)
			if err != nil {
				return err
			}

			if output != "" && output != "-" {
				statusf("downloaded %s (%s)\n", output, formatSize(n))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		mimeType string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "export <file-id>",
		Short: "Export a Google Doc in another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDriveClient(cmd.Context())
			if err != nil {
				return err
			}

			data, err := client.ExportDoc(cmd.Context(), args[0], mimeType)
			if err != nil {
				return err
			}

			if output != "" && output != "-" {
				if err := os.WriteFile(output, data, 0o600); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}

				statusf("exported %s (%s)\n", output, formatSize(int64(len(data))))

				return nil
			}

			_, err = os.Stdout.Write(data)

			return err
		},
	}

	cmd.Flags().StringVar(&mimeType, "mime-type", "", "export format (defaults to plain text)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func newCommentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comments <file-id>",
		Short: "List comments on a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDriveClient(cmd.Context())
			if err != nil {
				return err
			}

			comments, err := client.ListComments(cmd.Context(), args[0], gdrive.ListOptions{})
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(os.Stdout, comments)
			}

			for _, c := range comments {
				fmt.Fprintf(os.Stdout, "%s  %s\n  %s\n", c.ID, c.Author, c.Content)
			}

			return nil
		},
	}
}
