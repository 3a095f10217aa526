package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/incidentkit/teamdrive-go/internal/gdrive"
)

func newWorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Manage incident workspace drives",
	}

	cmd.AddCommand(newWorkspaceCreateCmd())
	cmd.AddCommand(newWorkspaceArchiveCmd())
	cmd.AddCommand(newWorkspaceCloseCmd())
	cmd.AddCommand(newWorkspaceListCmd())
	cmd.AddCommand(newWorkspaceRenameCmd())
	cmd.AddCommand(newWorkspaceStatusCmd())

	return cmd
}

func newWorkspaceCreateCmd() *cobra.Command {
	var (
		members  []string
		restrict bool
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a workspace drive and grant members access",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newWorkspaceService(cmd.Context())
			if err != nil {
				return err
			}

			res, err := svc.Provision(cmd.Context(), args[0], members, restrict)
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(os.Stdout, res)
			}

			statusf("created workspace %s (%s)\n", res.Drive.Name, res.Drive.ID)

			for _, m := range res.Granted {
				statusf("  granted owner to %s\n", m)
			}

			for _, f := range res.Failed {
				fmt.Fprintf(os.Stderr, "  grant failed for %s: %v\n", f.Email, f.Err)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&members, "member", nil, "member email to grant owner access (repeatable)")
	cmd.Flags().BoolVar(&restrict, "restrict", false, "restrict the drive to members only")

	return cmd
}

func newWorkspaceArchiveCmd() *cobra.Command {
	var destDriveID string

	cmd := &cobra.Command{
		Use:   "archive <drive-id> <folder-name>",
		Short: "Move a workspace's files into the archive drive and delete it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := destDriveID
			if dest == "" {
				dest = resolvedCfg.ArchiveDriveID
			}

			if dest == "" {
				return fmt.Errorf("no archive drive: set archive_drive_id or pass --dest")
			}

			svc, err := newWorkspaceService(cmd.Context())
			if err != nil {
				return err
			}

			res, err := svc.Archive(cmd.Context(), args[0], dest, args[1])
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(os.Stdout, res)
			}

			statusf("archived %d/%d files into folder %s\n", res.Moved, res.Total, res.Folder.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&destDriveID, "dest", "", "destination drive (defaults to archive_drive_id)")

	return cmd
}

func newWorkspaceCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <drive-id>",
		Short: "Delete a workspace drive and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newWorkspaceService(cmd.Context())
			if err != nil {
				return err
			}

			if err := svc.Close(cmd.Context(), args[0]); err != nil {
				return err
			}

			statusf("closed workspace %s\n", args[0])

			return nil
		},
	}
}

func newWorkspaceListCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shared drives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newDriveClient(cmd.Context())
			if err != nil {
				return err
			}

			drives, err := client.ListDrives(cmd.Context(), gdrive.ListOptions{Query: query})
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(os.Stdout, drives)
			}

			rows := make([][]string, 0, len(drives))
			for _, d := range drives {
				rows = append(rows, []string{d.ID, d.Name})
			}

			printTable(os.Stdout, []string{"ID", "NAME"}, rows)

			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "drive search query (e.g. name contains 'sev1')")

	return cmd
}

func newWorkspaceRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <drive-id> <new-name>",
		Short: "Rename a workspace drive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDriveClient(cmd.Context())
			if err != nil {
				return err
			}

			d, err := client.UpdateDrive(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(os.Stdout, d)
			}

			statusf("renamed %s to %s\n", d.ID, d.Name)

			return nil
		},
	}
}

func newWorkspaceStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <drive-id>",
		Short: "Show a workspace's metadata and members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newWorkspaceService(cmd.Context())
			if err != nil {
				return err
			}

			st, err := svc.GetStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(os.Stdout, st)
			}

			fmt.Fprintf(os.Stdout, "%s  %s\n\n", st.Drive.ID, st.Drive.Name)

			rows := make([][]string, 0, len(st.Permissions))
			for _, p := range st.Permissions {
				grantee := p.Email
				if p.Type == gdrive.GranteeDomain {
					grantee = p.Domain
				}

				rows = append(rows, []string{grantee, string(p.Role), string(p.Type)})
			}

			printTable(os.Stdout, []string{"GRANTEE", "ROLE", "TYPE"}, rows)

			return nil
		},
	}
}
