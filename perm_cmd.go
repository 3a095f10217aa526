package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/incidentkit/teamdrive-go/internal/gdrive"
)

func newPermCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perm",
		Short: "Manage permissions on files and drives",
	}

	cmd.AddCommand(newPermAddCmd())
	cmd.AddCommand(newPermAddDomainCmd())
	cmd.AddCommand(newPermRmCmd())
	cmd.AddCommand(newPermLsCmd())

	return cmd
}

func newPermAddCmd() *cobra.Command {
	var (
		role  string
		group bool
	)

	cmd := &cobra.Command{
		Use:   "add <target-id> <email>",
		Short: "Grant a user or group access",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDriveClient(cmd.Context())
			if err != nil {
				return err
			}

			grant := client.GrantUser
			if group {
				grant = client.GrantGroup
			}

			p, err := grant(cmd.Context(), args[0], args[1], gdrive.Role(role))
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(os.Stdout, p)
			}

			statusf("granted %s to %s\n", p.Role, p.Email)

			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "role to grant (defaults to commenter)")
	cmd.Flags().BoolVar(&group, "group", false, "the email names a group rather than a user")

	return cmd
}

func newPermAddDomainCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "add-domain <target-id> <domain>",
		Short: "Grant a whole domain access",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDriveClient(cmd.Context())
			if err != nil {
				return err
			}

			p, err := client.GrantDomain(cmd.Context(), args[0], args[1], gdrive.Role(role))
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(os.Stdout, p)
			}

			statusf("granted %s to %s\n", p.Role, p.Domain)

			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "role to grant (defaults to commenter)")

	return cmd
}

func newPermRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <target-id> <email>",
		Short: "Revoke a grantee's access by email",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDriveClient(cmd.Context())
			if err != nil {
				return err
			}

			if err := client.RevokeByEmail(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}

			statusf("revoked access for %s\n", args[1])

			return nil
		},
	}
}

func newPermLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <target-id>",
		Short: "List permissions on a file or drive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDriveClient(cmd.Context())
			if err != nil {
				return err
			}

			perms, err := client.ListPermissions(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(os.Stdout, perms)
			}

			rows := make([][]string, 0, len(perms))
			for _, p := range perms {
				grantee := p.Email
				if p.Type == gdrive.GranteeDomain {
					grantee = p.Domain
				}

				rows = append(rows, []string{p.ID, grantee, string(p.Role), string(p.Type)})
			}

			printTable(os.Stdout, []string{"ID", "GRANTEE", "ROLE", "TYPE"}, rows)

			return nil
		},
	}
}
