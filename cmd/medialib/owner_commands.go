package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"medialib/internal/api"
	"medialib/internal/queueaccess"
)

func newOwnerCommand(ctx *commandContext) *cobra.Command {
	ownerCmd := &cobra.Command{
		Use:   "owner",
		Short: "Manage owner to library directory mappings",
	}

	setCmd := &cobra.Command{
		Use:   "set <name> [directory]",
		Short: "Register an owner; without a directory one is derived under paths.library_dir",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			directory := ""
			if len(args) == 2 {
				directory = args[1]
			}
			return ctx.withQueueAccess(cmd, func(session queueaccess.Session) error {
				owner, err := session.Access.SetOwner(cmd.Context(), args[0], directory)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Owner %s -> %s\n", owner.Name, owner.Directory)
				return nil
			})
		},
	}

	var jsonOutput bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered owners",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueueAccess(cmd, func(session queueaccess.Session) error {
				owners, err := session.Access.ListOwners(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					if owners == nil {
						owners = []api.OwnerItem{}
					}
					return writeJSON(cmd, api.OwnerListResponse{Owners: owners})
				}
				out := cmd.OutOrStdout()
				if len(owners) == 0 {
					fmt.Fprintln(out, "No owners registered")
					return nil
				}
				rows := make([][]string, 0, len(owners))
				for _, owner := range owners {
					rows = append(rows, []string{owner.Name, owner.Directory, formatQueueTime(owner.UpdatedAt)})
				}
				fmt.Fprint(out, renderTable([]string{"Owner", "Directory", "Updated"}, rows, nil))
				return nil
			})
		},
	}
	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	removeCmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an owner; their pending requests fail on the next cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueueAccess(cmd, func(session queueaccess.Session) error {
				removed, err := session.Access.RemoveOwner(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Owner %s was not registered\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Owner %s removed\n", args[0])
				return nil
			})
		},
	}

	ownerCmd.AddCommand(setCmd, listCmd, removeCmd)
	return ownerCmd
}
