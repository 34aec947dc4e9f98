package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"medialib/internal/api"
	"medialib/internal/queueaccess"
	"medialib/internal/textutil"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage download requests",
	}

	queueCmd.AddCommand(newQueueAddCommand(ctx))
	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueShowCommand(ctx))
	queueCmd.AddCommand(newQueueRequeueCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueHealthCommand(ctx))

	return queueCmd
}

func newQueueAddCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "add <owner> <source>",
		Short: "Queue a download for an owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueueAccess(cmd, func(session queueaccess.Session) error {
				item, err := session.Access.Enqueue(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, api.EnqueueResponse{Item: item})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued request %d for %s\n", item.ID, item.Owner)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var owner string
	var statuses []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List download requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueueAccess(cmd, func(session queueaccess.Session) error {
				items, err := session.Access.List(cmd.Context(), owner, statuses)
				if err != nil {
					return err
				}
				items = api.SortQueueItemsNewestFirst(items)
				if jsonOutput {
					if items == nil {
						items = []api.QueueItem{}
					}
					return writeJSON(cmd, api.QueueListResponse{Items: items})
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "Queue is empty")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, queueListRow(item))
				}
				fmt.Fprint(out, renderTable(
					[]string{"ID", "Owner", "Status", "Source", "Created", "Error"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "Only show requests for this owner")
	cmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "Filter by status (pending, in_progress, done, failed)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single download request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePositiveIDs(args)
			if err != nil {
				return err
			}
			return ctx.withQueueAccess(cmd, func(session queueaccess.Session) error {
				item, err := session.Access.Describe(cmd.Context(), ids[0])
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("request %d not found", ids[0])
				}
				if jsonOutput {
					return writeJSON(cmd, api.QueueItemResponse{Item: *item})
				}
				printQueueItem(cmd.OutOrStdout(), *item)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newQueueRequeueCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "requeue <id>...",
		Short: "Queue finished requests again as new pending requests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePositiveIDs(args)
			if err != nil {
				return err
			}
			return ctx.withQueueAccess(cmd, func(session queueaccess.Session) error {
				result, err := session.Access.Requeue(cmd.Context(), ids)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				printRequeueResult(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var doneOnly, failedOnly bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove finished requests (done and failed by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var statuses []string
			if doneOnly {
				statuses = append(statuses, "done")
			}
			if failedOnly {
				statuses = append(statuses, "failed")
			}
			return ctx.withQueueAccess(cmd, func(session queueaccess.Session) error {
				removed, err := session.Access.Clear(cmd.Context(), statuses)
				if err != nil {
					return err
				}
				label := "finished"
				if len(statuses) == 1 {
					label = statuses[0]
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d %s %s\n", removed, label, textutil.Ternary(removed == 1, "request", "requests"))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&doneOnly, "done", false, "Only remove done requests")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only remove failed requests")
	return cmd
}

func newQueueHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show queue counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueueAccess(cmd, func(session queueaccess.Session) error {
				health, err := session.Access.Health(cmd.Context())
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Pending", strconv.Itoa(health.Pending)},
					{"In Progress", strconv.Itoa(health.InProgress)},
					{"Done", strconv.Itoa(health.Done)},
					{"Failed", strconv.Itoa(health.Failed)},
					{"Total", strconv.Itoa(health.Total)},
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	}
}

func parsePositiveIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid request id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
