package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fwojciec/workflow"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

const titleWidth = 40

func newItemsCmd(a *app) *cobra.Command {
	var bookmarked bool
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List setup tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, items, histories, err := a.stores()
			if err != nil {
				return err
			}
			defer db.Close()

			list, err := items.LoadItems(ctx)
			if err != nil {
				return err
			}
			if bookmarked {
				list = workflow.FilterBookmarked(list)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\t\tTITLE\tLAST CHAT")
			for _, it := range list {
				mark := ""
				if it.Bookmarked {
					mark = "*"
				}
				last := "never"
				if h, err := histories.Load(ctx, workflow.WorkflowChatKey(it.ID)); err == nil && !h.UpdatedAt.IsZero() {
					last = humanize.Time(h.UpdatedAt)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", it.ID, it.Status, mark,
					runewidth.Truncate(it.Title, titleWidth, "…"), last)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&bookmarked, "bookmarked", false, "Only bookmarked tasks")
	return cmd
}
