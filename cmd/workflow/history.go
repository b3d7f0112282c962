package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	wfjson "github.com/fwojciec/workflow/json"
	"github.com/fwojciec/workflow/store"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage stored chat histories",
		Long: `Chat histories are keyed by conversation: workflow-<task id> for task
chats and agent-<name> for agent chats.`,
	}
	cmd.AddCommand(
		newHistoryListCmd(a),
		newHistoryExportCmd(a),
		newHistoryImportCmd(a),
		newHistoryClearCmd(a),
	)
	return cmd
}

func newHistoryListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored histories, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, _, _, err := a.stores()
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := db.List(cmd.Context(), store.HistoryKey(""))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tSIZE\tUPDATED")
			for _, e := range entries {
				key := strings.TrimPrefix(e.Key, store.HistoryKey(""))
				fmt.Fprintf(tw, "%s\t%s\t%s\n", key, humanize.Bytes(uint64(e.Size)), humanize.Time(e.UpdatedAt))
			}
			return tw.Flush()
		},
	}
}

func newHistoryExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export KEY",
		Short: "Write a history as JSON to stdout or a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, histories, err := a.stores()
			if err != nil {
				return err
			}
			defer db.Close()

			h, err := histories.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out != "" {
				return wfjson.Save(out, h)
			}
			data, err := wfjson.MarshalHistory(h)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file")
	return cmd
}

func newHistoryImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace a stored history with an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := wfjson.Load(args[0])
			if err != nil {
				return err
			}
			if h.Key == "" {
				return fmt.Errorf("%s: history has no key", args[0])
			}
			db, _, histories, err := a.stores()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := histories.Save(cmd.Context(), h); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%d messages)\n", h.Key, len(h.Messages))
			return nil
		},
	}
}

func newHistoryClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear KEY",
		Short: "Delete a stored history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, histories, err := a.stores()
			if err != nil {
				return err
			}
			defer db.Close()
			return histories.ClearHistory(cmd.Context(), args[0])
		},
	}
}
