// cmd/history.go
package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/David-Botos/raw-to-ready/pkg/history"
	"github.com/David-Botos/raw-to-ready/pkg/metrics"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, rename or delete recorded cleaning runs",
	}
	cmd.AddCommand(
		newHistoryListCmd(a),
		newHistoryRenameCmd(a),
		newHistoryDeleteCmd(a),
	)
	return cmd
}

func newHistoryListCmd(a *app) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the runs of an owner, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner == "" {
				return errors.New("--owner is required")
			}
			var entries []history.Entry
			err := a.withHistory(func(store *history.Store) (err error) {
				entries, err = store.List(cmd.Context(), owner)
				return err
			})
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no history)")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFILE\tROWS\tNULLS\tDUPLICATES\tANOMALIES\tCREATED")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%d (%s)\t%d (%s)\t%d (%s)\t%d\t%s\n",
					e.ID,
					e.Filename,
					e.RowsAfter, metrics.StatusText(e.RowsDelta(), metrics.ToneNeutral),
					e.NullsAfter, metrics.StatusText(e.NullsFixed(), metrics.ToneGood),
					e.DuplicatesAfter, metrics.StatusText(e.DuplicatesFixed(), metrics.ToneGood),
					e.AnomaliesDetected,
					e.CreatedAt.Local().Format(time.DateTime))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner whose runs are listed")
	return cmd
}

func newHistoryRenameCmd(a *app) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "rename <id> <filename>",
		Short: "Change the file name recorded for one of your runs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner == "" {
				return errors.New("--owner is required")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withHistory(func(store *history.Store) error {
				if err := store.Rename(cmd.Context(), owner, id, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed entry %d to %s\n", id, args[1])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner of the run")
	return cmd
}

func newHistoryDeleteCmd(a *app) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your recorded runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner == "" {
				return errors.New("--owner is required")
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withHistory(func(store *history.Store) error {
				if err := store.Delete(cmd.Context(), owner, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d\n", id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner of the run")
	return cmd
}

func (a *app) withHistory(fn func(*history.Store) error) error {
	store, err := a.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid history id %q", s)
	}
	return id, nil
}
