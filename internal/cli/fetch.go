package cli

import (
	"maiq/internal/domain/timetable"

	"github.com/spf13/cobra"
)

func newFetchCommand(e *env) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:       "fetch [today|next]",
		Short:     "Download a timetable page and print the snapshot as JSON",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"today", "next"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(args)
			if err != nil {
				return err
			}
			snapshot, err := e.snapshot(cmd.Context(), mode, source{})
			if err != nil {
				return err
			}
			return printSnapshot(cmd, snapshot, group)
		},
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "Print only this group")
	return cmd
}

func newParseCommand(e *env) *cobra.Command {
	var (
		group string
		src   source
	)

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a saved timetable page and print the snapshot as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := e.snapshot(cmd.Context(), timetable.Today, src)
			if err != nil {
				return err
			}
			return printSnapshot(cmd, snapshot, group)
		},
	}
	src.bind(cmd)
	cmd.Flags().StringVarP(&group, "group", "g", "", "Print only this group")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func printSnapshot(cmd *cobra.Command, s *timetable.Snapshot, group string) error {
	if group == "" {
		return writeJSON(cmd.OutOrStdout(), s)
	}

	g, err := findGroup(s, group)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), s.Tiny(g.Name))
}
