package cli

import (
	"fmt"
	"io"
	"os"

	"maiq/internal/exporter"

	"github.com/spf13/cobra"
)

func newICalCommand(e *env) *cobra.Command {
	var (
		group string
		out   string
		src   source
	)

	cmd := &cobra.Command{
		Use:       "ical [today|next]",
		Short:     "Export a group's lessons to an .ics calendar",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"today", "next"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(args)
			if err != nil {
				return err
			}

			bells, err := exporter.ParseBells(e.cfg.Bells)
			if err != nil {
				return fmt.Errorf("invalid BELLS: %w", err)
			}

			snapshot, err := e.snapshot(cmd.Context(), mode, src)
			if err != nil {
				return err
			}
			g, err := findGroup(snapshot, group)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				if out == "" {
					out = fmt.Sprintf("%s_%s.ics", g.Name, snapshot.Date.Format("2006-01-02"))
				}
				file, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer file.Close()
				w = file
			}

			if err := exporter.WriteICS(w, snapshot, g.Name, bells, e.loc); err != nil {
				return fmt.Errorf("failed to generate ICS: %w", err)
			}

			if out != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d lessons of %s to %s\n", len(g.Lessons), g.Name, out)
			}
			return nil
		},
	}
	src.bind(cmd)
	cmd.Flags().StringVarP(&group, "group", "g", "", "Group to export")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, \"-\" for stdout (default <group>_<date>.ics)")
	_ = cmd.MarkFlagRequired("group")
	return cmd
}
