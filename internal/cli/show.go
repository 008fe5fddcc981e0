package cli

import (
	"fmt"
	"strings"

	"maiq/internal/domain/defaults"
	"maiq/internal/domain/timetable"
	"maiq/internal/formatter"

	"github.com/spf13/cobra"
)

func newShowCommand(e *env) *cobra.Command {
	var (
		group string
		src   source
	)

	cmd := &cobra.Command{
		Use:       "show [today|next]",
		Short:     "Print the timetable as tables",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"today", "next"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(args)
			if err != nil {
				return err
			}
			snapshot, err := e.snapshot(cmd.Context(), mode, src)
			if err != nil {
				return err
			}

			groups := make([]*timetable.Group, 0, len(snapshot.Groups))
			if group != "" {
				g, err := findGroup(snapshot, group)
				if err != nil {
					return err
				}
				groups = append(groups, g)
			} else {
				for i := range snapshot.Groups {
					groups = append(groups, &snapshot.Groups[i])
				}
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), renderSnapshot(snapshot, groups))
			return err
		},
	}
	src.bind(cmd)
	cmd.Flags().StringVarP(&group, "group", "g", "", "Show only this group")
	return cmd
}

func newDefaultsCommand(e *env) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "defaults <weekday>",
		Short: "Print the regular (default) timetable for a weekday",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weekday, err := defaults.ParseWeekday(args[0])
			if err != nil {
				return err
			}

			names := e.schedule.GroupNames(weekday)
			if group != "" {
				names = []string{group}
			}

			groups := make([]defaults.Group, 0, len(names))
			for _, name := range names {
				g, ok := e.schedule.Day(weekday, name)
				if !ok {
					return fmt.Errorf("no default timetable for %s on %s", name, weekday)
				}
				groups = append(groups, g)
			}

			day := strings.ToLower(formatter.WeekdayName(weekday))
			_, err = fmt.Fprint(cmd.OutOrStdout(), renderDefaults(day, groups))
			return err
		},
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "Show only this group")
	return cmd
}
