package main

import (
	"fmt"
	"reelsd/internal/di"

	"github.com/spf13/cobra"
)

func resetCommand() *cobra.Command {
	var (
		pin        string
		keepLimits bool
		todayOnly  bool
	)
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all tracking data, or only today's counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			core, cleanup, err := di.InitService(&flags)
			if err != nil {
				return err
			}
			defer cleanup()

			if todayOnly {
				if _, err = core.Service.ResetToday(pin); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Today's counters reset")
				return nil
			}
			if _, err = core.Service.ResetAll(pin, keepLimits); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data reset")
			return nil
		},
	}
	cmd.Flags().StringVar(&pin, "pin", "", "parental lock PIN")
	cmd.Flags().BoolVar(&keepLimits, "keep-limits", false, "keep the configured daily limits")
	cmd.Flags().BoolVar(&todayOnly, "today", false, "only zero today's counters")
	return cmd
}
