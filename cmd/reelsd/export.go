package main

import (
	"fmt"
	"path/filepath"
	"reelsd/internal/di"
	"reelsd/internal/scheduler"

	"github.com/spf13/cobra"
)

func exportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a compressed JSON snapshot of the tracker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			core, cleanup, err := di.InitService(&flags)
			if err != nil {
				return err
			}
			defer cleanup()
			defer core.FileManager.Close()

			path := out
			if path == "" {
				dir := core.Config.Export.Dir
				if dir == "" {
					dir = "."
				}
				path = filepath.Join(dir, scheduler.ExportFileName)
			}
			if err = core.FileManager.SaveToFile(path); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Exported to", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <export.dir>/"+scheduler.ExportFileName+")")
	return cmd
}
