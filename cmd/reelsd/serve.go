package main

import (
	"reelsd/internal/di"

	"github.com/spf13/cobra"
)

func serveRun(_ *cobra.Command, _ []string) error {
	app, cleanup, err := di.InitApp(&flags)
	if err != nil {
		return err
	}
	defer cleanup()
	return app.Run()
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the tracker daemon (default)",
		RunE:  serveRun,
	}
}
