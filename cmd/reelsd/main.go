package main

import (
	"fmt"
	"os"
	"reelsd/internal/structures"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const (
	programName       = "reelsd"
	defaultConfigPath = "config/config.yaml"
)

var flags = structures.CliFlags{}

func commonRun(cmd *cobra.Command, _ []string) error {
	// a missing .env is fine, a broken one is not
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	if _, err := maxprocs.Set(); err != nil {
		return fmt.Errorf("set GOMAXPROCS: %w", err)
	}
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:               programName,
		Short:             "Reels counter daemon",
		SilenceUsage:      true,
		PersistentPreRunE: commonRun,
		RunE:              serveRun,
	}

	rootCmd.PersistentFlags().
		BoolVarP(&flags.DebugMode, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVarP(&flags.ConfigPath, "config", "c", defaultConfigPath, "path to config file")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(statusCommand())
	rootCmd.AddCommand(resetCommand())
	rootCmd.AddCommand(exportCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
