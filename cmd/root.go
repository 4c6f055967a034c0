package cmd

import (
	"fmt"
	"os"

	"entity-store/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "entity-store",
	Short: "Schema-driven entity store",
	Long: `entity-store keeps a normalized, in-memory copy of the records served by a
REST API, driven by a schema of types and relations. It can serve the store
over HTTP, fetch single types and validate schema files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// configPath is the directory holding .env and config.yaml.
var configPath string

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// console + debug config gives readable ISO8601 output for a CLI
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config-dir", ".", "directory holding .env and config.yaml")
}
