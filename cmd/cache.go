package cmd

import (
	"errors"
	"fmt"

	"entity-store/core/cache"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Snapshot cache maintenance",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every cached snapshot under the configured prefix",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		storage, err := openCache(cmd.Context(), cfg, logg)
		if err != nil {
			return err
		}
		if storage == nil {
			return errors.New("no cache backend configured")
		}
		if cfg.Cache.Backend == cache.BackendMemory {
			logg.Warn("Memory cache does not outlive the process, nothing to purge")
		}

		n, err := storage.Purge(cmd.Context(), cfg.Cache.Prefix)
		if err != nil {
			return err
		}
		logg.Info("Purged cache", zap.String("prefix", cfg.Cache.Prefix), zap.Int("snapshots", n))
		fmt.Fprintf(cmd.OutOrStdout(), "purged %d snapshots\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePurgeCmd)
	RootCmd.AddCommand(cacheCmd)
}
