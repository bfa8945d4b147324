package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphscope/internal/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage persisted position snapshots",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every position snapshot in the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if c.config.Cache.Backend == config.CacheNone {
				printInfo("Snapshots are disabled")
				return nil
			}

			store, err := c.openStore(ctx, false)
			if err != nil {
				return fmt.Errorf("open snapshot store: %w", err)
			}
			defer store.Close()

			if err := store.Clear(ctx); err != nil {
				return fmt.Errorf("clear snapshots: %w", err)
			}
			printSuccess("Cleared position snapshots")
			printDetail("Store: %s", c.storeLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where position snapshots are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(c.storeLocation())
			return nil
		},
	}
}

// storeLocation describes the configured store: a directory, a redis URL
// or "none".
func (c *CLI) storeLocation() string {
	switch c.config.Cache.Backend {
	case config.CacheNone:
		return config.CacheNone
	case config.CacheRedis:
		return "redis://" + c.config.Cache.RedisAddr + "/" + redisPrefix
	default:
		dir, err := c.snapshotDir()
		if err != nil {
			return config.CacheNone
		}
		return dir
	}
}
