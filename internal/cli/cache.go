package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archrip/archrip/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context())
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	cc, err := c.newCache(ctx, false)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer cc.Close()

	clearer, ok := cc.(cache.Clearer)
	if !ok {
		c.printInfo("Cache does not support clearing")
		return nil
	}
	n, err := clearer.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	c.printSuccess("Cleared %d cached entries", n)
	c.printDetail("Location: %s", c.cacheLocation())
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.Out, c.cacheLocation())
			return nil
		},
	}
}

// cacheLocation is the Redis URL when configured, else the cache directory.
func (c *CLI) cacheLocation() string {
	if c.cfg.Cache.RedisURL != "" {
		return c.cfg.Cache.RedisURL
	}
	dir, err := c.cfg.CacheDir()
	if err != nil {
		return "(unavailable)"
	}
	return dir
}
