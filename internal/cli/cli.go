// Package cli implements the archrip command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/archrip/archrip/internal/config"
	"github.com/archrip/archrip/pkg/buildinfo"
	"github.com/archrip/archrip/pkg/cache"
	"github.com/archrip/archrip/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// defaultDocument is read when no document argument is given.
	defaultDocument = ".archrip/architecture.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives user-facing status lines. Logs go to Logger.
	Out io.Writer

	errOut     io.Writer
	configFile string
	cfg        *config.Config
}

// New creates a CLI writing status lines to out and logs to logw.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(logw, level),
		Out:    out,
		errOut: logw,
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "archrip lays out software architecture diagrams",
		Long: `archrip reads an architecture document (components, their categories and
dependencies) and computes diagram layouts: a layered top-down view or
concentric rings ordered by category, at three levels of detail.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: ./archrip.toml or $XDG_CONFIG_HOME/archrip/config.toml)")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, path, err := config.Load(config.LoadOptions{File: c.configFile})
	if err != nil {
		return err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return c.runnerFor(cc), nil
}

// runnerFor scopes layout keys by project when the cache is shared.
func (c *CLI) runnerFor(cc cache.Cache) *pipeline.Runner {
	r := pipeline.NewRunner(cc, nil, c.Logger)
	_, r.ScopeProjects = cc.(*cache.RedisCache)
	return r
}

// newCache picks Redis when a URL is configured, the file cache otherwise.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if url := c.cfg.Cache.RedisURL; url != "" {
		rc, err := cache.NewRedisCache(ctx, url)
		if err != nil {
			c.Logger.Warn("redis unavailable, using file cache", "err", err)
		} else {
			return rc, nil
		}
	}
	dir, err := c.cfg.CacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Arguments
// =============================================================================

// documentPath returns the document argument or the default location.
func documentPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return defaultDocument
}

// outputPath derives "<input base><suffix>" when output is empty.
func outputPath(output, input, suffix string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// writeOutput writes data to path, or to Out for "-".
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
