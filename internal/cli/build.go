package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/archrip/archrip/internal/server"
	"github.com/archrip/archrip/internal/watch"
	"github.com/archrip/archrip/pkg/graph"
	"github.com/archrip/archrip/pkg/pipeline"
)

// buildOpts holds the flags of the build command.
type buildOpts struct {
	outDir  string
	views   bool
	watch   bool
	noCache bool
	refresh bool
	formats []string
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build [architecture.json]",
		Short: "Validate and lay out a document for the viewer",
		Long: `Validate an architecture document, compute its layout and write the
result to the output directory as architecture.json with _layout (node
positions) and _build metadata filled in.

With --views every depth level and layout kind is precomputed into _views.
With --format, the full view is also drawn as SVG or DOT next to it.
With --watch, the document is rebuilt whenever it changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := documentPath(args)
			if opts.outDir == "" {
				opts.outDir = filepath.Join(filepath.Dir(input), "dist")
			}
			return c.runBuild(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "output", "o", "", "output directory (default: <input dir>/dist)")
	cmd.Flags().BoolVar(&opts.views, "views", false, "precompute every depth and layout kind")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "rebuild when the document changes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", nil, "also render the full view: svg, dot")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, input string, opts buildOpts) error {
	for _, f := range opts.formats {
		if err := pipeline.ValidateFormat(f); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if err := c.buildOnce(ctx, runner, input, opts); err != nil {
		if !opts.watch {
			return err
		}
		c.printError("%v", err)
	}
	if !opts.watch {
		return nil
	}

	w, err := watch.New(watch.Config{
		Paths:  []string{input},
		Logger: c.Logger,
		OnChange: func(ctx context.Context, _ []string) error {
			return c.buildOnce(ctx, runner, input, opts)
		},
	})
	if err != nil {
		return err
	}
	c.printInfo("Watching %s (Ctrl+C to stop)", input)
	return w.Run(ctx)
}

// buildOnce reads, builds and writes one document.
func (c *CLI) buildOnce(ctx context.Context, runner *pipeline.Runner, input string, opts buildOpts) error {
	prog := newProgress(c.Logger)

	doc, err := graph.ReadFile(input)
	if err != nil {
		return err
	}

	spinner := c.spinner(ctx, "Building "+input+"...")
	res, err := runner.Build(ctx, doc, pipeline.Options{
		Views:   opts.views,
		Refresh: opts.refresh,
		Params:  c.cfg.Layout,
	})
	spinner.Stop()
	if err != nil {
		if rep := graph.Validate(doc); !rep.OK() {
			c.printIssues(rep)
		}
		return err
	}
	for _, w := range res.Report.Warnings {
		c.printWarning("%s", w)
	}

	out := filepath.Join(opts.outDir, server.DocumentName)
	if err := graph.WriteFile(res.Document, out); err != nil {
		return err
	}

	var rendered []string
	if len(opts.formats) > 0 {
		viewOpts := pipeline.Options{Params: c.cfg.Layout}
		v, _, err := runner.View(ctx, doc, viewOpts.Kind(doc), graph.DepthDetail, viewOpts)
		if err != nil {
			return err
		}
		files, err := runner.RenderAll(ctx, v, doc.Project.Name, pipeline.Options{Formats: opts.formats})
		if err != nil {
			return err
		}
		for _, f := range opts.formats {
			path := filepath.Join(opts.outDir, "architecture."+f)
			if err := c.writeOutput(path, files[f]); err != nil {
				return err
			}
			rendered = append(rendered, path)
		}
	}

	prog.done("build finished", "project", doc.Project.Name)
	c.printSuccess("Built %s", doc.Project.Name)
	c.printFile(out)
	for _, p := range rendered {
		c.printFile(p)
	}
	c.printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.Misses == 0)
	if res.Stats.ViewCount > 0 {
		c.printDetail("%d views precomputed", res.Stats.ViewCount)
	}
	if !opts.watch {
		c.printNewline()
		c.printNextStep("Preview", appName+" serve "+opts.outDir)
	}
	return nil
}
