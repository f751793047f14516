package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archrip/archrip/pkg/graph"
	"github.com/archrip/archrip/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string
	format  string
	layout  string
	depth   int
	noCache bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: pipeline.DefaultFormat, depth: graph.DepthDetail}

	cmd := &cobra.Command{
		Use:   "render [architecture.json]",
		Short: "Draw a view as SVG or Graphviz DOT",
		Long: `Draw one view of an architecture document with every node pinned to its
computed position and coloured by category. DOT output can be fed to
"neato -n"; SVG is produced with the embedded Graphviz.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), documentPath(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: <input>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot, json")
	cmd.Flags().StringVarP(&opts.layout, "type", "t", "", "layout: dagre, concentric (default: project setting)")
	cmd.Flags().IntVarP(&opts.depth, "depth", "d", opts.depth, "depth level: 0 overview, 1 standard, 2 detail")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	doc, err := graph.ReadFile(input)
	if err != nil {
		return err
	}
	if err := graph.Validate(doc).Err(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := pipeline.Options{Layout: opts.layout, Params: c.cfg.Layout}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	spinner := c.spinner(ctx, "Rendering "+opts.format+"...")
	v, layoutHit, err := runner.View(ctx, doc, popts.Kind(doc), opts.depth, popts)
	if err != nil {
		spinner.Stop()
		return fmt.Errorf("compute layout: %w", err)
	}
	data, renderHit, err := runner.Render(ctx, v, opts.format, doc.Project.Name)
	spinner.Stop()
	if err != nil {
		return err
	}
	c.Logger.Debug("rendered", "format", opts.format, "bytes", len(data))

	path := outputPath(opts.output, input, "."+opts.format)
	if err := c.writeOutput(path, data); err != nil {
		return err
	}
	if path == "-" {
		return nil
	}

	c.printSuccess("Rendered %s view (depth %d)", v.Layout, v.Depth)
	c.printFile(path)
	c.printStats(len(v.Nodes), len(v.Edges), layoutHit && (renderHit || opts.format != pipeline.FormatSVG))
	return nil
}
