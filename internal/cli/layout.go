package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archrip/archrip/pkg/graph"
	"github.com/archrip/archrip/pkg/pipeline"
)

// layoutCommand creates the layout command for computing a single view.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		opts    pipeline.Options
	)
	opts.Depth = graph.DepthDetail

	cmd := &cobra.Command{
		Use:   "layout [architecture.json]",
		Short: "Compute one view of an architecture document",
		Long: `Compute one view of an architecture document: reduce it to the requested
depth, then place it with the dagre (layered) or concentric layout.

The output is a JSON view holding the reduced nodes, edges and their
positions. Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Params = c.cfg.Layout
			return c.runLayout(cmd.Context(), documentPath(args), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.view.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&opts.Layout, "type", "t", "", "layout: dagre, concentric (default: project setting)")
	cmd.Flags().IntVarP(&opts.Depth, "depth", "d", opts.Depth, "depth level: 0 overview, 1 standard, 2 detail")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := graph.ReadFile(input)
	if err != nil {
		return err
	}
	if err := graph.Validate(doc).Err(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	kind := opts.Kind(doc)

	spinner := c.spinner(ctx, fmt.Sprintf("Computing %s layout...", kind))
	v, hit, err := runner.View(ctx, doc, kind, opts.Depth, opts)
	spinner.Stop()
	if err != nil {
		c.printError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}

	data, _, err := runner.Render(ctx, v, pipeline.FormatJSON, "")
	if err != nil {
		return err
	}
	path := outputPath(output, input, ".view.json")
	if err := c.writeOutput(path, data); err != nil {
		return err
	}
	if path == "-" {
		return nil
	}

	c.printSuccess("Layout complete")
	c.printFile(path)
	c.printStats(len(v.Nodes), len(v.Edges), hit)
	return nil
}
