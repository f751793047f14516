package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archrip/archrip/pkg/graph"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [architecture.json]",
		Short: "Check an architecture document for errors",
		Long: `Check an architecture document for structural errors: missing or duplicate
ids, unknown edge endpoints, out-of-range layers and depths, dependency
cycles and similar. Orphan nodes are reported as warnings.

With --strict, warnings fail the command too.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(documentPath(args), strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}

func (c *CLI) runValidate(input string, strict bool) error {
	doc, err := graph.ReadFile(input)
	if err != nil {
		return err
	}

	report := graph.Validate(doc)
	c.printIssues(report)

	if err := report.Err(); err != nil {
		return err
	}
	if strict && len(report.Warnings) > 0 {
		return fmt.Errorf("%d warning(s) in strict mode", len(report.Warnings))
	}

	c.printSuccess("%s is valid", input)
	c.printStats(len(doc.Nodes), len(doc.Edges), false)
	return nil
}
