package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/graphprep/pkg/errors"
	"github.com/matzehuels/graphprep/pkg/pipeline"
)

// renderFormats are the diagram formats the render command produces.
var renderFormats = []string{pipeline.FormatSVG, pipeline.FormatDOT}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	inputOpts
	formats  []string // output formats: "svg", "dot"
	output   string   // output file (single format) or base path (multiple)
	detailed bool     // show ids, component indices and degrees in labels
	noCache  bool     // bypass the cache entirely
	refresh  bool     // recompute but still write the cache
}

// renderCommand creates the render command for node-link previews.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a prepared graph as a node-link diagram",
		Long: `Render a node-link preview of a graph: one cluster per connected component,
isolated nodes outside any cluster, and the start node highlighted.`,
		Example: `  graphprep render graph.json
  graphprep render graph.yaml -f svg,dot -o out/graph
  graphprep render graph.json --detailed -o preview.svg
  cat graph.json | graphprep render - -f dot > graph.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				if err := perrors.ValidateFormat("render format", f, renderFormats); err != nil {
					return err
				}
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show ids, components and degrees in labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts *renderOpts) error {
	ctx := cmd.Context()

	g, err := opts.load(cmd, path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	toStdout := path == stdinPath && opts.output == "" && len(opts.formats) == 1

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering...")
	spinner.Start()
	result, err := runner.Execute(ctx, g, pipeline.Options{
		Formats:  opts.formats,
		Detailed: opts.detailed,
		Refresh:  opts.refresh,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("rendered graph", "formats", opts.formats, "cached", result.CacheInfo.RenderHit)

	if toStdout {
		return writeOutput(cmd, "", result.Artifacts[opts.formats[0]])
	}

	base := basePath(opts.output, path)
	printSuccess("Rendered graph")
	printStats(result.Stats, result.CacheInfo.RenderHit)
	for _, format := range opts.formats {
		out := outputPath(opts.output, base, format, len(opts.formats))
		if err := writeOutput(cmd, out, result.Artifacts[format]); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		printFile(out)
	}
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// basePath returns the output path without extension. Without --output it is
// derived from the input file name, and stdin input renders to "graph".
func basePath(output, input string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	if input == stdinPath {
		return "graph"
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// outputPath returns the file for one format. A single format written to an
// explicit --output keeps that exact name.
func outputPath(output, base, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	return base + "." + format
}
