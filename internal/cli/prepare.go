package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/graphprep/pkg/io"
	"github.com/matzehuels/graphprep/pkg/pipeline"
)

// prepareOpts holds the command-line flags for the prepare command.
type prepareOpts struct {
	inputOpts
	format  string // output encoding: json or yaml
	output  string // output file; stdout when empty
	noCache bool   // bypass the cache entirely
	refresh bool   // recompute but still write the cache
	watch   bool   // re-run whenever the input file changes
}

// prepareCommand creates the prepare command.
func (c *CLI) prepareCommand() *cobra.Command {
	opts := prepareOpts{format: pipeline.FormatJSON}

	cmd := &cobra.Command{
		Use:   "prepare [file]",
		Short: "Compute layout-ready data for a graph",
		Long: `Compute the adjacency map, start node, connected components, isolated
nodes and render-ready edge list of a graph file.

The input is JSON, YAML or TOML with "nodes" and "links". Use "-" to read
from stdin.`,
		Example: `  graphprep prepare graph.json
  graphprep prepare graph.yaml --format yaml -o prepared.yaml
  cat graph.json | graphprep prepare - --directed --start root
  graphprep prepare graph.json -o prepared.json --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pkgio.ValidateOutputFormat(opts.format); err != nil {
				return err
			}
			if opts.watch && args[0] == stdinPath {
				return fmt.Errorf("--watch needs a file, not stdin")
			}
			return c.runPrepare(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, yaml")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-run when the input file changes")

	return cmd
}

func (c *CLI) runPrepare(cmd *cobra.Command, path string, opts *prepareOpts) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if err := c.prepareOnce(ctx, cmd, runner, path, opts); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	c.Logger.Info("watching for changes", "file", path)
	stop, err := pkgio.Watch(ctx, path, func() {
		if err := c.prepareOnce(ctx, cmd, runner, path, opts); err != nil {
			c.Logger.Error("prepare failed", "file", path, "error", err)
		}
	})
	if err != nil {
		return err
	}
	defer stop()

	<-ctx.Done()
	return ctx.Err()
}

func (c *CLI) prepareOnce(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, path string, opts *prepareOpts) error {
	prog := newProgress(c.Logger)

	g, err := opts.load(cmd, path)
	if err != nil {
		return err
	}

	result, err := runner.Execute(ctx, g, pipeline.Options{
		Formats: []string{opts.format},
		Refresh: opts.refresh,
	})
	if err != nil {
		return err
	}

	if err := writeOutput(cmd, opts.output, result.Artifacts[opts.format]); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	prog.done("prepared graph",
		"nodes", result.Stats.NodeCount,
		"components", result.Stats.ComponentCount,
		"cached", result.CacheInfo.PrepareHit)
	if opts.output != "" {
		printSuccess("Prepared graph")
		printStats(result.Stats, result.CacheInfo.PrepareHit)
		printFile(opts.output)
		if path != stdinPath && !opts.watch {
			printNextStep("Preview it", appName+" render "+path)
		}
	}
	return nil
}
