package cli

import (
	"os"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/graphprep/pkg/errors"
	"github.com/matzehuels/graphprep/pkg/graph"
	pkgio "github.com/matzehuels/graphprep/pkg/io"
)

// stdinPath reads the graph from standard input.
const stdinPath = "-"

// inputOpts holds the flags shared by commands that read a graph.
type inputOpts struct {
	inputFormat string // forced input format; detected from the extension when empty
	directed    bool   // override the file's directed flag
	start       string // override the file's start node
}

func (o *inputOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.inputFormat, "input-format", "", "input format: json, yaml, toml (default: from file extension, json for stdin)")
	cmd.Flags().BoolVar(&o.directed, "directed", false, "treat links as directed (overrides the file)")
	cmd.Flags().StringVar(&o.start, "start", "", "start node id (overrides the file)")
}

// load reads the graph at path ("-" for stdin) and applies flag overrides.
// --directed only applies when given explicitly so that --directed=false can
// turn a directed file undirected.
func (o *inputOpts) load(cmd *cobra.Command, path string) (graph.Graph, error) {
	var format pkgio.Format
	if o.inputFormat != "" {
		f, err := pkgio.ParseFormat(o.inputFormat)
		if err != nil {
			return graph.Graph{}, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "unsupported input format %q (want one of json, yaml, toml)", o.inputFormat)
		}
		format = f
	}

	var g graph.Graph
	var err error
	if path == stdinPath {
		if format == "" {
			format = pkgio.FormatJSON
		}
		g, err = pkgio.Read(cmd.InOrStdin(), format)
		if err != nil {
			err = perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid graph on stdin")
		}
	} else {
		g, err = pkgio.Import(path, format)
	}
	if err != nil {
		return graph.Graph{}, err
	}

	if cmd.Flags().Changed("directed") {
		g.Directed = o.directed
	}
	if o.start != "" {
		g.StartNode = o.start
	}
	return g, nil
}

// writeOutput writes data to path, or to the command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
