package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	perrors "github.com/matzehuels/graphprep/pkg/errors"
	"github.com/matzehuels/graphprep/pkg/graph"
)

// Format names a wire encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned when a format name or file extension is not
// recognized.
var ErrUnknownFormat = errors.New("unknown format")

// InputFormats lists the formats accepted by [Read].
var InputFormats = []string{string(FormatJSON), string(FormatYAML), string(FormatTOML)}

var extFormats = map[string]Format{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
}

// ParseFormat converts a user-supplied name ("json", "yaml", "yml", "toml")
// into a Format. Matching is case-insensitive.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, name)
}

// FormatFromPath detects the format from the file extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: extension %q of %s", ErrUnknownFormat, ext, path)
}

// Read decodes a graph in format f from r and validates it.
// Read does not close r.
func Read(r io.Reader, f Format) (graph.Graph, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	case FormatTOML:
		return ReadTOML(r)
	}
	return graph.Graph{}, fmt.Errorf("%w %q", ErrUnknownFormat, f)
}

// ReadJSON decodes a JSON graph from r. Unknown fields are ignored.
func ReadJSON(r io.Reader) (graph.Graph, error) {
	var g graph.Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return graph.Graph{}, fmt.Errorf("decode json: %w", err)
	}
	return g, validate(g)
}

// ReadYAML decodes a YAML graph from r. An empty document yields an empty graph.
func ReadYAML(r io.Reader) (graph.Graph, error) {
	var g graph.Graph
	if err := yaml.NewDecoder(r).Decode(&g); err != nil && !errors.Is(err, io.EOF) {
		return graph.Graph{}, fmt.Errorf("decode yaml: %w", err)
	}
	return g, validate(g)
}

// ReadTOML decodes a TOML graph from r.
func ReadTOML(r io.Reader) (graph.Graph, error) {
	var g graph.Graph
	if _, err := toml.NewDecoder(r).Decode(&g); err != nil {
		return graph.Graph{}, fmt.Errorf("decode toml: %w", err)
	}
	return g, validate(g)
}

// Import reads the graph file at path. When f is empty the format is taken
// from the file extension.
//
// Failures are returned as coded errors: FILE_NOT_FOUND for a missing file,
// INVALID_FORMAT for an unknown format and INVALID_INPUT for undecodable or
// invalid content.
func Import(path string, f Format) (graph.Graph, error) {
	if err := perrors.ValidateInputPath(path); err != nil {
		return graph.Graph{}, err
	}
	if f == "" {
		var err error
		if f, err = FormatFromPath(path); err != nil {
			return graph.Graph{}, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "cannot detect input format of %s (use --input-format)", path)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return graph.Graph{}, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "input file %s not found", path)
		}
		return graph.Graph{}, fmt.Errorf("read %s: %w", path, err)
	}

	g, err := Read(bytes.NewReader(data), f)
	if err != nil {
		if errors.Is(err, ErrUnknownFormat) {
			return graph.Graph{}, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "unsupported input format %q", f)
		}
		return graph.Graph{}, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid graph in %s", path)
	}
	return g, nil
}

func validate(g graph.Graph) error {
	for i, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: missing id", i)
		}
	}
	for i, e := range g.Links {
		if e.Source == "" || e.Target == "" {
			return fmt.Errorf("link %d: missing endpoint", i)
		}
	}
	return nil
}
