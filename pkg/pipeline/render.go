package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/graphprep/pkg/graph/prep"
	pkgio "github.com/matzehuels/graphprep/pkg/io"
	"github.com/matzehuels/graphprep/pkg/render/nodelink"
)

// Render produces the requested formats from a prepared result.
// DOT source is generated once and shared by the DOT and SVG outputs.
func Render(ctx context.Context, res prep.Result, formats []string, detailed bool) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))

	var dot string
	dotSource := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(res, nodelink.Options{Detailed: detailed})
		}
		return dot
	}

	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = encode(res, pkgio.FormatJSON)
		case FormatYAML:
			data, err = encode(res, pkgio.FormatYAML)
		case FormatDOT:
			data = []byte(dotSource())
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dotSource())
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func encode(res prep.Result, f pkgio.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := pkgio.Write(res, &buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
