package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphprep/pkg/graph"
	"github.com/matzehuels/graphprep/pkg/graph/prep"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node id, component index and out-degree to labels.
	// When false, only the display label is shown.
	Detailed bool
}

const startFill = "#fde68a"

// ToDOT converts a prepared result to Graphviz DOT source.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Components become clusters in component order. Isolated nodes follow the
// clusters. Edge endpoints that are not part of any component or the isolated
// list are left for Graphviz to create implicitly.
func ToDOT(res prep.Result, opts Options) string {
	kind, arrow := "graph", "--"
	if res.Directed {
		kind, arrow = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for i, c := range res.Components {
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("component %d", i))
		buf.WriteString("    style=dashed;\n")
		buf.WriteString("    color=grey;\n")
		for _, n := range c {
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(nodeAttrs(res, n, i, opts), ", "))
		}
		buf.WriteString("  }\n")
	}

	if len(res.Isolated) > 0 {
		buf.WriteString("\n")
		for _, n := range res.Isolated {
			fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(res, n, -1, opts), ", "))
		}
	}

	if len(res.Edges) > 0 {
		buf.WriteString("\n")
		for _, e := range res.Edges {
			fmt.Fprintf(&buf, "  %q %s %q;\n", e.Source, arrow, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(res prep.Result, n graph.Node, component int, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(res, n, component, opts.Detailed))}
	if n.ID == res.Start {
		attrs = append(attrs, "penwidth=3", fmt.Sprintf("fillcolor=%q", startFill))
	}
	if n.HasPosition() {
		attrs = append(attrs, fmt.Sprintf("pos=%q", fmt.Sprintf("%g,%g", *n.X, *n.Y)))
	}
	return attrs
}

func fmtLabel(res prep.Result, n graph.Node, component int, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}

	parts := []string{"id: " + n.ID}
	if component >= 0 {
		parts = append(parts, fmt.Sprintf("component: %d", component))
	} else {
		parts = append(parts, "isolated")
	}
	parts = append(parts, fmt.Sprintf("degree: %d", res.Adjacency.OutDegree(n.ID)))
	return label + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one so the SVG scales inside web pages.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}
