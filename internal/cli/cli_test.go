package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/graphprep/pkg/errors"
)

const sampleGraph = `{
  "nodes": [{"id": "A"}, {"id": "B"}, {"id": "C"}, {"id": "solo"}],
  "links": [{"source": "A", "target": "B"}, {"source": "B", "target": "C"}]
}`

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cfg := writeConfig(t, `cache_backend = "none"`)

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeGraph(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	want := []string{"prepare", "render", "serve", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestPrepareCommand(t *testing.T) {
	path := writeGraph(t, "graph.json", sampleGraph)

	out, err := runCLI(t, "", "prepare", path)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}

	var res struct {
		Start      string              `json:"start"`
		Adjacency  map[string][]string `json:"adjacency"`
		Components [][]struct {
			ID string `json:"id"`
		} `json:"components"`
		Isolated []struct {
			ID string `json:"id"`
		} `json:"isolated"`
		Edges []struct {
			Source string `json:"source"`
			Target string `json:"target"`
		} `json:"edges"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if res.Start != "A" {
		t.Errorf("start = %q, want A", res.Start)
	}
	if got := res.Adjacency["B"]; len(got) != 2 {
		t.Errorf("adjacency[B] = %v, want two neighbors", got)
	}
	if len(res.Components) != 1 || len(res.Isolated) != 1 || len(res.Edges) != 2 {
		t.Errorf("components=%d isolated=%d edges=%d", len(res.Components), len(res.Isolated), len(res.Edges))
	}
}

func TestPrepareCommandStdin(t *testing.T) {
	out, err := runCLI(t, sampleGraph, "prepare", "-", "--directed", "--start", "B", "-f", "yaml")
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	for _, want := range []string{"directed: true", "start: B", "start_resolved: false"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrepareCommandYAMLInput(t *testing.T) {
	path := writeGraph(t, "graph.yaml", `
nodes:
  - id: x
  - id: y
links:
  - {source: x, target: y}
`)
	out, err := runCLI(t, "", "prepare", path)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if !strings.Contains(out, `"start": "x"`) {
		t.Errorf("output:\n%s", out)
	}
}

func TestPrepareCommandOutputFile(t *testing.T) {
	path := writeGraph(t, "graph.json", sampleGraph)
	dest := filepath.Join(t.TempDir(), "prepared.json")

	out, err := runCLI(t, "", "prepare", path, "-o", dest)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if out != "" {
		t.Errorf("stdout should be empty with -o, got %q", out)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Errorf("output file is not JSON:\n%s", data)
	}
}

func TestPrepareCommandErrors(t *testing.T) {
	path := writeGraph(t, "graph.json", sampleGraph)

	tests := []struct {
		name string
		args []string
		code perrors.Code
	}{
		{"output format", []string{"prepare", path, "-f", "svg"}, perrors.ErrCodeInvalidFormat},
		{"input format", []string{"prepare", path, "--input-format", "xml"}, perrors.ErrCodeInvalidFormat},
		{"missing file", []string{"prepare", filepath.Join(t.TempDir(), "none.json")}, perrors.ErrCodeFileNotFound},
		{"bad graph", []string{"prepare", writeGraph(t, "bad.json", `{"nodes": [{"id": ""}]}`)}, perrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", tt.args...)
			if !perrors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := runCLI(t, sampleGraph, "prepare", "-", "--watch"); err == nil {
		t.Error("--watch on stdin should fail")
	}
}

func TestRenderCommandDOT(t *testing.T) {
	path := writeGraph(t, "graph.json", sampleGraph)
	dest := filepath.Join(t.TempDir(), "preview.dot")

	if _, err := runCLI(t, "", "render", path, "-f", "dot", "--detailed", "-o", dest); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	dot := string(data)
	for _, want := range []string{"graph G", "subgraph cluster_0", `"A" -- "B"`, "degree: 2"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestRenderCommandStdout(t *testing.T) {
	out, err := runCLI(t, sampleGraph, "render", "-", "-f", "dot")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "graph G {") {
		t.Errorf("stdout = %q", out)
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	path := writeGraph(t, "graph.json", sampleGraph)
	_, err := runCLI(t, "", "render", path, "-f", "png")
	if !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"dot", []string{"dot"}},
		{"svg, dot", []string{"svg", "dot"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, format string
		count                 int
		want                  string
	}{
		{"", "dir/graph.json", "svg", 1, "dir/graph.svg"},
		{"out.svg", "graph.json", "svg", 1, "out.svg"},
		{"out/base.svg", "graph.json", "dot", 2, "out/base.dot"},
		{"", stdinPath, "svg", 2, "graph.svg"},
	}
	for _, tt := range tests {
		base := basePath(tt.output, tt.input)
		if got := outputPath(tt.output, base, tt.format, tt.count); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %d) = %q, want %q", tt.output, tt.input, tt.format, tt.count, got, tt.want)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := runCLI(t, "", "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, appName) {
			t.Errorf("completion %s output does not mention %s", shell, appName)
		}
	}
	if _, err := runCLI(t, "", "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestCachePathCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	out, err := runCLI(t, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg-cache", appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cfg := writeConfig(t, `cache_backend = "file"`)
	path := writeGraph(t, "graph.json", sampleGraph)

	run := func(args ...string) {
		t.Helper()
		root := New(io.Discard, log.InfoLevel).RootCommand()
		root.SetOut(io.Discard)
		root.SetArgs(append([]string{"--config", cfg}, args...))
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}
	run("prepare", path)

	dir, _ := cacheDir()
	entries, _ := os.ReadDir(dir)
	if len(entries) == 0 {
		t.Fatal("prepare did not populate the file cache")
	}

	buf := captureUI(t)
	run("cache", "clear")
	if !strings.Contains(buf.String(), "Cleared") {
		t.Errorf("clear output = %q", buf.String())
	}
	entries, _ = os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}
}
