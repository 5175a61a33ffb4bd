package cli

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphprep/internal/server"
	"github.com/matzehuels/graphprep/pkg/observability"
	"github.com/matzehuels/graphprep/pkg/pipeline"
)

const pingTimeout = 3 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	noCache   bool
	noMetrics bool
	maxBody   int64
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the preparation pipeline over HTTP",
		Long: `Serve the preparation pipeline over HTTP.

Routes:
  POST /v1/prepare   graph in, prepared result out (JSON or YAML)
  POST /v1/render    graph in, DOT or SVG preview out
  GET  /healthz      liveness
  GET  /metrics      Prometheus metrics`,
		Example: `  graphprep serve
  graphprep serve --addr :9090 --no-cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "do not expose /metrics")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	addr := opts.addr
	if addr == "" {
		addr = c.Config.ListenAddr
	}
	c.Logger.Debug("config", "effective", c.Config.String())

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()
	c.pingCache(ctx, runner)

	cfg := server.Config{
		Runner:       runner,
		Logger:       c.Logger,
		MaxBodyBytes: opts.maxBody,
	}
	if !opts.noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		observability.NewPrometheusHooks(reg).Register()
		defer observability.Reset()
		cfg.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	return server.ListenAndServe(ctx, addr, server.New(cfg), c.Logger)
}

// pingCache checks a remote cache at startup. An unreachable cache is not
// fatal: the runner recomputes on every cache error.
func (c *CLI) pingCache(ctx context.Context, runner *pipeline.Runner) {
	p, ok := runner.Cache.(interface{ Ping(context.Context) error })
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		c.Logger.Warn("cache unreachable, serving uncached", "error", err)
		return
	}
	c.Logger.Info("cache connected", "backend", c.Config.CacheBackend)
}
