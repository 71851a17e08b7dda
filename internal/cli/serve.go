package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pedigree/pkg/observability"
	"github.com/matzehuels/pedigree/pkg/observability/prom"
	"github.com/matzehuels/pedigree/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts, charts and annotations over HTTP",
		Long: `Serve the families of the data directory over HTTP.

Charts rendered at /family/{id}/chart.svg support dragging nodes; moved
positions are saved through /annotations/{id} and applied to later layouts.
Prometheus metrics are exposed at /metrics unless disabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if cmd.Flags().Changed("addr") {
				c.cfg.Server.Addr = addr
			}
			if noMetrics {
				c.cfg.Server.Metrics = false
			}

			opts := []server.Option{server.WithLogger(logger)}
			if c.cfg.Server.Metrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				hooks := prom.New(reg)
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
				defer observability.Reset()
				opts = append(opts, server.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
			}

			srv := server.New(runner, c.cfg, opts...)
			printInfo("Serving %s on %s", StyleValue.Render(c.cfg.Data.Dir), StyleLink.Render("http://"+displayAddr(c.cfg.Server.Addr)))
			return srv.ListenAndServe(ctx, c.cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
