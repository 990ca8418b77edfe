// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/netplus-lab/netplus/internal/api"
	"github.com/netplus-lab/netplus/internal/logging"
	"github.com/netplus-lab/netplus/internal/progress"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators and progress over a JSON HTTP API",
		Long: `Starts the HTTP API. Routes live under /api/v1; /healthz and the Prometheus
/metrics endpoint sit at the root. Stop with Ctrl+C.

Example:
  netplus serve --server.listen :8080 --server.rate_limit 60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			srv := api.NewServer(api.Options{
				Progress:  progress.New(st),
				RateLimit: appConfig.Server.RateLimit,
				Registry:  reg,
			})

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logging.Infof("listening on %s", appConfig.Server.Listen)
				return api.ListenAndServe(ctx, appConfig.Server.Listen, srv)
			})
			g.Go(func() error {
				<-ctx.Done()
				logging.Infof("shutting down")
				return nil
			})
			return g.Wait()
		},
	}
	cmd.Flags().String("server.listen", "127.0.0.1:8080", "Listen address")
	cmd.Flags().Int("server.rate_limit", 120, "Requests per minute per client IP (0 disables)")
	return cmd
}
