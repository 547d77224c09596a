package main

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/cylin-ms/scenara-sub003/internal/adapters/http/api"
	"github.com/cylin-ms/scenara-sub003/internal/adapters/http/swagger"
	"github.com/cylin-ms/scenara-sub003/internal/app"
	"github.com/cylin-ms/scenara-sub003/internal/config"
	"github.com/cylin-ms/scenara-sub003/pkg/logger"
	"github.com/cylin-ms/scenara-sub003/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCmd(st *cliState) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /analyze over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				st.cfg.Addr = addr
			}
			srv, err := newHTTPServer(st.cfg, st.log)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), srv, st.log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: addr from config)")
	return cmd
}

// newHTTPServer wires the engine, metrics and routes into an http.Server.
func newHTTPServer(cfg *config.Config, log logger.Logger) (*http.Server, error) {
	m := metrics.NewManager()
	// Process and runtime collectors on the private registry
	m.Registry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engine, err := app.New(
		app.WithConfig(cfg.Engine),
		app.WithLogger(log.Named("engine")),
		app.WithMetrics(m),
	)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	swagger.Register(mux)
	api.NewServer(engine,
		api.WithLogger(log.Named("api")),
		api.WithMetrics(m),
		api.WithMaxBodyBytes(cfg.MaxBodyBytes),
	).Register(mux)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}, nil
}

// serve runs srv until ctx ends, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, log logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.Wrap(err, "http server")
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server shutdown")
	}
	log.Info(ctx, "server stopped")
	return nil
}
