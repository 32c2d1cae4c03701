package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/atruong7-bot/event-search/pkg/interfaces"
	"github.com/atruong7-bot/event-search/pkg/logging"
	"github.com/atruong7-bot/event-search/pkg/monitoring"
	"github.com/atruong7-bot/event-search/pkg/storage"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().String("port", "", "port to listen on")
	a.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))

	return cmd
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.NewLogger(a.cfg.Logging.Level, a.cfg.Logging.Format)
	a.logger = logger
	logger.Info("starting event-search", "driver", a.cfg.Database.Driver)

	var metrics *monitoring.Metrics
	if a.cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = monitoring.NewMetrics(registry)
	}

	store, err := storage.Open(ctx, a.cfg.Database)
	if err != nil {
		// Favorites routes answer 503 until the store is reachable again.
		logger.Error("failed to open favorites store", "driver", a.cfg.Database.Driver, "error", err)
		store = &storage.Store{Driver: a.cfg.Database.Driver}
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close favorites store", "error", err)
		}
	}()

	favorites := interfaces.NewFavoriteService(store.Favorites,
		interfaces.WithFavoriteMetrics(metrics),
		interfaces.WithFavoriteLogger(logger),
	)
	eventService := a.eventService(metrics)
	artistService := a.artistService(metrics)

	router := interfaces.NewRouter(interfaces.RouterConfig{
		Metrics:     metrics,
		MetricsPath: a.cfg.Metrics.Path,
		Logger:      logger,
	},
		interfaces.NewFavoriteHandler(favorites, logger),
		interfaces.NewEventHandler(eventService, artistService, logger),
		interfaces.NewArtistHandler(artistService, logger),
	)

	router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, _ := route.GetPathTemplate()
		methods, _ := route.GetMethods()
		logger.Debug("route", "methods", methods, "path", path)
		return nil
	})

	srv := &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", a.cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}
