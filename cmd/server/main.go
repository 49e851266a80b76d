package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/ErlanBelekov/voltforge-storefront/config"
	"github.com/ErlanBelekov/voltforge-storefront/internal/catalog"
	"github.com/ErlanBelekov/voltforge-storefront/internal/email"
	"github.com/ErlanBelekov/voltforge-storefront/internal/health"
	"github.com/ErlanBelekov/voltforge-storefront/internal/infrastructure"
	ctxlog "github.com/ErlanBelekov/voltforge-storefront/internal/log"
	"github.com/ErlanBelekov/voltforge-storefront/internal/metrics"
	"github.com/ErlanBelekov/voltforge-storefront/internal/scheduler"
	"github.com/ErlanBelekov/voltforge-storefront/internal/store"
	httptransport "github.com/ErlanBelekov/voltforge-storefront/internal/transport/http"
	"github.com/ErlanBelekov/voltforge-storefront/internal/transport/http/handler"
	"github.com/ErlanBelekov/voltforge-storefront/internal/transport/http/middleware"
	"github.com/ErlanBelekov/voltforge-storefront/internal/ui"
	"github.com/ErlanBelekov/voltforge-storefront/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeKV, err := infrastructure.OpenKV(ctx, cfg)
	if err != nil {
		stop()
		log.Fatalf("store: %v", err)
	}
	defer closeKV()
	logger.Info("store opened", "backend", cfg.StoreBackend)

	st := store.New(kv)

	// Catalog
	catalogUsecase := usecase.NewCatalogUsecase(st)
	seeded, err := catalogUsecase.Seed(ctx, catalog.Products())
	if err != nil {
		stop()
		log.Fatalf("seed catalog: %v", err)
	}
	if seeded {
		logger.Info("catalog seeded", "products", len(catalog.Products()))
	}

	// Session and collections
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	sessionUsecase := usecase.NewSessionUsecase(st, sender, logger, cfg.SigninPage, cfg.LandingPage)
	cartUsecase := usecase.NewCartUsecase(st, sessionUsecase, catalogUsecase, cfg.ShippingFee)
	favoritesUsecase := usecase.NewFavoritesUsecase(st, sessionUsecase, catalogUsecase, cfg.FavoritesRequireLogin)

	// UI
	synchronizer := ui.NewSynchronizer(cartUsecase, favoritesUsecase, sessionUsecase, catalogUsecase, cfg.UIHitTolerance, logger)

	janitor, err := scheduler.NewJanitor(kv, synchronizer, cfg.JanitorCron, cfg.ClientIdleTTL, cfg.UILayoutTTL, logger)
	if err != nil {
		stop()
		log.Fatalf("janitor: %v", err)
	}

	metrics.Register()
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer,
		health.Check{Name: cfg.StoreBackend, Probe: kv.Ping},
		health.Check{Name: "catalog", Probe: catalogUsecase.Ready},
	)

	tokens := middleware.NewClientTokens([]byte(cfg.ClientTokenSecret), cfg.ClientIdleTTL)
	tls := cfg.Env != "local"

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, httptransport.Handlers{
			Catalog:   handler.NewCatalogHandler(catalogUsecase, favoritesUsecase, logger),
			Auth:      handler.NewAuthHandler(sessionUsecase, logger),
			Cart:      handler.NewCartHandler(cartUsecase, logger),
			Favorites: handler.NewFavoritesHandler(favoritesUsecase, catalogUsecase, logger),
			UI:        handler.NewUIHandler(synchronizer, logger),
		}, middleware.Client(tokens, st, tls, logger), tls),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		janitor.Start(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", "error", err)
		}
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", "error", err)
		closeKV()
		os.Exit(1)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
