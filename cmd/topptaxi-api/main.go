// README: Entry point; loads config, wires services and starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"topptaxi/internal/config"
	httptransport "topptaxi/internal/http"
	"topptaxi/internal/infra"
	"topptaxi/internal/maps"
	"topptaxi/internal/modules/catalog"
	"topptaxi/internal/modules/quote"
	"topptaxi/internal/modules/tariff"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.GoogleAPIKey == "" {
		log.Fatal("GOOGLE_API_KEY is required")
	}

	logger, err := infra.NewLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var geocodeCache *maps.GeocodeCache
	if cfg.RedisAddr != "" {
		redisClient := infra.NewRedis(cfg.RedisAddr)
		geocodeCache = maps.NewGeocodeCache(redisClient, 24*time.Hour)
	}

	geoSvc, err := maps.NewGeoService(cfg.GoogleAPIKey, cfg.OutboundTimeout(), cfg.Language, cfg.CountryBias, geocodeCache, logger)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}
	routeSvc, err := maps.NewRouteService(cfg.GoogleAPIKey, cfg.OutboundTimeout(), logger)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}

	tariffSvc := tariff.NewService(cfg.SettingsFile, logger)
	catalogSvc := catalog.NewService(store, geoSvc, cfg.SnapshotTTL(), logger)
	quoteSvc := quote.NewService(tariffSvc, catalogSvc, routeSvc, geoSvc, cfg.GoogleAPIKey, logger)

	handler := httptransport.NewRouter(quoteSvc, tariffSvc, catalogSvc, logger)
	server := &http.Server{Addr: cfg.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func newStore(ctx context.Context, cfg config.Config) (catalog.Store, error) {
	switch cfg.StorageBackend {
	case "postgres":
		pool, err := infra.NewDB(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return catalog.NewPostgresStore(pool), nil
	default:
		svc, err := infra.NewSheets(ctx, cfg.Credentials)
		if err != nil {
			return nil, err
		}
		return catalog.NewSheetsStore(svc, cfg.SpreadsheetID, cfg.PlacesSheet, cfg.RoutesSheet, cfg.PricesSheet, cfg.OutboundTimeout()), nil
	}
}
