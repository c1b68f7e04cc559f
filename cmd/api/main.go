package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"shopifyadmin/internal/httpapi"
	"shopifyadmin/internal/metrics"
	"shopifyadmin/internal/shop"
	"shopifyadmin/pkg/config"
	"shopifyadmin/pkg/db"
	"shopifyadmin/pkg/logger"
	"shopifyadmin/pkg/shopify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}
	log := logger.New(cfg.LogLevel, cfg.AppEnv)
	defer func() { _ = log.Sync() }()

	if err := cfg.RequireShopify(); err != nil {
		log.Fatal("shopify config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shops, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("open shop store", zap.String("store_type", cfg.StoreType), zap.Error(err))
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	clients := shopify.Factory{
		APIKey:    cfg.Shopify.APIKey,
		APISecret: cfg.Shopify.APISecret,
		Options: []shopify.Option{
			shopify.WithAPIVersion(cfg.Shopify.APIVersion),
			shopify.WithTimeout(cfg.Shopify.Timeout),
			shopify.WithLogger(log.Named("shopify")),
			shopify.WithObserver(metrics.NewShopifyMetrics(reg)),
		},
	}

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:      cfg,
		Shops:    shops,
		Clients:  clients,
		Log:      log,
		Gatherer: reg,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http serve", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (shop.Store, func(), error) {
	if cfg.StoreType == config.StoreTypeBBolt {
		s, err := shop.OpenBolt(cfg.BBoltPath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("shop store ready", zap.String("store_type", cfg.StoreType), zap.String("path", cfg.BBoltPath))
		return s, func() { _ = s.Close() }, nil
	}

	pool, err := db.Open(ctx, cfg, log.Named("db"))
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(cfg); err != nil {
		pool.Close()
		return nil, nil, err
	}
	log.Info("shop store ready", zap.String("store_type", cfg.StoreType))
	return shop.NewRepository(pool), pool.Close, nil
}
