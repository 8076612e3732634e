package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"traffic-hotspot-api/bundle"
	"traffic-hotspot-api/catalog"
	"traffic-hotspot-api/config"
	"traffic-hotspot-api/handlers"
	"traffic-hotspot-api/metrics"
	"traffic-hotspot-api/prediction"
	"traffic-hotspot-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	var loc *time.Location
	if cfg.Server.ReferenceTZ != "" {
		if loc, err = time.LoadLocation(cfg.Server.ReferenceTZ); err != nil {
			log.Fatalf("Failed to load reference timezone: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache := services.NewCacheServiceWithClient(nil)
	if cfg.Redis.Enabled {
		if cache, err = services.NewCacheService(cfg.Redis); err != nil {
			log.Printf("redis unavailable, caching disabled: %v", err)
		}
	}
	defer cache.Close()

	registry := bundle.NewRegistry()
	registry.Observe(func(ev bundle.Event) { metrics.RecordBundleLoad(ev.Err, ev.At) })
	registry.Observe(cache.BundleNotifier())

	var db *gorm.DB
	if cfg.Database.Enabled {
		db, err = openDatabase(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		auditor, err := services.NewLoadAuditor(ctx, cfg.Database.GetURL())
		if err != nil {
			log.Printf("bundle load audit disabled: %v", err)
		} else {
			defer auditor.Close()
			registry.Observe(auditor.Observer())
		}
	}

	store, closeStore, err := openStore(cfg.Models)
	if err != nil {
		log.Fatalf("Failed to open model store: %v", err)
	}
	defer closeStore()

	// A failed first load leaves the service running but unready.
	if _, err := registry.Reload(ctx, store); err != nil {
		log.Printf("Failed to load models, serving unready until reload: %v", err)
	}

	svc := prediction.NewService(registry, loc)
	var src catalog.Source = catalog.NewCSVSource(cfg.Catalog.CSVPath)
	if cfg.Catalog.Source == "postgres" {
		src = catalog.NewPostgresSource(db)
	}
	svc.SetCatalogSource(src)
	if err := svc.LoadCatalog(ctx); err != nil {
		log.Printf("Failed to load road segments, retrying on next reload: %v", err)
	}
	registry.Observe(svc.RetryCatalog)

	auth, err := services.NewAuthService(cfg.JWT, cfg.Admin)
	if err != nil {
		log.Fatalf("Failed to init auth: %v", err)
	}

	if cfg.MQTT.URL != "" {
		watcher := services.NewReloadWatcher(registry, store, cfg.MQTT.ReloadTopic)
		if err := watcher.Start(ctx, cfg.MQTT.URL); err != nil {
			log.Printf("mqtt not connected yet, retrying in background: %v", err)
		}
		defer watcher.Stop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := handlers.SetupRouter(handlers.Deps{
		Service:  svc,
		Registry: registry,
		Store:    store,
		Cache:    cache,
		Auth:     auth,
		CORS:     cfg.CORS,
		CacheTTL: cfg.Cache.TTL,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
}

func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func openStore(cfg config.ModelsConfig) (bundle.Store, func(), error) {
	if cfg.Source == "sqlite" {
		s, err := bundle.OpenSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	return bundle.NewDirStore(cfg.Dir), func() {}, nil
}
