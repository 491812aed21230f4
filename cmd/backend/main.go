// Package main provides the entry point for the LinkBio attribution service.
//
//	@title			LinkBio Attribution API
//	@version		1.0.0
//	@description	Link-in-bio landing page with first/last-touch campaign attribution, session tracking and data layer events.
//
//	@contact.name	LinkBio Support
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Authorization header. Format: "Bearer {token}"
package main

import (
	"LinkBio-Backend/internal/analytics"
	"LinkBio-Backend/internal/auth"
	"LinkBio-Backend/internal/config"
	"LinkBio-Backend/internal/database"
	"LinkBio-Backend/internal/datalayer"
	httpHandler "LinkBio-Backend/internal/handler/http"
	"LinkBio-Backend/internal/identity"
	"LinkBio-Backend/internal/metrics"
	"LinkBio-Backend/internal/report"
	"LinkBio-Backend/internal/repository"
	"LinkBio-Backend/internal/repository/memory"
	"LinkBio-Backend/internal/repository/mongo"
	"LinkBio-Backend/internal/repository/postgres"
	"LinkBio-Backend/internal/tracking"
	"LinkBio-Backend/pkg/logger"
	"LinkBio-Backend/pkg/useragent"
	"context"
	"fmt"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	_ "LinkBio-Backend/docs" // Import swagger docs
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to the YAML config (defaults to $CONFIG_PATH, then config/local.yml)")
	hashPassword := pflag.String("hash-password", "", "print a bcrypt hash for the admin password and exit")
	pflag.Parse()

	if *hashPassword != "" {
		hash, err := auth.NewPasswordService().HashPassword(*hashPassword)
		if err != nil {
			lg.Fatalf("failed to hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	cfg := config.MustLoad(*configPath)
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting LinkBio attribution service", zap.String("env", cfg.Env), zap.String("storage", cfg.Storage.Driver))

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Initialize event log storage
	storage, closeStorage, err := openStorage(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}
	defer closeStorage()

	// Initialize User-Agent parser
	uaParser := useragent.NewWithFallback(cfg.UserAgent.RegexesPath, log)

	// Start analytics processor
	processor := analytics.NewProcessor(storage, uaParser, m, log, analytics.ProcessorConfig{
		WorkerCount:     cfg.Analytics.WorkerCount,
		BufferSize:      cfg.Analytics.BufferSize,
		RetryAttempts:   cfg.Analytics.RetryAttempts,
		RetryDelay:      cfg.Analytics.RetryDelay,
		ShutdownTimeout: cfg.Analytics.ShutdownTimeout,
	})
	if err := processor.Start(); err != nil {
		log.Fatal("failed to start analytics processor", zap.Error(err))
	}
	m.RegisterQueueLength(registry, func() float64 { return float64(processor.QueueLength()) })

	// Tracking kit shared by all page contexts
	stores := make([]datalayer.Store, 0, len(cfg.Page.Stores))
	for _, s := range cfg.Page.Stores {
		stores = append(stores, datalayer.Store{ID: s.ID, Name: s.Name})
	}
	reporter := report.NewLogger(log, m.ReportsCounter())
	proxies, err := tracking.ParseTrustedProxies(cfg.Tracking.TrustedProxies)
	if err != nil {
		log.Fatal("invalid tracking.trusted_proxies", zap.Error(err))
	}
	kit := tracking.NewKit(cfg.Tracking, stores, identity.New(), reporter, log,
		tracking.WithMetrics(m),
		tracking.WithTrustedProxies(proxies),
	)

	// Auth
	if cfg.Auth.JWTSecret == "" || cfg.Auth.AdminPasswordHash == "" {
		log.Warn("reporting API is locked: auth.jwt_secret or auth.admin_password_hash is not set")
	}
	jwtService := auth.NewJWTService(&auth.JWTConfig{
		SecretKey:           []byte(cfg.Auth.JWTSecret),
		AccessTokenDuration: cfg.Auth.AccessTokenTTL,
		Issuer:              cfg.Auth.Issuer,
	})

	server, err := httpHandler.NewServer(httpHandler.Deps{
		Kit:             kit,
		Page:            cfg.Page,
		Storage:         storage,
		Submitter:       processor,
		Stats:           processor,
		JWTService:      jwtService,
		PasswordService: auth.NewPasswordService(),
		Admin: auth.AdminCredentials{
			Username:     cfg.Auth.AdminUsername,
			PasswordHash: cfg.Auth.AdminPasswordHash,
		},
		Gatherer: registry,
		Log:      log,
	})
	if err != nil {
		log.Fatal("failed to create HTTP server", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      server.SetupRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	log.Info("starting HTTP server", zap.String("address", cfg.HTTPServer.Address))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down LinkBio attribution service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	// HTTP stopped first so nothing is submitted after the queue is closed
	if err := processor.Stop(); err != nil {
		log.Error("failed to stop analytics processor", zap.Error(err))
	}
}

// openStorage выбирает хранилище журнала событий по storage.driver
func openStorage(cfg *config.Config, log *zap.Logger) (repository.Storage, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := database.NewConnection(&cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := database.AutoMigrate(db, log); err != nil {
				_ = database.Close(db, log)
				return nil, nil, err
			}
		} else {
			log.Info("skipping database migrations (auto_migrate: false)")
		}
		return postgres.New(db, log), func() {
			if err := database.Close(db, log); err != nil {
				log.Error("failed to close database connection", zap.Error(err))
			}
		}, nil

	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, &cfg.Mongo, log)
		if err != nil {
			return nil, nil, err
		}
		storage := mongo.New(client, &cfg.Mongo, log)
		if err := storage.EnsureIndexes(ctx); err != nil {
			log.Warn("failed to create mongo indexes", zap.Error(err))
		}
		return storage, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				log.Error("failed to disconnect from mongo", zap.Error(err))
			}
		}, nil

	case "memory":
		log.Warn("using in-memory event log, events are lost on restart")
		return memory.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
