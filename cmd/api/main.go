package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/alankar-api/internal/application/service"
	"github.com/sangkips/alankar-api/internal/config"
	domainRepo "github.com/sangkips/alankar-api/internal/domain/repository"
	"github.com/sangkips/alankar-api/internal/infrastructure/database"
	"github.com/sangkips/alankar-api/internal/infrastructure/kvstore"
	"github.com/sangkips/alankar-api/internal/infrastructure/repository"
	"github.com/sangkips/alankar-api/internal/infrastructure/repository/kv"
	"github.com/sangkips/alankar-api/internal/presentation/http/handler"
	"github.com/sangkips/alankar-api/internal/presentation/http/middleware"
	"github.com/sangkips/alankar-api/internal/presentation/http/routes"
	"github.com/sangkips/alankar-api/pkg/printer"
)

// repositories is the set of stores the services need, whatever the backend
type repositories struct {
	customers   domainRepo.CustomerRepository
	bills       domainRepo.BillRepository
	settings    domainRepo.SettingsRepository
	idempotency domainRepo.IdempotencyRepository
	analytics   domainRepo.AnalyticsRepository
	close       func()
}

func openRepositories(cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := kvstore.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		repos := kvRepositories(kv.Open(kvstore.NewRedisStore(client), cfg.Storage.Namespace))
		repos.close = func() {
			if err := client.Close(); err != nil {
				log.Printf("Warning: failed to close redis client: %v", err)
			}
		}
		return repos, nil

	case config.StorageDriverMemory:
		log.Println("Using in-memory storage; data is lost on restart")
		return kvRepositories(kv.Open(kvstore.NewMemoryStore(), cfg.Storage.Namespace)), nil

	default:
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, err
		}

		// Run auto-migrations
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}

		// Seed default data
		if err := database.SeedDefaultData(db, &cfg.Shop); err != nil {
			log.Printf("Warning: Failed to seed default data: %v", err)
		}

		return &repositories{
			customers:   repository.NewCustomerRepository(db),
			bills:       repository.NewBillRepository(db),
			settings:    repository.NewSettingsRepository(db),
			idempotency: repository.NewIdempotencyRepository(db),
			analytics:   repository.NewAnalyticsRepository(db),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil
	}
}

func kvRepositories(db *kv.DB) *repositories {
	return &repositories{
		customers:   kv.NewCustomerRepository(db),
		bills:       kv.NewBillRepository(db),
		settings:    kv.NewSettingsRepository(db),
		idempotency: kv.NewIdempotencyRepository(db),
		analytics:   kv.NewAnalyticsRepository(db),
		close:       func() {},
	}
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	repos, err := openRepositories(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer repos.close()

	// Initialize services
	customerService := service.NewCustomerService(repos.customers)
	billService := service.NewBillService(repos.bills, repos.customers, cfg.Billing.BillIDPrefix)
	dashboardService := service.NewDashboardService(repos.customers, repos.bills, repos.analytics)
	settingsService := service.NewSettingsService(repos.settings, cfg.Shop)
	exportService := service.NewExportService(billService)
	invoiceService := service.NewInvoiceService(billService, settingsService)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()
	printerService := service.NewPrinterService(thermalPrinter, billService, settingsService, cfg.Printer.Type, cfg.Printer.Width)

	// Initialize handlers
	handlers := &routes.Handlers{
		Customer:  handler.NewCustomerHandler(customerService),
		Bill:      handler.NewBillHandler(billService, exportService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Printer:   handler.NewPrinterHandler(printerService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
	}

	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit))
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: repos.idempotency,
		RateLimiter:     rateLimiter,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s, storage: %s", cfg.App.Env, cfg.Storage.Driver)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
