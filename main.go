// Package main provides the main entry point for the Tombola coffee bean catalog API
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/DavidIrvine-TW/tombola/app/handlers"
	"github.com/DavidIrvine-TW/tombola/app/router"
	businessflow "github.com/DavidIrvine-TW/tombola/business_flow"
	"github.com/DavidIrvine-TW/tombola/config"
	"github.com/DavidIrvine-TW/tombola/models"
	"github.com/DavidIrvine-TW/tombola/repository"
	"github.com/DavidIrvine-TW/tombola/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Tombola application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s", cfg.RedisURL)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Initialize repositories
	beanRepo := repository.NewBeanRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	historyRepo := repository.NewBotdHistoryRepository(db)

	// Seed the catalog when the beans table is empty
	if cfg.Catalog.SeedOnStartup {
		if err := seedCatalog(db, beanRepo, cfg.Catalog.SeedFile); err != nil {
			return nil, err
		}
	}

	// Initialize flows
	catalogFlow := businessflow.NewCatalogFlow(beanRepo, rc, cfg.Cache.FacetTTL)
	botdFlow := businessflow.NewBotdFlow(beanRepo, historyRepo, db, nil)
	orderFlow := businessflow.NewOrderFlow(orderRepo, beanRepo)

	// Initialize handlers
	beanHandler := handlers.NewBeanHandler(catalogFlow, botdFlow)
	orderHandler := handlers.NewOrderHandler(orderFlow)

	// Initialize router
	appRouter := router.NewFiberRouter(beanHandler, orderHandler)

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// seedBean mirrors the shape of the bundled catalog seed file.
type seedBean struct {
	ID          string `json:"_id"`
	Index       int    `json:"index"`
	IsBotd      bool   `json:"isBOTD"`
	Cost        string `json:"Cost"`
	Image       string `json:"Image"`
	Colour      string `json:"colour"`
	Name        string `json:"Name"`
	Description string `json:"Description"`
	Country     string `json:"Country"`
}

// seedCatalog loads beans from the seed file if the table is empty
func seedCatalog(db *gorm.DB, beanRepo repository.BeanRepository, seedFile string) error {
	count, err := beanRepo.Count(context.Background(), models.BeanFilter{})
	if err != nil {
		return fmt.Errorf("failed to count beans: %w", err)
	}
	if count > 0 {
		log.Printf("Catalog already seeded with %d beans", count)
		return nil
	}

	data, err := os.ReadFile(seedFile)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Seed file %s not found, starting with an empty catalog", seedFile)
			return nil
		}
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seeds []seedBean
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(seeds) == 0 {
		log.Printf("Seed file %s contains no beans", seedFile)
		return nil
	}

	beans := make([]*models.Bean, 0, len(seeds))
	for _, s := range seeds {
		beans = append(beans, &models.Bean{
			UUID:        uuid.New(),
			Index:       s.Index,
			IsBotd:      false, // flags are owned by the daily selection, never seeded
			Cost:        s.Cost,
			Image:       s.Image,
			Colour:      s.Colour,
			Name:        s.Name,
			Description: strings.TrimSpace(s.Description),
			Country:     s.Country,
			CreatedAt:   utils.UTCNow(),
			UpdatedAt:   utils.UTCNow(),
		})
	}

	if err := beanRepo.SaveBatch(context.Background(), beans); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	log.Printf("Seeded catalog with %d beans from %s", len(beans), seedFile)
	return nil
}
