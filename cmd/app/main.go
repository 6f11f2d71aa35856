package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/AI-Trading-APP/paper-trading/db/postgres"
	providers "github.com/AI-Trading-APP/paper-trading/db/postgres/providers"
	"github.com/AI-Trading-APP/paper-trading/middleware"
	"github.com/AI-Trading-APP/paper-trading/pricing"
	"github.com/AI-Trading-APP/paper-trading/repository"
	"github.com/AI-Trading-APP/paper-trading/routes"
	"github.com/AI-Trading-APP/paper-trading/service"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// 1. Ledger backend: postgres when configured, in-memory otherwise
	var ledger service.LedgerStore
	var orders service.OrderStore

	if os.Getenv("POSTGRES_HOST") != "" {
		postgresClient := postgres.ConnectDB()
		defer postgresClient.Stop()

		if err := postgresClient.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize database schema: %v", err)
		}

		dbHelper, err := providers.NewDbProvider(postgresClient.PostgresClient)
		if err != nil {
			log.Fatalf("Failed to initialize DB helper: %v", err)
		}

		ledger = repository.NewLedgerRepository(dbHelper)
		orders = repository.NewOrderRepository(dbHelper)
	} else {
		log.Println("POSTGRES_HOST not set, running with in-memory ledger")
		ledger = repository.NewMemoryLedger()
		orders = repository.NewMemoryOrderLog()
	}

	// 2. Price feed: remote quote service when configured, static table otherwise
	var prices pricing.Source
	if feedURL := os.Getenv("PRICE_FEED_URL"); feedURL != "" {
		prices = pricing.NewHTTPSource(feedURL, priceTimeout())
	} else {
		log.Println("PRICE_FEED_URL not set, serving static development prices")
		prices = pricing.DefaultStaticSource()
	}

	// 3. Services
	engine := service.NewOrderEngine(ledger, orders, prices)
	engine.PriceTimeout = priceTimeout()
	portfolio := service.NewPortfolioService(ledger, orders, prices)
	portfolio.PriceTimeout = priceTimeout()

	// 4. Admission control
	perMinute, _ := strconv.Atoi(os.Getenv("RATE_LIMIT_PER_MINUTE"))
	if perMinute == 0 {
		perMinute = 60
	}
	limiter := middleware.NewRateLimiter(perMinute, 10)

	// 5. Gin router & routes
	router := gin.Default()
	routes.RegisterRoutes(router, engine, portfolio, limiter)

	// 6. Run REST API
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Paper trading REST API running on %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start Gin server: %v", err)
		}
	}()

	// 7. Wait for OS signal to shut down gracefully
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("Received signal %s. Shutting down gracefully.", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Shutdown complete")
}

func priceTimeout() time.Duration {
	if ms, _ := strconv.Atoi(os.Getenv("PRICE_FEED_TIMEOUT_MS")); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return service.DefaultPriceTimeout
}
