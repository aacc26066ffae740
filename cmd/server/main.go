package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrusov/storefront-service/internal/application/use_cases"
	"github.com/andrusov/storefront-service/internal/config"
	"github.com/andrusov/storefront-service/internal/infrastructure/http/server"
	"github.com/andrusov/storefront-service/internal/infrastructure/monitoring"
	"github.com/andrusov/storefront-service/internal/infrastructure/payment"
	"github.com/andrusov/storefront-service/internal/infrastructure/persistence/postgres"
	"github.com/andrusov/storefront-service/internal/infrastructure/persistence/redis"
	"github.com/andrusov/storefront-service/internal/infrastructure/scheduler"
	"github.com/andrusov/storefront-service/internal/pkg/clock"
	"github.com/andrusov/storefront-service/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	log := logger.NewLogger()
	log.Info("Starting Storefront Service")

	cfg, configErr := config.LoadConfig(*configPath)
	if configErr != nil {
		log.Fatal("Failed to load configuration", "error", configErr)
	}

	db, dbErr := postgres.NewConnection(cfg.Database)
	if dbErr != nil {
		log.Fatal("Failed to connect to database", "error", dbErr)
	}
	defer db.Close()

	if migrationErr := postgres.RunMigrations(cfg.Database); migrationErr != nil {
		log.Fatal("Failed to run migrations", "error", migrationErr)
	}

	redisConn, err := redis.NewConnection(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", "error", err)
	}
	defer redisConn.Close()

	dbMetricsCollector := monitoring.NewDBMetricsCollector(db.GetDB())
	dbMetricsCollector.StartCollecting(context.Background(), 30*time.Second)

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	var reconciler *scheduler.PaymentReconciler
	if cfg.Reconciler.Enabled {
		orderRepo := postgres.NewOrderRepository(db)
		cache := redis.NewCache(redisConn, log)
		gateway := payment.NewClient(cfg.Payment)
		verifyUseCase := use_cases.NewVerifyUseCase(orderRepo, gateway, cache, log)

		reconciler = scheduler.NewPaymentReconciler(
			orderRepo,
			verifyUseCase,
			clock.NewRealClock(),
			log,
			cfg.Reconciler.Interval(),
			cfg.Reconciler.PendingAge(),
		)
		go reconciler.Start(serverCtx)
	}

	httpServer := server.NewServer(cfg, db, redisConn, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigChan
		shutdownCtx, shutdownCancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer shutdownCancel()

		log.Info("Shutting down server...")
		if reconciler != nil {
			reconciler.Stop()
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", "error", err)
		}

		serverStopCtx()
	}()

	log.Info("Server starting", "address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed", "error", err)
	}

	<-serverCtx.Done()
	log.Info("Server stopped")
}
