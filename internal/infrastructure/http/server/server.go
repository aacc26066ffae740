package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/andrusov/storefront-service/internal/application/commands"
	"github.com/andrusov/storefront-service/internal/application/use_cases"
	"github.com/andrusov/storefront-service/internal/config"
	"github.com/andrusov/storefront-service/internal/domain/store"
	"github.com/andrusov/storefront-service/internal/infrastructure/http/handlers"
	"github.com/andrusov/storefront-service/internal/infrastructure/payment"
	"github.com/andrusov/storefront-service/internal/infrastructure/persistence/postgres"
	"github.com/andrusov/storefront-service/internal/infrastructure/persistence/redis"
	"github.com/andrusov/storefront-service/internal/pkg/clock"
	"github.com/andrusov/storefront-service/internal/pkg/generator"
	"github.com/andrusov/storefront-service/internal/pkg/logger"
)

type Server struct {
	server        *http.Server
	logger        *logger.Logger
	healthHandler *handlers.HealthHandler
	orderHandler  *handlers.OrderHandler
	cartHandler   *handlers.CartHandler
}

func NewServer(cfg *config.Config, conn *postgres.Connection, redisConn *redis.Connection, log *logger.Logger) *Server {
	cartRepo := postgres.NewCartRepository(conn)
	orderRepo := postgres.NewOrderRepository(conn)

	cache := redis.NewCache(redisConn, log)
	gateway := payment.NewClient(cfg.Payment)

	ids := generator.NewIDGenerator()
	clk := clock.NewRealClock()

	checkoutUseCase := use_cases.NewCheckoutUseCase(cartRepo, orderRepo, gateway, cache, ids, clk, log)
	verifyUseCase := use_cases.NewVerifyUseCase(orderRepo, gateway, cache, log)

	placeOrderHandler := commands.NewPlaceOrderHandler(checkoutUseCase, log)
	verifyHandler := commands.NewVerifyPaymentHandler(verifyUseCase, log)

	bounds := store.QuantityBounds{Min: cfg.Cart.MinItemCount, Max: cfg.Cart.MaxItemCount}

	orderHandler := handlers.NewOrderHandler(placeOrderHandler, verifyHandler, orderRepo, log)
	cartHandler := handlers.NewCartHandler(cartRepo, cache, bounds, log)
	healthHandler := handlers.NewHealthHandler(conn.GetDB(), redisConn.GetClient(), log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		server:        server,
		logger:        log,
		healthHandler: healthHandler,
		orderHandler:  orderHandler,
		cartHandler:   cartHandler,
	}
}

func (s *Server) ListenAndServe() error {
	s.server.Handler = s.setupRoutes()

	s.logger.Info("Starting HTTP server", "address", s.server.Addr)

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
