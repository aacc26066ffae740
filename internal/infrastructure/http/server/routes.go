package server

import (
	"net/http"
	"time"

	"github.com/andrusov/storefront-service/internal/infrastructure/http/middleware"
	"github.com/andrusov/storefront-service/internal/infrastructure/monitoring"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", s.healthHandler.HandleHealth())

	mux.HandleFunc("/cart", s.cartHandler.HandleGetCart())
	mux.HandleFunc("/cart/snapshot", s.cartHandler.HandleGetSnapshot())
	mux.HandleFunc("/cart/items/quantity", s.cartHandler.HandleUpdateQuantity())
	mux.HandleFunc("/cart/bags/select", s.cartHandler.HandleSelectBag())

	mux.HandleFunc("/orders", s.orderHandler.HandleGetOrders())
	mux.HandleFunc("/orders/place", s.orderHandler.HandlePlaceOrder())
	mux.HandleFunc("/orders/verify", s.orderHandler.HandleVerifyPayment())

	handler := middleware.NewRecoveryMiddleware(s.logger)(mux)
	handler = middleware.NewLoggingMiddleware(s.logger)(handler)
	handler = monitoring.WrapHandler(handler)
	handler = s.corsMiddleware(handler)
	handler = s.timeoutMiddleware(handler)

	return handler
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
		w.Header().Set("Access-Control-Expose-Headers", "Link")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "300")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	return http.TimeoutHandler(next, 90*time.Second, "Request timeout")
}
