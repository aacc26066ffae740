package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/andrusov/storefront-service/internal/application/commands"
	"github.com/andrusov/storefront-service/internal/application/ports"
	"github.com/andrusov/storefront-service/internal/domain/store"
	"github.com/andrusov/storefront-service/internal/infrastructure/http/response"
	"github.com/andrusov/storefront-service/internal/infrastructure/monitoring"
	"github.com/andrusov/storefront-service/internal/pkg/logger"
)

type OrderHandler struct {
	placeOrderHandler *commands.PlaceOrderHandler
	verifyHandler     *commands.VerifyPaymentHandler
	orderRepo         ports.OrderRepository
	log               *logger.Logger
}

func NewOrderHandler(
	placeOrderHandler *commands.PlaceOrderHandler,
	verifyHandler *commands.VerifyPaymentHandler,
	orderRepo ports.OrderRepository,
	log *logger.Logger,
) *OrderHandler {
	return &OrderHandler{
		placeOrderHandler: placeOrderHandler,
		verifyHandler:     verifyHandler,
		orderRepo:         orderRepo,
		log:               log,
	}
}

type placeOrderRequest struct {
	BuyerID   string `json:"buyer_id"`
	AddressID string `json:"address_id"`
}

func (h *OrderHandler) HandlePlaceOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req placeOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteError(w, http.StatusBadRequest, response.StatusError, "Invalid request body", err.Error())
			return
		}

		errors := make(map[string]string)
		if req.BuyerID == "" {
			errors["buyer_id"] = "buyer_id is required"
		}
		if req.AddressID == "" {
			errors["address_id"] = "address_id is required"
		}
		if len(errors) > 0 {
			h.log.Warn("Place order validation failed",
				"errors", errors,
				"buyer_id", req.BuyerID,
			)
			response.WriteValidationError(w, "Validation failed", errors)
			return
		}

		metrics := monitoring.NewCheckoutMetrics(req.BuyerID)
		metrics.RecordAttempt()

		cmd := commands.PlaceOrderCommand{
			BuyerID:   req.BuyerID,
			AddressID: req.AddressID,
		}

		resp, err := h.placeOrderHandler.Handle(r.Context(), cmd)
		if err != nil {
			metrics.RecordFailure(err.Error())
			response.WriteDomainError(w, err)
			return
		}

		if resp.RedirectURL != "" {
			metrics.RecordSession()
		}
		response.WriteSuccess(w, resp)
	}
}

func (h *OrderHandler) HandleVerifyPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		refID := r.URL.Query().Get("ref_id")
		if refID == "" {
			response.WriteValidationError(w, "Validation failed", map[string]string{
				"ref_id": "ref_id is required",
			})
			return
		}

		metrics := monitoring.NewVerifyMetrics(refID)
		metrics.RecordAttempt()

		cmd := commands.VerifyPaymentCommand{ReferenceID: refID}

		resp, err := h.verifyHandler.Handle(r.Context(), cmd)
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}

		response.WriteSuccess(w, resp)
	}
}

type orderItemView struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url,omitempty"`
	UnitPrice string `json:"unit_price"`
	ItemCount int    `json:"item_count"`
}

type orderView struct {
	ID         string          `json:"id"`
	SellerID   string          `json:"seller_id"`
	AddressID  string          `json:"address_id"`
	PaymentID  string          `json:"payment_id"`
	TotalCents int64           `json:"total_cents"`
	Items      []orderItemView `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (h *OrderHandler) HandleGetOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		buyerID := r.URL.Query().Get("buyer_id")
		if buyerID == "" {
			response.WriteValidationError(w, "Validation failed", map[string]string{
				"buyer_id": "buyer_id is required",
			})
			return
		}

		orders, err := h.orderRepo.GetOrdersByBuyer(r.Context(), buyerID)
		if err != nil {
			h.log.Error("Failed to load orders", "error", err.Error(), "buyer_id", buyerID)
			response.WriteDomainError(w, err)
			return
		}

		views := make([]orderView, 0, len(orders))
		for _, order := range orders {
			views = append(views, toOrderView(order))
		}

		response.WriteSuccess(w, views)
	}
}

func toOrderView(order *store.Order) orderView {
	items := make([]orderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Title:     item.Title,
			ImageURL:  item.ImageURL,
			UnitPrice: item.UnitPrice,
			ItemCount: item.ItemCount,
		})
	}

	return orderView{
		ID:         order.ID,
		SellerID:   order.SellerID,
		AddressID:  order.AddressID,
		PaymentID:  order.PaymentID,
		TotalCents: order.TotalCents,
		Items:      items,
		CreatedAt:  order.CreatedAt,
	}
}
