package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/andrusov/storefront-service/internal/application/ports"
	domainErrors "github.com/andrusov/storefront-service/internal/domain/errors"
	"github.com/andrusov/storefront-service/internal/domain/store"
	"github.com/andrusov/storefront-service/internal/infrastructure/http/response"
	"github.com/andrusov/storefront-service/internal/pkg/logger"
)

const snapshotTTL = 5 * time.Minute

type CartHandler struct {
	cartRepo ports.CartRepository
	cache    ports.Cache
	bounds   store.QuantityBounds
	log      *logger.Logger
}

func NewCartHandler(
	cartRepo ports.CartRepository,
	cache ports.Cache,
	bounds store.QuantityBounds,
	log *logger.Logger,
) *CartHandler {
	return &CartHandler{
		cartRepo: cartRepo,
		cache:    cache,
		bounds:   bounds,
		log:      log,
	}
}

type cartItemView struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url,omitempty"`
	UnitPrice string `json:"unit_price"`
	ItemCount int    `json:"item_count"`
}

type cartBagView struct {
	ID         string         `json:"id"`
	SellerID   string         `json:"seller_id"`
	Selected   bool           `json:"selected"`
	CheckedOut bool           `json:"checked_out"`
	Items      []cartItemView `json:"items"`
}

type cartView struct {
	ID      string        `json:"id"`
	BuyerID string        `json:"buyer_id"`
	Bags    []cartBagView `json:"bags"`
}

func (h *CartHandler) HandleGetCart() http.HandlerFunc {
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

		cartID, err := h.cartRepo.GetCartIDByBuyer(r.Context(), buyerID)
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}

		cart, err := h.cartRepo.GetCart(r.Context(), cartID)
		if err != nil {
			h.log.Error("Failed to load cart", "error", err.Error(), "cart_id", cartID)
			response.WriteDomainError(w, err)
			return
		}

		response.WriteSuccess(w, toCartView(cart))
	}
}

// HandleGetSnapshot serves the grouped checkout preview with a Redis
// read-through. A cart with nothing selected yields an empty snapshot,
// not an error.
func (h *CartHandler) HandleGetSnapshot() http.HandlerFunc {
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

		cartID, err := h.cartRepo.GetCartIDByBuyer(r.Context(), buyerID)
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}

		if cached, cacheErr := h.cache.GetCartSnapshot(r.Context(), cartID); cacheErr == nil && cached != nil {
			response.WriteSuccess(w, cached)
			return
		}

		bags, err := h.cartRepo.GetEligibleBags(r.Context(), cartID)
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}

		snapshot, err := store.BuildSnapshot(cartID, bags)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNoEligibleItems) {
				response.WriteSuccess(w, &store.CartSnapshot{CartID: cartID, Groups: []*store.SellerGroup{}})
				return
			}
			response.WriteDomainError(w, err)
			return
		}

		if cacheErr := h.cache.SetCartSnapshot(r.Context(), cartID, snapshot, snapshotTTL); cacheErr != nil {
			h.log.Warn("Failed to cache cart snapshot", "error", cacheErr, "cart_id", cartID)
		}

		response.WriteSuccess(w, snapshot)
	}
}

type updateQuantityRequest struct {
	BuyerID string `json:"buyer_id"`
	ItemID  string `json:"item_id"`
	Count   int    `json:"count"`
}

func (h *CartHandler) HandleUpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req updateQuantityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteError(w, http.StatusBadRequest, response.StatusError, "Invalid request body", err.Error())
			return
		}

		errors := make(map[string]string)
		if req.BuyerID == "" {
			errors["buyer_id"] = "buyer_id is required"
		}
		if req.ItemID == "" {
			errors["item_id"] = "item_id is required"
		}
		if len(errors) > 0 {
			response.WriteValidationError(w, "Validation failed", errors)
			return
		}

		if err := h.bounds.Validate(req.Count); err != nil {
			response.WriteDomainError(w, err)
			return
		}

		cartID, err := h.cartRepo.GetCartIDByBuyer(r.Context(), req.BuyerID)
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}

		if err := h.cartRepo.UpdateItemCount(r.Context(), req.ItemID, req.Count); err != nil {
			response.WriteDomainError(w, err)
			return
		}

		h.invalidateSnapshot(r, cartID)

		response.WriteSuccess(w, map[string]interface{}{
			"item_id": req.ItemID,
			"count":   req.Count,
		})
	}
}

type selectBagRequest struct {
	BuyerID  string `json:"buyer_id"`
	BagID    string `json:"bag_id"`
	Selected bool   `json:"selected"`
}

func (h *CartHandler) HandleSelectBag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req selectBagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteError(w, http.StatusBadRequest, response.StatusError, "Invalid request body", err.Error())
			return
		}

		errors := make(map[string]string)
		if req.BuyerID == "" {
			errors["buyer_id"] = "buyer_id is required"
		}
		if req.BagID == "" {
			errors["bag_id"] = "bag_id is required"
		}
		if len(errors) > 0 {
			response.WriteValidationError(w, "Validation failed", errors)
			return
		}

		cartID, err := h.cartRepo.GetCartIDByBuyer(r.Context(), req.BuyerID)
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}

		if err := h.cartRepo.SetBagSelected(r.Context(), req.BagID, req.Selected); err != nil {
			response.WriteDomainError(w, err)
			return
		}

		h.invalidateSnapshot(r, cartID)

		response.WriteSuccess(w, map[string]interface{}{
			"bag_id":   req.BagID,
			"selected": req.Selected,
		})
	}
}

func (h *CartHandler) invalidateSnapshot(r *http.Request, cartID string) {
	if err := h.cache.InvalidateCartSnapshot(r.Context(), cartID); err != nil {
		h.log.Warn("Failed to invalidate cart snapshot", "error", err, "cart_id", cartID)
	}
}

func toCartView(cart *store.Cart) cartView {
	bags := make([]cartBagView, 0, len(cart.Bags))
	for _, bag := range cart.Bags {
		items := make([]cartItemView, 0, len(bag.Items))
		for _, item := range bag.Items {
			items = append(items, cartItemView{
				ID:        item.ID,
				ProductID: item.ProductID,
				Title:     item.Title,
				ImageURL:  item.ImageURL,
				UnitPrice: item.UnitPrice,
				ItemCount: item.ItemCount,
			})
		}
		bags = append(bags, cartBagView{
			ID:         bag.ID,
			SellerID:   bag.SellerID,
			Selected:   bag.Selected,
			CheckedOut: bag.CheckedOut,
			Items:      items,
		})
	}

	return cartView{
		ID:      cart.ID,
		BuyerID: cart.BuyerID,
		Bags:    bags,
	}
}
