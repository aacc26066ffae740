package commands

import (
	"context"
	"errors"

	"github.com/andrusov/storefront-service/internal/application/use_cases"
	domainErrors "github.com/andrusov/storefront-service/internal/domain/errors"
	"github.com/andrusov/storefront-service/internal/pkg/logger"
)

type PlaceOrderCommand struct {
	BuyerID   string
	AddressID string
}

// PlaceOrderResponse carries the gateway redirect URL. An empty URL means
// a precondition failed softly (no buyer, no cart, nothing selected) and
// there is nothing to pay for.
type PlaceOrderResponse struct {
	RedirectURL string `json:"redirect_url"`
}

type PlaceOrderHandler struct {
	checkoutUseCase *use_cases.CheckoutUseCase
	log             *logger.Logger
}

func NewPlaceOrderHandler(
	checkoutUseCase *use_cases.CheckoutUseCase,
	log *logger.Logger,
) *PlaceOrderHandler {
	return &PlaceOrderHandler{
		checkoutUseCase: checkoutUseCase,
		log:             log,
	}
}

func (h *PlaceOrderHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*PlaceOrderResponse, error) {
	h.log.Info("Processing place order request", "buyer_id", cmd.BuyerID, "address_id", cmd.AddressID)

	redirectURL, err := h.checkoutUseCase.ExecutePlaceOrder(ctx, cmd.BuyerID, cmd.AddressID)
	if err != nil {
		if isSoftPrecondition(err) {
			h.log.Info("Nothing to check out", "buyer_id", cmd.BuyerID, "reason", err.Error())
			return &PlaceOrderResponse{}, nil
		}
		h.log.Error("Place order failed", "error", err.Error(), "buyer_id", cmd.BuyerID)
		return nil, err
	}

	return &PlaceOrderResponse{RedirectURL: redirectURL}, nil
}

func isSoftPrecondition(err error) bool {
	return errors.Is(err, domainErrors.ErrBuyerNotFound) ||
		errors.Is(err, domainErrors.ErrCartNotFound) ||
		errors.Is(err, domainErrors.ErrNoEligibleItems)
}
