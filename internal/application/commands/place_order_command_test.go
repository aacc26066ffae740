package commands

import (
	"context"
	"io"
	"testing"

	"github.com/andrusov/storefront-service/internal/application/use_cases"
	domainErrors "github.com/andrusov/storefront-service/internal/domain/errors"
	"github.com/andrusov/storefront-service/internal/domain/store"
	"github.com/andrusov/storefront-service/internal/pkg/clock"
	"github.com/andrusov/storefront-service/internal/pkg/generator"
	"github.com/andrusov/storefront-service/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCartRepository covers only the lookups the soft precondition paths
// reach; checkout never gets as far as the gateway or the order store.
type stubCartRepository struct {
	cartID string
	err    error
}

func (s *stubCartRepository) GetCartIDByBuyer(context.Context, string) (string, error) {
	return s.cartID, s.err
}

func (s *stubCartRepository) GetCart(context.Context, string) (*store.Cart, error) {
	return nil, domainErrors.ErrCartNotFound
}

func (s *stubCartRepository) GetEligibleBags(context.Context, string) ([]*store.Bag, error) {
	return nil, nil
}

func (s *stubCartRepository) UpdateItemCount(context.Context, string, int) error {
	return nil
}

func (s *stubCartRepository) SetBagSelected(context.Context, string, bool) error {
	return nil
}

func newHandler(cartRepo *stubCartRepository) *PlaceOrderHandler {
	log := logger.NewLoggerWithOutput(io.Discard)
	uc := use_cases.NewCheckoutUseCase(
		cartRepo,
		nil,
		nil,
		nil,
		generator.NewIDGenerator(),
		clock.NewRealClock(),
		log,
	)
	return NewPlaceOrderHandler(uc, log)
}

func TestPlaceOrderHandler_MissingBuyerIsSoft(t *testing.T) {
	handler := newHandler(&stubCartRepository{err: domainErrors.ErrBuyerNotFound})

	resp, err := handler.Handle(context.Background(), PlaceOrderCommand{BuyerID: "ghost", AddressID: "addr-1"})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Empty(t, resp.RedirectURL)
}

func TestPlaceOrderHandler_MissingCartIsSoft(t *testing.T) {
	handler := newHandler(&stubCartRepository{err: domainErrors.ErrCartNotFound})

	resp, err := handler.Handle(context.Background(), PlaceOrderCommand{BuyerID: "buyer-1", AddressID: "addr-1"})

	require.NoError(t, err)
	assert.Empty(t, resp.RedirectURL)
}

func TestPlaceOrderHandler_EmptySelectionIsSoft(t *testing.T) {
	handler := newHandler(&stubCartRepository{cartID: "cart-1"})

	resp, err := handler.Handle(context.Background(), PlaceOrderCommand{BuyerID: "buyer-1", AddressID: "addr-1"})

	require.NoError(t, err)
	assert.Empty(t, resp.RedirectURL)
}

func TestPlaceOrderHandler_HardErrorPassesThrough(t *testing.T) {
	handler := newHandler(&stubCartRepository{err: domainErrors.ErrTransactionFailed})

	resp, err := handler.Handle(context.Background(), PlaceOrderCommand{BuyerID: "buyer-1", AddressID: "addr-1"})

	assert.ErrorIs(t, err, domainErrors.ErrTransactionFailed)
	assert.Nil(t, resp)
}
