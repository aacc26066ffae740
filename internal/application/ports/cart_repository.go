package ports

import (
	"context"

	"github.com/andrusov/storefront-service/internal/domain/store"
)

type CartRepository interface {
	// GetCartIDByBuyer distinguishes a missing buyer from a buyer without
	// a cart via ErrBuyerNotFound / ErrCartNotFound.
	GetCartIDByBuyer(ctx context.Context, buyerID string) (string, error)
	GetCart(ctx context.Context, cartID string) (*store.Cart, error)
	GetEligibleBags(ctx context.Context, cartID string) ([]*store.Bag, error)

	UpdateItemCount(ctx context.Context, itemID string, count int) error
	SetBagSelected(ctx context.Context, bagID string, selected bool) error
}
