package use_cases

import (
	"context"

	"github.com/andrusov/storefront-service/internal/application/ports"
	"github.com/andrusov/storefront-service/internal/domain/identity"
)

// IdentityResolver turns an authenticated buyer id into the explicit
// identity value the checkout operations take as a parameter. Missing
// buyer or cart surfaces as a not-found sentinel, never a fault.
type IdentityResolver struct {
	cartRepo ports.CartRepository
}

func NewIdentityResolver(cartRepo ports.CartRepository) *IdentityResolver {
	return &IdentityResolver{
		cartRepo: cartRepo,
	}
}

func (r *IdentityResolver) Resolve(ctx context.Context, buyerID string) (identity.Identity, error) {
	cartID, err := r.cartRepo.GetCartIDByBuyer(ctx, buyerID)
	if err != nil {
		return identity.Identity{}, err
	}

	return identity.Identity{
		BuyerID: buyerID,
		CartID:  cartID,
	}, nil
}
