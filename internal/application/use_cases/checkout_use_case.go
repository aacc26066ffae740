package use_cases

import (
	"context"
	"fmt"

	"github.com/andrusov/storefront-service/internal/application/ports"
	"github.com/andrusov/storefront-service/internal/domain/store"
	"github.com/andrusov/storefront-service/internal/pkg/clock"
	"github.com/andrusov/storefront-service/internal/pkg/generator"
	"github.com/andrusov/storefront-service/internal/pkg/logger"
)

// CheckoutUseCase runs the place-order sequence: resolve the buyer's
// cart, open a hosted checkout session at the gateway, then persist the
// payment, the per-seller orders, and the bag flags in one transaction.
// The session is created before the transaction because orders reference
// the session id; a transaction failure leaves the cart untouched and
// retryable.
type CheckoutUseCase struct {
	resolver  *IdentityResolver
	cartRepo  ports.CartRepository
	orderRepo ports.OrderRepository
	gateway   ports.PaymentGateway
	cache     ports.Cache
	ids       *generator.IDGenerator
	clk       clock.Clock
	log       *logger.Logger
}

func NewCheckoutUseCase(
	cartRepo ports.CartRepository,
	orderRepo ports.OrderRepository,
	gateway ports.PaymentGateway,
	cache ports.Cache,
	ids *generator.IDGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		resolver:  NewIdentityResolver(cartRepo),
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		gateway:   gateway,
		cache:     cache,
		ids:       ids,
		clk:       clk,
		log:       log,
	}
}

// ExecutePlaceOrder returns the gateway redirect URL for the new session.
// Not-found sentinels (buyer, cart, eligible items) pass through to the
// caller, which treats them as "nothing to do".
func (uc *CheckoutUseCase) ExecutePlaceOrder(ctx context.Context, buyerID, addressID string) (string, error) {
	ident, err := uc.resolver.Resolve(ctx, buyerID)
	if err != nil {
		return "", err
	}

	bags, err := uc.cartRepo.GetEligibleBags(ctx, ident.CartID)
	if err != nil {
		return "", err
	}

	snapshot, err := store.BuildSnapshot(ident.CartID, bags)
	if err != nil {
		return "", err
	}

	lines, err := sessionLines(snapshot)
	if err != nil {
		return "", err
	}

	refID := uc.ids.NewReferenceID()

	session, err := uc.gateway.CreateSession(ctx, refID, lines)
	if err != nil {
		uc.log.Error("Failed to create checkout session", "error", err, "ref_id", refID, "cart_id", ident.CartID)
		return "", err
	}

	payment, err := store.NewPayment(session.ID, refID, uc.clk.Now())
	if err != nil {
		return "", err
	}

	txRepo, err := uc.orderRepo.BeginTx(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = txRepo.RollbackTx(ctx)
		}
	}()

	if err = txRepo.CreatePayment(ctx, payment); err != nil {
		return "", fmt.Errorf("failed to create payment: %w", err)
	}

	for _, group := range snapshot.Groups {
		var order *store.Order
		order, err = store.NewOrder(uc.ids.NewOrderID(), addressID, ident.BuyerID, group, payment.ID, uc.clk.Now())
		if err != nil {
			return "", err
		}

		if err = txRepo.CreateOrder(ctx, order); err != nil {
			return "", fmt.Errorf("failed to create order for seller %s: %w", group.SellerID, err)
		}
	}

	flagged, err := txRepo.MarkBagsCheckedOut(ctx, ident.CartID)
	if err != nil {
		return "", fmt.Errorf("failed to flag bags: %w", err)
	}

	if err = txRepo.CommitTx(ctx); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	if cacheErr := uc.cache.InvalidateCartSnapshot(ctx, ident.CartID); cacheErr != nil {
		uc.log.Warn("Failed to invalidate cart snapshot", "error", cacheErr, "cart_id", ident.CartID)
	}

	uc.log.Info("Checkout session placed",
		"ref_id", refID,
		"session_id", session.ID,
		"buyer_id", ident.BuyerID,
		"cart_id", ident.CartID,
		"seller_groups", len(snapshot.Groups),
		"bags_flagged", flagged,
		"total_cents", snapshot.TotalCents,
	)

	return session.URL, nil
}

func sessionLines(snapshot *store.CartSnapshot) ([]ports.SessionLine, error) {
	items := snapshot.Lines()
	lines := make([]ports.SessionLine, 0, len(items))
	for _, item := range items {
		unitCents, err := store.ToCents(item.UnitPrice)
		if err != nil {
			return nil, err
		}
		lines = append(lines, ports.SessionLine{
			Name:            item.Title,
			ImageURL:        item.ImageURL,
			UnitAmountCents: unitCents,
			Quantity:        item.ItemCount,
		})
	}
	return lines, nil
}
