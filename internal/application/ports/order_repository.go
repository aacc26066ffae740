package ports

import (
	"context"
	"time"

	"github.com/andrusov/storefront-service/internal/domain/store"
)

type OrderRepository interface {
	CreatePayment(ctx context.Context, payment *store.Payment) error
	GetPaymentByRef(ctx context.Context, refID string) (*store.Payment, error)
	GetPendingPaymentRefs(ctx context.Context, olderThan time.Time, limit int) ([]string, error)
	// SettlePayment flips PENDING to SUCCESS conditionally and reports
	// whether this call performed the transition.
	SettlePayment(ctx context.Context, paymentID string) (bool, error)

	CreateOrder(ctx context.Context, order *store.Order) error
	GetOrdersByBuyer(ctx context.Context, buyerID string) ([]*store.Order, error)
	GetStockDecrements(ctx context.Context, paymentID string) ([]store.StockDecrement, error)
	DecrementProductStock(ctx context.Context, productID string, quantity int) error

	// MarkBagsCheckedOut flags every selected, not-yet-ordered bag of the
	// cart and returns how many were flagged.
	MarkBagsCheckedOut(ctx context.Context, cartID string) (int64, error)

	BeginTx(ctx context.Context) (OrderRepository, error)
	CommitTx(ctx context.Context) error
	RollbackTx(ctx context.Context) error
}
