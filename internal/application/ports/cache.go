package ports

import (
	"context"
	"time"

	"github.com/andrusov/storefront-service/internal/domain/store"
)

type Cache interface {
	// Snapshot lookups return (nil, nil) on a miss.
	GetCartSnapshot(ctx context.Context, cartID string) (*store.CartSnapshot, error)
	SetCartSnapshot(ctx context.Context, cartID string, snapshot *store.CartSnapshot, expiration time.Duration) error
	InvalidateCartSnapshot(ctx context.Context, cartID string) error

	// Terminal session status per reference id; "" on a miss.
	GetPaymentStatus(ctx context.Context, refID string) (string, error)
	SetPaymentStatus(ctx context.Context, refID, status string, expiration time.Duration) error

	DistributedLock(ctx context.Context, key string, expiration time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}
