package use_cases

import (
	"context"
	"fmt"
	"time"

	"github.com/andrusov/storefront-service/internal/application/ports"
	"github.com/andrusov/storefront-service/internal/domain/store"
	"github.com/andrusov/storefront-service/internal/pkg/logger"
)

// VerifyUseCase reconciles a local payment with its gateway session. The
// PENDING to SUCCESS flip and the stock decrements run in one transaction
// guarded by a conditional update, so concurrent verifications of the
// same reference id decrement stock exactly once: the loser of the race
// sees zero rows flipped and skips the decrement loop entirely. The Redis
// lock only collapses duplicate gateway lookups and is never required for
// correctness.
type VerifyUseCase struct {
	orderRepo ports.OrderRepository
	gateway   ports.PaymentGateway
	cache     ports.Cache
	log       *logger.Logger

	lockTimeout time.Duration
	statusTTL   time.Duration
}

type VerifyResult struct {
	Status string `json:"status"`
	Link   string `json:"link,omitempty"`
}

func NewVerifyUseCase(
	orderRepo ports.OrderRepository,
	gateway ports.PaymentGateway,
	cache ports.Cache,
	log *logger.Logger,
) *VerifyUseCase {
	return &VerifyUseCase{
		orderRepo:   orderRepo,
		gateway:     gateway,
		cache:       cache,
		log:         log,
		lockTimeout: 5 * time.Second,
		statusTTL:   24 * time.Hour,
	}
}

func (uc *VerifyUseCase) ExecuteVerify(ctx context.Context, refID string) (*VerifyResult, error) {
	if cached, err := uc.cache.GetPaymentStatus(ctx, refID); err == nil && cached == ports.SessionStatusComplete {
		return &VerifyResult{Status: ports.SessionStatusComplete}, nil
	}

	payment, err := uc.orderRepo.GetPaymentByRef(ctx, refID)
	if err != nil {
		return nil, err
	}

	lockKey := fmt.Sprintf("verify:%s", refID)
	locked, lockErr := uc.cache.DistributedLock(ctx, lockKey, uc.lockTimeout)
	if lockErr != nil {
		uc.log.Warn("Failed to acquire verify lock", "error", lockErr, "ref_id", refID)
	}
	if locked {
		defer func() {
			if err := uc.cache.ReleaseLock(ctx, lockKey); err != nil {
				uc.log.Error("Failed to release verify lock", "error", err, "lock_key", lockKey)
			}
		}()
	}

	session, err := uc.gateway.GetSession(ctx, payment.ID)
	if err != nil {
		uc.log.Error("Failed to retrieve checkout session", "error", err, "session_id", payment.ID, "ref_id", refID)
		return nil, err
	}

	switch session.Status {
	case ports.SessionStatusOpen:
		return &VerifyResult{Status: ports.SessionStatusOpen, Link: session.URL}, nil

	case ports.SessionStatusComplete:
		if payment.Status != store.PaymentStatusSuccess {
			if err := uc.reconcile(ctx, payment); err != nil {
				return nil, err
			}
		}

		if cacheErr := uc.cache.SetPaymentStatus(ctx, refID, ports.SessionStatusComplete, uc.statusTTL); cacheErr != nil {
			uc.log.Warn("Failed to cache payment status", "error", cacheErr, "ref_id", refID)
		}

		return &VerifyResult{Status: ports.SessionStatusComplete}, nil

	default:
		return &VerifyResult{Status: session.Status}, nil
	}
}

// reconcile commits the stock effects of a completed session. The
// conditional settle is the idempotency guard; decrements only run in the
// transaction that actually performed the flip.
func (uc *VerifyUseCase) reconcile(ctx context.Context, payment *store.Payment) error {
	txRepo, err := uc.orderRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = txRepo.RollbackTx(ctx)
		}
	}()

	settled, err := txRepo.SettlePayment(ctx, payment.ID)
	if err != nil {
		return fmt.Errorf("failed to settle payment: %w", err)
	}

	if !settled {
		// Another verification already reconciled this payment.
		if err = txRepo.CommitTx(ctx); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		uc.log.Info("Payment already settled", "payment_id", payment.ID, "ref_id", payment.RefID)
		return nil
	}

	decrements, err := txRepo.GetStockDecrements(ctx, payment.ID)
	if err != nil {
		return fmt.Errorf("failed to load stock decrements: %w", err)
	}

	for _, dec := range decrements {
		if err = txRepo.DecrementProductStock(ctx, dec.ProductID, dec.Quantity); err != nil {
			return fmt.Errorf("failed to decrement stock for product %s: %w", dec.ProductID, err)
		}
	}

	if err = txRepo.CommitTx(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	uc.log.Info("Payment reconciled",
		"payment_id", payment.ID,
		"ref_id", payment.RefID,
		"products_decremented", len(decrements),
	)

	return nil
}
