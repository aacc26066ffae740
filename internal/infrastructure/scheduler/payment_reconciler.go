package scheduler

import (
	"context"
	"time"

	"github.com/andrusov/storefront-service/internal/application/ports"
	"github.com/andrusov/storefront-service/internal/application/use_cases"
	"github.com/andrusov/storefront-service/internal/pkg/clock"
	"github.com/andrusov/storefront-service/internal/pkg/logger"
)

const reconcileBatchSize = 100

// PaymentReconciler sweeps pending payments whose buyer never came back
// from the gateway redirect and verifies each one against the gateway.
// Settlement goes through the same conditional update as the HTTP verify
// path, so a sweep racing a buyer redirect is harmless.
type PaymentReconciler struct {
	orderRepo  ports.OrderRepository
	verify     *use_cases.VerifyUseCase
	clk        clock.Clock
	logger     *logger.Logger
	interval   time.Duration
	pendingAge time.Duration
	stopChan   chan struct{}
}

func NewPaymentReconciler(
	orderRepo ports.OrderRepository,
	verify *use_cases.VerifyUseCase,
	clk clock.Clock,
	logger *logger.Logger,
	interval time.Duration,
	pendingAge time.Duration,
) *PaymentReconciler {
	return &PaymentReconciler{
		orderRepo:  orderRepo,
		verify:     verify,
		clk:        clk,
		logger:     logger,
		interval:   interval,
		pendingAge: pendingAge,
		stopChan:   make(chan struct{}),
	}
}

func (r *PaymentReconciler) Start(ctx context.Context) {
	r.logger.Info("Starting payment reconciler",
		"interval", r.interval.String(),
		"pending_age", r.pendingAge.String(),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Payment reconciler stopped")
			return
		case <-r.stopChan:
			r.logger.Info("Payment reconciler stopped")
			return
		case <-ticker.C:
			if err := r.reconcilePending(ctx); err != nil {
				r.logger.Error("Reconcile sweep failed", "error", err)
			}
		}
	}
}

func (r *PaymentReconciler) Stop() {
	close(r.stopChan)
}

func (r *PaymentReconciler) reconcilePending(ctx context.Context) error {
	olderThan := r.clk.Now().Add(-r.pendingAge)

	refs, err := r.orderRepo.GetPendingPaymentRefs(ctx, olderThan, reconcileBatchSize)
	if err != nil {
		return err
	}

	if len(refs) == 0 {
		return nil
	}

	r.logger.Info("Reconciling pending payments", "count", len(refs))

	for _, refID := range refs {
		result, err := r.verify.ExecuteVerify(ctx, refID)
		if err != nil {
			r.logger.Error("Failed to reconcile payment", "error", err, "ref_id", refID)
			continue
		}

		r.logger.Info("Reconciled payment", "ref_id", refID, "status", result.Status)
	}

	return nil
}
