package use_cases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/andrusov/storefront-service/internal/application/ports"
	domainErrors "github.com/andrusov/storefront-service/internal/domain/errors"
	"github.com/andrusov/storefront-service/internal/domain/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingPayment(orderRepo *MockOrderRepository) {
	orderRepo.PaymentsByRef["ref-1"] = &store.Payment{
		ID:        "sess-1",
		RefID:     "ref-1",
		Status:    store.PaymentStatusPending,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	orderRepo.Decrements["sess-1"] = []store.StockDecrement{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}
	orderRepo.Stock["p1"] = 10
	orderRepo.Stock["p2"] = 10
}

func TestVerify_UnknownReference(t *testing.T) {
	uc := NewVerifyUseCase(NewMockOrderRepository(), &MockPaymentGateway{}, NewMockCache(), testLogger())

	_, err := uc.ExecuteVerify(context.Background(), "ref-missing")
	assert.ErrorIs(t, err, domainErrors.ErrPaymentNotFound)
}

func TestVerify_OpenSessionReturnsLink(t *testing.T) {
	orderRepo := NewMockOrderRepository()
	pendingPayment(orderRepo)

	gateway := &MockPaymentGateway{
		Session: &ports.CheckoutSession{ID: "sess-1", URL: "https://pay.example.com/sess-1", Status: ports.SessionStatusOpen},
	}

	uc := NewVerifyUseCase(orderRepo, gateway, NewMockCache(), testLogger())

	result, err := uc.ExecuteVerify(context.Background(), "ref-1")
	require.NoError(t, err)

	assert.Equal(t, ports.SessionStatusOpen, result.Status)
	assert.Equal(t, "https://pay.example.com/sess-1", result.Link)

	assert.Equal(t, store.PaymentStatusPending, orderRepo.PaymentsByRef["ref-1"].Status)
	assert.Equal(t, 10, orderRepo.Stock["p1"])
}

func TestVerify_CompleteSettlesAndDecrementsStock(t *testing.T) {
	orderRepo := NewMockOrderRepository()
	pendingPayment(orderRepo)

	gateway := &MockPaymentGateway{
		Session: &ports.CheckoutSession{ID: "sess-1", Status: ports.SessionStatusComplete},
	}
	cache := NewMockCache()

	uc := NewVerifyUseCase(orderRepo, gateway, cache, testLogger())

	result, err := uc.ExecuteVerify(context.Background(), "ref-1")
	require.NoError(t, err)

	assert.Equal(t, ports.SessionStatusComplete, result.Status)
	assert.Empty(t, result.Link)

	assert.Equal(t, store.PaymentStatusSuccess, orderRepo.PaymentsByRef["ref-1"].Status)
	assert.Equal(t, 8, orderRepo.Stock["p1"])
	assert.Equal(t, 9, orderRepo.Stock["p2"])
	assert.Equal(t, ports.SessionStatusComplete, cache.PaymentStatuses["ref-1"])
}

func TestVerify_ExpiredSessionDoesNotSettle(t *testing.T) {
	orderRepo := NewMockOrderRepository()
	pendingPayment(orderRepo)

	gateway := &MockPaymentGateway{
		Session: &ports.CheckoutSession{ID: "sess-1", Status: ports.SessionStatusExpired},
	}

	uc := NewVerifyUseCase(orderRepo, gateway, NewMockCache(), testLogger())

	result, err := uc.ExecuteVerify(context.Background(), "ref-1")
	require.NoError(t, err)

	assert.Equal(t, ports.SessionStatusExpired, result.Status)
	assert.Equal(t, store.PaymentStatusPending, orderRepo.PaymentsByRef["ref-1"].Status)
	assert.Equal(t, 10, orderRepo.Stock["p1"])
}

func TestVerify_SecondCallDecrementsOnce(t *testing.T) {
	orderRepo := NewMockOrderRepository()
	pendingPayment(orderRepo)

	gateway := &MockPaymentGateway{
		Session: &ports.CheckoutSession{ID: "sess-1", Status: ports.SessionStatusComplete},
	}
	cache := NewMockCache()

	uc := NewVerifyUseCase(orderRepo, gateway, cache, testLogger())

	_, err := uc.ExecuteVerify(context.Background(), "ref-1")
	require.NoError(t, err)

	// Drop the cached status so the second call hits the gateway and the
	// conditional settle, not the cache short-circuit.
	delete(cache.PaymentStatuses, "ref-1")

	result, err := uc.ExecuteVerify(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, ports.SessionStatusComplete, result.Status)

	assert.Equal(t, 8, orderRepo.Stock["p1"])
	assert.Equal(t, 9, orderRepo.Stock["p2"])
}

func TestVerify_CachedStatusShortCircuitsGateway(t *testing.T) {
	orderRepo := NewMockOrderRepository()
	pendingPayment(orderRepo)

	gateway := &MockPaymentGateway{
		Session: &ports.CheckoutSession{ID: "sess-1", Status: ports.SessionStatusComplete},
	}
	cache := NewMockCache()

	uc := NewVerifyUseCase(orderRepo, gateway, cache, testLogger())

	_, err := uc.ExecuteVerify(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.GetCalls)

	result, err := uc.ExecuteVerify(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, ports.SessionStatusComplete, result.Status)
	assert.Equal(t, 1, gateway.GetCalls)
}

func TestVerify_ConcurrentCallsDecrementOnce(t *testing.T) {
	orderRepo := NewMockOrderRepository()
	pendingPayment(orderRepo)

	gateway := &MockPaymentGateway{
		Session: &ports.CheckoutSession{ID: "sess-1", Status: ports.SessionStatusComplete},
	}

	uc := NewVerifyUseCase(orderRepo, gateway, NewMockCache(), testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := uc.ExecuteVerify(context.Background(), "ref-1")
			assert.NoError(t, err)
			assert.Equal(t, ports.SessionStatusComplete, result.Status)
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, orderRepo.Stock["p1"])
	assert.Equal(t, 9, orderRepo.Stock["p2"])
	assert.Equal(t, store.PaymentStatusSuccess, orderRepo.PaymentsByRef["ref-1"].Status)
}

func TestVerify_GatewayError(t *testing.T) {
	orderRepo := NewMockOrderRepository()
	pendingPayment(orderRepo)

	gateway := &MockPaymentGateway{GetErr: domainErrors.ErrGatewayUnavailable}

	uc := NewVerifyUseCase(orderRepo, gateway, NewMockCache(), testLogger())

	_, err := uc.ExecuteVerify(context.Background(), "ref-1")
	assert.ErrorIs(t, err, domainErrors.ErrGatewayUnavailable)
	assert.Equal(t, store.PaymentStatusPending, orderRepo.PaymentsByRef["ref-1"].Status)
}
