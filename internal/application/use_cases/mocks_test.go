package use_cases

import (
	"context"
	"sync"
	"time"

	"github.com/andrusov/storefront-service/internal/application/ports"
	domainErrors "github.com/andrusov/storefront-service/internal/domain/errors"
	"github.com/andrusov/storefront-service/internal/domain/store"
)

// MockCartRepository implements ports.CartRepository for testing
type MockCartRepository struct {
	CartIDByBuyer map[string]string
	Carts         map[string]*store.Cart
	EligibleBags  map[string][]*store.Bag
	Err           error

	UpdatedCounts map[string]int
	SelectedBags  map[string]bool
}

func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		CartIDByBuyer: make(map[string]string),
		Carts:         make(map[string]*store.Cart),
		EligibleBags:  make(map[string][]*store.Bag),
		UpdatedCounts: make(map[string]int),
		SelectedBags:  make(map[string]bool),
	}
}

func (m *MockCartRepository) GetCartIDByBuyer(_ context.Context, buyerID string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	cartID, ok := m.CartIDByBuyer[buyerID]
	if !ok {
		return "", domainErrors.ErrBuyerNotFound
	}
	if cartID == "" {
		return "", domainErrors.ErrCartNotFound
	}
	return cartID, nil
}

func (m *MockCartRepository) GetCart(_ context.Context, cartID string) (*store.Cart, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	cart, ok := m.Carts[cartID]
	if !ok {
		return nil, domainErrors.ErrCartNotFound
	}
	return cart, nil
}

func (m *MockCartRepository) GetEligibleBags(_ context.Context, cartID string) ([]*store.Bag, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.EligibleBags[cartID], nil
}

func (m *MockCartRepository) UpdateItemCount(_ context.Context, itemID string, count int) error {
	if m.Err != nil {
		return m.Err
	}
	m.UpdatedCounts[itemID] = count
	return nil
}

func (m *MockCartRepository) SetBagSelected(_ context.Context, bagID string, selected bool) error {
	if m.Err != nil {
		return m.Err
	}
	m.SelectedBags[bagID] = selected
	return nil
}

// MockOrderRepository implements ports.OrderRepository for testing. It is
// safe for concurrent use so verify races can be exercised directly.
type MockOrderRepository struct {
	mu sync.Mutex

	PaymentsByRef map[string]*store.Payment
	Decrements    map[string][]store.StockDecrement
	Stock         map[string]int
	PendingRefs   []string

	Orders        []*store.Order
	BagsFlagged   int64
	SettleCalls   int
	CommitCalls   int
	RollbackCalls int

	CreatePaymentErr error
	CreateOrderErr   error
	BeginTxErr       error
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		PaymentsByRef: make(map[string]*store.Payment),
		Decrements:    make(map[string][]store.StockDecrement),
		Stock:         make(map[string]int),
	}
}

func (m *MockOrderRepository) CreatePayment(_ context.Context, payment *store.Payment) error {
	if m.CreatePaymentErr != nil {
		return m.CreatePaymentErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PaymentsByRef[payment.RefID] = payment
	return nil
}

func (m *MockOrderRepository) GetPaymentByRef(_ context.Context, refID string) (*store.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.PaymentsByRef[refID]
	if !ok {
		return nil, domainErrors.ErrPaymentNotFound
	}
	copied := *payment
	return &copied, nil
}

func (m *MockOrderRepository) GetPendingPaymentRefs(_ context.Context, _ time.Time, _ int) ([]string, error) {
	return m.PendingRefs, nil
}

func (m *MockOrderRepository) SettlePayment(_ context.Context, paymentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SettleCalls++
	for _, payment := range m.PaymentsByRef {
		if payment.ID == paymentID && payment.Status == store.PaymentStatusPending {
			payment.Status = store.PaymentStatusSuccess
			return true, nil
		}
	}
	return false, nil
}

func (m *MockOrderRepository) CreateOrder(_ context.Context, order *store.Order) error {
	if m.CreateOrderErr != nil {
		return m.CreateOrderErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Orders = append(m.Orders, order)
	return nil
}

func (m *MockOrderRepository) GetOrdersByBuyer(_ context.Context, buyerID string) ([]*store.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []*store.Order
	for _, order := range m.Orders {
		if order.BuyerID == buyerID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (m *MockOrderRepository) GetStockDecrements(_ context.Context, paymentID string) ([]store.StockDecrement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Decrements[paymentID], nil
}

func (m *MockOrderRepository) DecrementProductStock(_ context.Context, productID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Stock[productID]; !ok {
		return domainErrors.ErrProductNotFound
	}
	m.Stock[productID] -= quantity
	return nil
}

func (m *MockOrderRepository) MarkBagsCheckedOut(_ context.Context, _ string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BagsFlagged++
	return m.BagsFlagged, nil
}

func (m *MockOrderRepository) BeginTx(_ context.Context) (ports.OrderRepository, error) {
	if m.BeginTxErr != nil {
		return nil, m.BeginTxErr
	}
	return m, nil
}

func (m *MockOrderRepository) CommitTx(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CommitCalls++
	return nil
}

func (m *MockOrderRepository) RollbackTx(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RollbackCalls++
	return nil
}

// MockPaymentGateway implements ports.PaymentGateway for testing
type MockPaymentGateway struct {
	Session      *ports.CheckoutSession
	CreateErr    error
	GetErr       error
	CreatedLines []ports.SessionLine
	CreatedRef   string

	mu       sync.Mutex
	GetCalls int
}

func (m *MockPaymentGateway) CreateSession(_ context.Context, referenceID string, lines []ports.SessionLine) (*ports.CheckoutSession, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.CreatedRef = referenceID
	m.CreatedLines = lines
	return m.Session, nil
}

func (m *MockPaymentGateway) GetSession(_ context.Context, _ string) (*ports.CheckoutSession, error) {
	m.mu.Lock()
	m.GetCalls++
	m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Session, nil
}

// MockCache implements ports.Cache for testing
type MockCache struct {
	mu sync.Mutex

	Snapshots       map[string]*store.CartSnapshot
	PaymentStatuses map[string]string
	Locks           map[string]bool
	Invalidated     []string
}

func NewMockCache() *MockCache {
	return &MockCache{
		Snapshots:       make(map[string]*store.CartSnapshot),
		PaymentStatuses: make(map[string]string),
		Locks:           make(map[string]bool),
	}
}

func (m *MockCache) GetCartSnapshot(_ context.Context, cartID string) (*store.CartSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Snapshots[cartID], nil
}

func (m *MockCache) SetCartSnapshot(_ context.Context, cartID string, snapshot *store.CartSnapshot, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Snapshots[cartID] = snapshot
	return nil
}

func (m *MockCache) InvalidateCartSnapshot(_ context.Context, cartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Snapshots, cartID)
	m.Invalidated = append(m.Invalidated, cartID)
	return nil
}

func (m *MockCache) GetPaymentStatus(_ context.Context, refID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PaymentStatuses[refID], nil
}

func (m *MockCache) SetPaymentStatus(_ context.Context, refID, status string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PaymentStatuses[refID] = status
	return nil
}

func (m *MockCache) DistributedLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Locks[key] {
		return false, nil
	}
	m.Locks[key] = true
	return true, nil
}

func (m *MockCache) ReleaseLock(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Locks, key)
	return nil
}
