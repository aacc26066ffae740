package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andrusov/storefront-service/internal/application/ports"
	"github.com/andrusov/storefront-service/internal/domain/store"
	"github.com/andrusov/storefront-service/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOrderRepo overrides only the read the handler under test touches.
type stubOrderRepo struct {
	ports.OrderRepository
	orders []*store.Order
}

func (s *stubOrderRepo) GetOrdersByBuyer(context.Context, string) ([]*store.Order, error) {
	return s.orders, nil
}

func testLog() *logger.Logger {
	return logger.NewLoggerWithOutput(io.Discard)
}

func TestHandlePlaceOrder_ValidationErrors(t *testing.T) {
	handler := NewOrderHandler(nil, nil, nil, testLog())

	req := httptest.NewRequest(http.MethodPost, "/orders/place", strings.NewReader(`{"buyer_id": ""}`))
	rec := httptest.NewRecorder()

	handler.HandlePlaceOrder()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "buyer_id is required")
	assert.Contains(t, rec.Body.String(), "address_id is required")
}

func TestHandlePlaceOrder_InvalidBody(t *testing.T) {
	handler := NewOrderHandler(nil, nil, nil, testLog())

	req := httptest.NewRequest(http.MethodPost, "/orders/place", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	handler.HandlePlaceOrder()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePlaceOrder_MethodNotAllowed(t *testing.T) {
	handler := NewOrderHandler(nil, nil, nil, testLog())

	req := httptest.NewRequest(http.MethodGet, "/orders/place", nil)
	rec := httptest.NewRecorder()

	handler.HandlePlaceOrder()(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleVerifyPayment_MissingRef(t *testing.T) {
	handler := NewOrderHandler(nil, nil, nil, testLog())

	req := httptest.NewRequest(http.MethodGet, "/orders/verify", nil)
	rec := httptest.NewRecorder()

	handler.HandleVerifyPayment()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ref_id is required")
}

func TestHandleGetOrders(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubOrderRepo{orders: []*store.Order{
		{
			ID:         "ORD-1",
			SellerID:   "seller-a",
			AddressID:  "addr-1",
			BuyerID:    "buyer-1",
			PaymentID:  "sess-1",
			TotalCents: 2500,
			Items: []*store.Item{
				{ID: "i1", ProductID: "p1", Title: "Mug", UnitPrice: "10.00", ItemCount: 2},
			},
			CreatedAt: now,
		},
	}}

	handler := NewOrderHandler(nil, nil, repo, testLog())

	req := httptest.NewRequest(http.MethodGet, "/orders?buyer_id=buyer-1", nil)
	rec := httptest.NewRecorder()

	handler.HandleGetOrders()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var views []orderView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "ORD-1", views[0].ID)
	assert.Equal(t, int64(2500), views[0].TotalCents)
	require.Len(t, views[0].Items, 1)
	assert.Equal(t, "10.00", views[0].Items[0].UnitPrice)
}

func TestHandleGetOrders_MissingBuyer(t *testing.T) {
	handler := NewOrderHandler(nil, nil, &stubOrderRepo{}, testLog())

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rec := httptest.NewRecorder()

	handler.HandleGetOrders()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
