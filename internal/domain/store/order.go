package store

import (
	"errors"
	"time"
)

// Order covers one seller group of a checkout attempt. It references the
// bag items it was built from but does not own their lifecycle: bags stay
// in the cart and are only flagged as checked out.
type Order struct {
	ID         string
	AddressID  string
	BuyerID    string
	SellerID   string
	PaymentID  string
	TotalCents int64
	Items      []*Item
	CreatedAt  time.Time
}

func NewOrder(id, addressID, buyerID string, group *SellerGroup, paymentID string, now time.Time) (*Order, error) {
	if id == "" {
		return nil, errors.New("order id cannot be empty")
	}
	if addressID == "" {
		return nil, errors.New("address id cannot be empty")
	}
	if paymentID == "" {
		return nil, errors.New("payment id cannot be empty")
	}
	if len(group.Items) == 0 {
		return nil, errors.New("seller group has no items")
	}

	return &Order{
		ID:         id,
		AddressID:  addressID,
		BuyerID:    buyerID,
		SellerID:   group.SellerID,
		PaymentID:  paymentID,
		TotalCents: group.SubtotalCents,
		Items:      group.Items,
		CreatedAt:  now,
	}, nil
}

// StockDecrement is one product quantity to subtract once the payment
// settles.
type StockDecrement struct {
	ProductID string
	Quantity  int
}
