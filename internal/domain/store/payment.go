package store

import (
	"errors"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
)

// Payment tracks one hosted checkout session. Its id equals the gateway
// session id; RefID is the locally generated correlation token. The only
// legal transition is PENDING to SUCCESS, exactly once.
type Payment struct {
	ID        string
	RefID     string
	Status    PaymentStatus
	CreatedAt time.Time
}

func NewPayment(sessionID, refID string, now time.Time) (*Payment, error) {
	if sessionID == "" {
		return nil, errors.New("session id cannot be empty")
	}
	if refID == "" {
		return nil, errors.New("reference id cannot be empty")
	}

	return &Payment{
		ID:        sessionID,
		RefID:     refID,
		Status:    PaymentStatusPending,
		CreatedAt: now,
	}, nil
}

func (p *Payment) IsSettled() bool {
	return p.Status == PaymentStatusSuccess
}
