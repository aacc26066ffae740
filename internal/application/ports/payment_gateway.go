package ports

import (
	"context"
)

const (
	SessionStatusOpen     = "open"
	SessionStatusComplete = "complete"
	SessionStatusExpired  = "expired"
)

// SessionLine is one catalog line of a hosted checkout session.
type SessionLine struct {
	Name            string
	ImageURL        string
	UnitAmountCents int64
	Quantity        int
}

type CheckoutSession struct {
	ID     string
	URL    string
	Status string
}

type PaymentGateway interface {
	CreateSession(ctx context.Context, referenceID string, lines []SessionLine) (*CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}
