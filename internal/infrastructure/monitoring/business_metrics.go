package monitoring

type CheckoutMetrics struct {
	buyerID string
}

func NewCheckoutMetrics(buyerID string) *CheckoutMetrics {
	return &CheckoutMetrics{
		buyerID: buyerID,
	}
}

func (m *CheckoutMetrics) RecordAttempt() {
	RecordCheckoutAttempt()
}

func (m *CheckoutMetrics) RecordSession() {
	RecordCheckoutSession()
}

func (m *CheckoutMetrics) RecordFailure(reason string) {
	RecordCheckoutFailure(reason)
}

type VerifyMetrics struct {
	refID string
}

func NewVerifyMetrics(refID string) *VerifyMetrics {
	return &VerifyMetrics{
		refID: refID,
	}
}

func (m *VerifyMetrics) RecordAttempt() {
	RecordVerifyAttempt(m.refID)
}
