package errors

import (
	"errors"
)

// Not-found sentinels are soft conditions: callers short-circuit with an
// empty result instead of treating them as faults.
var (
	ErrBuyerNotFound = errors.New("buyer not found")
	ErrCartNotFound  = errors.New("cart not found")

	ErrBagNotFound         = errors.New("bag not found")
	ErrItemNotFound        = errors.New("cart item not found")
	ErrNoEligibleItems     = errors.New("no selected items to check out")
	ErrItemCountOutOfRange = errors.New("item count out of range")

	ErrPaymentNotFound       = errors.New("payment not found")
	ErrPaymentAlreadySettled = errors.New("payment already settled")
	ErrOrderNotFound         = errors.New("order not found")
	ErrProductNotFound       = errors.New("product not found")

	ErrInvalidPrice = errors.New("invalid price")

	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrTransactionFailed  = errors.New("transaction failed")
)
