package response

import (
	"errors"
	"net/http"

	domainErrors "github.com/andrusov/storefront-service/internal/domain/errors"
)

type ErrorMapping struct {
	HTTPStatus int
	Status     Status
	Message    string
}

var errorMappings = map[error]ErrorMapping{
	domainErrors.ErrBuyerNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Buyer not found",
	},
	domainErrors.ErrCartNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Cart not found",
	},
	domainErrors.ErrBagNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Bag not found",
	},
	domainErrors.ErrItemNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Cart item not found",
	},
	domainErrors.ErrNoEligibleItems: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "No selected items to check out",
	},
	domainErrors.ErrItemCountOutOfRange: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Item count out of range",
	},
	domainErrors.ErrPaymentNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Payment not found",
	},
	domainErrors.ErrPaymentAlreadySettled: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "Payment already settled",
	},
	domainErrors.ErrOrderNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Order not found",
	},
	domainErrors.ErrProductNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Product not found",
	},
	domainErrors.ErrInvalidPrice: {
		HTTPStatus: http.StatusInternalServerError,
		Status:     StatusInternalError,
		Message:    "Invalid price data",
	},
	domainErrors.ErrGatewayUnavailable: {
		HTTPStatus: http.StatusBadGateway,
		Status:     StatusBadGateway,
		Message:    "Payment gateway unavailable",
	},
	domainErrors.ErrTransactionFailed: {
		HTTPStatus: http.StatusInternalServerError,
		Status:     StatusInternalError,
		Message:    "Transaction failed",
	},
}

func MapDomainError(err error) (int, *ErrorResponse) {
	for domainErr, mapping := range errorMappings {
		if errors.Is(err, domainErr) {
			return mapping.HTTPStatus, Error(mapping.Status, mapping.Message, err.Error())
		}
	}

	return http.StatusInternalServerError, Error(StatusInternalError, "Internal server error", err.Error())
}

func WriteDomainError(w http.ResponseWriter, err error) {
	statusCode, errorResponse := MapDomainError(err)
	WriteJSON(w, statusCode, errorResponse)
}
