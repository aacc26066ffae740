package response

import (
	"fmt"
	"net/http"
	"testing"

	domainErrors "github.com/andrusov/storefront-service/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   Status
	}{
		{domainErrors.ErrBuyerNotFound, http.StatusNotFound, StatusNotFound},
		{domainErrors.ErrCartNotFound, http.StatusNotFound, StatusNotFound},
		{domainErrors.ErrPaymentNotFound, http.StatusNotFound, StatusNotFound},
		{domainErrors.ErrItemCountOutOfRange, http.StatusBadRequest, StatusError},
		{domainErrors.ErrNoEligibleItems, http.StatusBadRequest, StatusError},
		{domainErrors.ErrPaymentAlreadySettled, http.StatusConflict, StatusConflict},
		{domainErrors.ErrGatewayUnavailable, http.StatusBadGateway, StatusBadGateway},
		{domainErrors.ErrTransactionFailed, http.StatusInternalServerError, StatusInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, resp := MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, resp)
			assert.Equal(t, string(tt.wantCode), resp.Code)
		})
	}
}

func TestMapDomainError_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("loading payment: %w", domainErrors.ErrPaymentNotFound)

	status, _ := MapDomainError(wrapped)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMapDomainError_UnknownError(t *testing.T) {
	status, resp := MapDomainError(fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, string(StatusInternalError), resp.Code)
}
