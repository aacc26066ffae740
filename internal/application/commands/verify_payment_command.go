package commands

import (
	"context"

	"github.com/andrusov/storefront-service/internal/application/use_cases"
	"github.com/andrusov/storefront-service/internal/pkg/logger"
)

type VerifyPaymentCommand struct {
	ReferenceID string
}

type VerifyPaymentResponse struct {
	Status string `json:"status"`
	Link   string `json:"link,omitempty"`
}

type VerifyPaymentHandler struct {
	verifyUseCase *use_cases.VerifyUseCase
	log           *logger.Logger
}

func NewVerifyPaymentHandler(
	verifyUseCase *use_cases.VerifyUseCase,
	log *logger.Logger,
) *VerifyPaymentHandler {
	return &VerifyPaymentHandler{
		verifyUseCase: verifyUseCase,
		log:           log,
	}
}

func (h *VerifyPaymentHandler) Handle(ctx context.Context, cmd VerifyPaymentCommand) (*VerifyPaymentResponse, error) {
	h.log.Info("Processing verify request", "ref_id", cmd.ReferenceID)

	result, err := h.verifyUseCase.ExecuteVerify(ctx, cmd.ReferenceID)
	if err != nil {
		h.log.Error("Verify failed", "error", err.Error(), "ref_id", cmd.ReferenceID)
		return nil, err
	}

	return &VerifyPaymentResponse{
		Status: result.Status,
		Link:   result.Link,
	}, nil
}
