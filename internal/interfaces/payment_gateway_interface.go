package interfaces

import (
	"context"

	"campusmarket/internal/gateway"
)

type PaymentGateway interface {
	VerifyTransaction(ctx context.Context, reference string) (*gateway.VerificationResult, error)
}
