package ports

import (
	"context"

	"github.com/kevin07696/billing-service/internal/domain/models"
)

// PaymentLogRepository is the append-only attempt audit trail.
// Entries are never updated or deleted.
type PaymentLogRepository interface {
	Create(ctx context.Context, tx DBTX, log *models.PaymentLog) error
}
