package postgres

import (
	"context"
	"fmt"

	"github.com/kevin07696/billing-service/internal/domain/models"
	"github.com/kevin07696/billing-service/internal/domain/ports"
)

// PaymentLogRepository implements the append-only attempt audit trail.
// There is deliberately no update or delete path.
type PaymentLogRepository struct {
	db ports.DBPort
}

// NewPaymentLogRepository creates a new payment log repository
func NewPaymentLogRepository(db ports.DBPort) *PaymentLogRepository {
	return &PaymentLogRepository{db: db}
}

// Create appends one audit record
func (r *PaymentLogRepository) Create(ctx context.Context, tx ports.DBTX, log *models.PaymentLog) error {
	q := ports.DBTX(tx)
	if q == nil {
		q = r.db.GetDB()
	}

	_, err := q.Exec(ctx, `
		INSERT INTO payment_logs (id, result, message, source_url, payment_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID, string(log.Result), log.Message, log.SourceURL, log.PaymentID, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment log: %w", err)
	}
	return nil
}
