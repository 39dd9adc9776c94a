package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kevin07696/billing-service/internal/domain"
	"github.com/kevin07696/billing-service/internal/domain/models"
	"github.com/kevin07696/billing-service/internal/domain/ports"
)

// PaymentRepository implements ports.PaymentRepository over pgx
type PaymentRepository struct {
	db ports.DBPort
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db ports.DBPort) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) executor(tx ports.DBTX) ports.DBTX {
	if tx != nil {
		return tx
	}
	return r.db.GetDB()
}

// Create inserts the payment and its full line item set
func (r *PaymentRepository) Create(ctx context.Context, tx ports.DBTX, payment *models.Payment) error {
	q := r.executor(tx)

	amount, err := decimalToNumeric(payment.Amount)
	if err != nil {
		return err
	}
	additional, err := decimalToNumeric(payment.AdditionalAmount)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO payments (
			id, status, amount, gateway_code, user_id, subscription_type_id,
			variable_symbol, additional_amount, additional_type,
			recurrent_charge, invoiceable, note, created_at, paid_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		payment.ID,
		string(payment.Status),
		amount,
		payment.GatewayCode,
		payment.UserID,
		nullText(payment.SubscriptionTypeID),
		payment.VariableSymbol,
		additional,
		nullText(string(payment.AdditionalType)),
		payment.RecurrentCharge,
		payment.Invoiceable,
		nullText(payment.Note),
		payment.CreatedAt,
		payment.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return r.insertItems(ctx, q, payment.ID, payment.Items)
}

// GetByID loads a payment with its line items
func (r *PaymentRepository) GetByID(ctx context.Context, tx ports.DBTX, id string) (*models.Payment, error) {
	q := r.executor(tx)

	row := q.QueryRow(ctx, `
		SELECT id, status, amount, gateway_code, user_id, subscription_type_id,
		       variable_symbol, additional_amount, additional_type,
		       recurrent_charge, invoiceable, note, created_at, paid_at
		FROM payments WHERE id = $1`, id)

	var (
		p            models.Payment
		status       string
		amount       pgtype.Numeric
		subType      pgtype.Text
		additional   pgtype.Numeric
		addType      pgtype.Text
		note         pgtype.Text
		paidAt       pgtype.Timestamptz
	)
	err := row.Scan(&p.ID, &status, &amount, &p.GatewayCode, &p.UserID, &subType,
		&p.VariableSymbol, &additional, &addType, &p.RecurrentCharge,
		&p.Invoiceable, &note, &p.CreatedAt, &paidAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound.WithDetail("payment_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get payment by id: %w", err)
	}

	p.Status = models.PaymentStatus(status)
	p.SubscriptionTypeID = textOrEmpty(subType)
	p.AdditionalType = models.AdditionalType(textOrEmpty(addType))
	p.Note = textOrEmpty(note)
	if p.Amount, err = numericToDecimal(amount); err != nil {
		return nil, err
	}
	if p.AdditionalAmount, err = numericToDecimal(additional); err != nil {
		return nil, err
	}
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}

	if p.Items, err = r.loadItems(ctx, q, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateStatus persists a status change; paid_at is written only when provided
func (r *PaymentRepository) UpdateStatus(ctx context.Context, tx ports.DBTX, id string, status models.PaymentStatus, paidAt *time.Time) error {
	q := r.executor(tx)

	tag, err := q.Exec(ctx, `
		UPDATE payments
		SET status = $2, paid_at = COALESCE($3, paid_at)
		WHERE id = $1`,
		id, string(status), paidAt)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound.WithDetail("payment_id", id)
	}
	return nil
}

func (r *PaymentRepository) insertItems(ctx context.Context, q ports.DBTX, paymentID string, items []models.PaymentItem) error {
	for i, item := range items {
		amount, err := decimalToNumeric(item.Amount)
		if err != nil {
			return err
		}
		vat, err := decimalToNumeric(item.VAT)
		if err != nil {
			return err
		}
		_, err = q.Exec(ctx, `
			INSERT INTO payment_items (payment_id, name, amount, vat, count, type, sorting)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			paymentID, item.Name, amount, vat, item.Count, string(item.Type), i)
		if err != nil {
			return fmt.Errorf("insert payment item: %w", err)
		}
	}
	return nil
}

func (r *PaymentRepository) loadItems(ctx context.Context, q ports.DBTX, paymentID string) ([]models.PaymentItem, error) {
	rows, err := q.Query(ctx, `
		SELECT name, amount, vat, count, type
		FROM payment_items WHERE payment_id = $1
		ORDER BY sorting`, paymentID)
	if err != nil {
		return nil, fmt.Errorf("load payment items: %w", err)
	}
	defer rows.Close()

	var items []models.PaymentItem
	for rows.Next() {
		var (
			item     models.PaymentItem
			amount   pgtype.Numeric
			vat      pgtype.Numeric
			itemType string
		)
		if err := rows.Scan(&item.Name, &amount, &vat, &item.Count, &itemType); err != nil {
			return nil, fmt.Errorf("scan payment item: %w", err)
		}
		if item.Amount, err = numericToDecimal(amount); err != nil {
			return nil, err
		}
		if item.VAT, err = numericToDecimal(vat); err != nil {
			return nil, err
		}
		item.Type = models.PaymentItemType(itemType)
		items = append(items, item)
	}
	return items, rows.Err()
}
