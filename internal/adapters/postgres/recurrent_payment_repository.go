package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kevin07696/billing-service/internal/domain/models"
	"github.com/kevin07696/billing-service/internal/domain/ports"
	"github.com/shopspring/decimal"
)

// RecurrentPaymentRepository implements ports.RecurrentPaymentRepository over pgx
type RecurrentPaymentRepository struct {
	db ports.DBPort
}

// NewRecurrentPaymentRepository creates a new recurrent payment repository
func NewRecurrentPaymentRepository(db ports.DBPort) *RecurrentPaymentRepository {
	return &RecurrentPaymentRepository{db: db}
}

func (r *RecurrentPaymentRepository) executor(tx ports.DBTX) ports.DBTX {
	if tx != nil {
		return tx
	}
	return r.db.GetDB()
}

const recurrentColumns = `
	id, cid, user_id, gateway_code, parent_payment_id, payment_id,
	subscription_type_id, custom_amount, retries, charge_at,
	state, status, approval, note, created_at`

// ListChargeable returns active nodes due at now, oldest schedule first
func (r *RecurrentPaymentRepository) ListChargeable(ctx context.Context, tx ports.DBTX, now time.Time, limit int32) ([]*models.RecurrentPayment, error) {
	q := r.executor(tx)

	rows, err := q.Query(ctx, `
		SELECT `+recurrentColumns+`
		FROM recurrent_payments
		WHERE state = $1 AND charge_at <= $2 AND retries >= 0
		ORDER BY charge_at
		LIMIT $3`,
		string(models.RecurrentStateActive), now, limit)
	if err != nil {
		return nil, fmt.Errorf("list chargeable recurrent payments: %w", err)
	}
	defer rows.Close()

	var out []*models.RecurrentPayment
	for rows.Next() {
		rp, err := scanRecurrentPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rp)
	}
	return out, rows.Err()
}

// LastCharged returns the most recent charged node sharing the card token,
// or nil when the chain never charged
func (r *RecurrentPaymentRepository) LastCharged(ctx context.Context, tx ports.DBTX, rp *models.RecurrentPayment) (*models.RecurrentPayment, error) {
	q := r.executor(tx)

	row := q.QueryRow(ctx, `
		SELECT `+recurrentColumns+`
		FROM recurrent_payments
		WHERE cid = $1 AND user_id = $2 AND state = $3 AND id <> $4
		ORDER BY charge_at DESC
		LIMIT 1`,
		rp.CID, rp.UserID, string(models.RecurrentStateCharged), rp.ID)

	out, err := scanRecurrentPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last charged chain node: %w", err)
	}
	return out, nil
}

// Create inserts a successor chain node
func (r *RecurrentPaymentRepository) Create(ctx context.Context, tx ports.DBTX, rp *models.RecurrentPayment) error {
	q := r.executor(tx)

	custom, err := nullNumeric(rp.CustomAmount)
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, `
		INSERT INTO recurrent_payments (
			id, cid, user_id, gateway_code, parent_payment_id, payment_id,
			subscription_type_id, custom_amount, retries, charge_at,
			state, status, approval, note, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		rp.ID, rp.CID, rp.UserID, rp.GatewayCode,
		nullText(rp.ParentPaymentID), nullText(rp.PaymentID),
		nullText(rp.SubscriptionTypeID), custom, rp.Retries, rp.ChargeAt,
		string(rp.State), nullText(rp.Status), nullText(rp.Approval),
		nullText(rp.Note), rp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recurrent payment: %w", err)
	}
	return nil
}

// Update persists in-place mutations of an existing node
func (r *RecurrentPaymentRepository) Update(ctx context.Context, tx ports.DBTX, rp *models.RecurrentPayment) error {
	q := r.executor(tx)

	tag, err := q.Exec(ctx, `
		UPDATE recurrent_payments
		SET payment_id = $2, state = $3, status = $4, approval = $5, note = $6
		WHERE id = $1`,
		rp.ID, nullText(rp.PaymentID), string(rp.State),
		nullText(rp.Status), nullText(rp.Approval), nullText(rp.Note))
	if err != nil {
		return fmt.Errorf("update recurrent payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recurrent payment %s not found", rp.ID)
	}
	return nil
}

func nullNumeric(d *decimal.Decimal) (pgtype.Numeric, error) {
	if d == nil {
		return pgtype.Numeric{Valid: false}, nil
	}
	return decimalToNumeric(*d)
}

func scanRecurrentPayment(row pgx.Row) (*models.RecurrentPayment, error) {
	var (
		rp       models.RecurrentPayment
		parent   pgtype.Text
		payment  pgtype.Text
		subType  pgtype.Text
		custom   pgtype.Numeric
		state    string
		status   pgtype.Text
		approval pgtype.Text
		note     pgtype.Text
	)
	err := row.Scan(&rp.ID, &rp.CID, &rp.UserID, &rp.GatewayCode, &parent,
		&payment, &subType, &custom, &rp.Retries, &rp.ChargeAt,
		&state, &status, &approval, &note, &rp.CreatedAt)
	if err != nil {
		return nil, err
	}

	rp.ParentPaymentID = textOrEmpty(parent)
	rp.PaymentID = textOrEmpty(payment)
	rp.SubscriptionTypeID = textOrEmpty(subType)
	rp.State = models.RecurrentPaymentState(state)
	rp.Status = textOrEmpty(status)
	rp.Approval = textOrEmpty(approval)
	rp.Note = textOrEmpty(note)

	if custom.Valid {
		d, err := numericToDecimal(custom)
		if err != nil {
			return nil, err
		}
		rp.CustomAmount = &d
	}
	return &rp, nil
}
