package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kevin07696/billing-service/internal/domain/models"
	"github.com/kevin07696/billing-service/internal/domain/ports"
)

// SubscriptionTypeRepository reads the subscription type catalog
type SubscriptionTypeRepository struct {
	db ports.DBPort
}

// NewSubscriptionTypeRepository creates a new subscription type repository
func NewSubscriptionTypeRepository(db ports.DBPort) *SubscriptionTypeRepository {
	return &SubscriptionTypeRepository{db: db}
}

// GetByID loads a subscription type with its canonical item set
func (r *SubscriptionTypeRepository) GetByID(ctx context.Context, tx ports.DBTX, id string) (*models.SubscriptionType, error) {
	q := ports.DBTX(tx)
	if q == nil {
		q = r.db.GetDB()
	}

	row := q.QueryRow(ctx, `
		SELECT id, code, name, price, length_days
		FROM subscription_types WHERE id = $1`, id)

	var (
		st    models.SubscriptionType
		price pgtype.Numeric
	)
	err := row.Scan(&st.ID, &st.Code, &st.Name, &price, &st.LengthDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("subscription type %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription type: %w", err)
	}
	if st.Price, err = numericToDecimal(price); err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
		SELECT name, amount, vat
		FROM subscription_type_items
		WHERE subscription_type_id = $1
		ORDER BY sorting`, id)
	if err != nil {
		return nil, fmt.Errorf("load subscription type items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item   models.SubscriptionTypeItem
			amount pgtype.Numeric
			vat    pgtype.Numeric
		)
		if err := rows.Scan(&item.Name, &amount, &vat); err != nil {
			return nil, fmt.Errorf("scan subscription type item: %w", err)
		}
		if item.Amount, err = numericToDecimal(amount); err != nil {
			return nil, err
		}
		if item.VAT, err = numericToDecimal(vat); err != nil {
			return nil, err
		}
		st.Items = append(st.Items, item)
	}
	return &st, rows.Err()
}
