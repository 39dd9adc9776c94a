package ports

import (
	"context"

	"github.com/kevin07696/billing-service/internal/domain/models"
)

// SubscriptionTypeRepository reads the subscription type catalog
type SubscriptionTypeRepository interface {
	GetByID(ctx context.Context, tx DBTX, id string) (*models.SubscriptionType, error)
}
