package payments

import (
	"context"

	"github.com/fmbakop/cotisio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	List(ctx context.Context) ([]*models.Payment, error)
	SetStatus(ctx context.Context, id int64, status models.PaymentStatus) error
	CountByDeclaration(ctx context.Context, declarationID int64) (int64, error)
}
