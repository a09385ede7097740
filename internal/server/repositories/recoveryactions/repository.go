package recoveryactions

import (
	"context"

	"github.com/fmbakop/cotisio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, action *models.RecoveryAction) (*models.RecoveryAction, error)
	GetByID(ctx context.Context, id int64) (*models.RecoveryAction, error)
	List(ctx context.Context, filter models.RecoveryActionFilter) ([]*models.RecoveryAction, error)
	Update(ctx context.Context, action *models.RecoveryAction) error
	Delete(ctx context.Context, id int64) error

	// HasUnpaidDeclarations reports whether the employer has at least one
	// declaration with zero payment rows.
	HasUnpaidDeclarations(ctx context.Context, employerID int64) (bool, error)
}
