package insured

import (
	"context"

	"github.com/fmbakop/cotisio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, person *models.InsuredPerson) (*models.InsuredPerson, error)
	// AssignNumber stamps the one-time affiliation number; runs inside the
	// same transaction as Create.
	AssignNumber(ctx context.Context, id int64, number string) error
	GetByID(ctx context.Context, id int64) (*models.InsuredPerson, error)
	List(ctx context.Context) ([]*models.InsuredPerson, error)
	UpdateFields(ctx context.Context, person *models.InsuredPerson) error
}
