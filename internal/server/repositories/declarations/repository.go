package declarations

import (
	"context"
	"time"

	"github.com/fmbakop/cotisio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, declaration *models.Declaration) (*models.Declaration, error)
	AddLine(ctx context.Context, line *models.DeclarationLine) (*models.DeclarationLine, error)
	GetByID(ctx context.Context, id int64) (*models.Declaration, error)
	ListLines(ctx context.Context, declarationID int64) ([]models.DeclarationLine, error)
	List(ctx context.Context) ([]*models.Declaration, error)
	SetStatus(ctx context.Context, id int64, status models.DeclarationStatus, submittedAt *time.Time) error
}
