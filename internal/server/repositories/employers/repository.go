package employers

import (
	"context"
	"time"

	"github.com/fmbakop/cotisio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, employer *models.Employer) (*models.Employer, error)
	GetByID(ctx context.Context, id int64) (*models.Employer, error)
	List(ctx context.Context) ([]*models.Employer, error)
	UpdateFields(ctx context.Context, employer *models.Employer) error

	// SetValidated stamps the one-time registration number, validation time
	// and validator. Callers run it inside the same transaction as the
	// status write.
	SetValidated(ctx context.Context, id int64, number string, validatedAt time.Time, validatedBy int64) error
	SetStatus(ctx context.Context, id int64, status models.EmployerStatus, rejectionReason string) error

	AddDocument(ctx context.Context, doc *models.SupportingDocument) (*models.SupportingDocument, error)
	ListDocuments(ctx context.Context, employerID int64) ([]*models.SupportingDocument, error)
}
