package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fmbakop/cotisio/internal/common"
	"github.com/fmbakop/cotisio/internal/dbx"
	"github.com/fmbakop/cotisio/internal/server/models"
	"github.com/fmbakop/cotisio/internal/server/repositories/repomanager"
)

// DeclarationService manages monthly contribution declarations and their
// submit/validate/reject pipeline.
type DeclarationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewDeclarationService(db *sql.DB, m repomanager.RepositoryManager) *DeclarationService {
	return &DeclarationService{db: db, repomanager: m, now: time.Now}
}

// Create opens a draft declaration for an employer and period. The period is
// normalized to the first day of its month; at most one declaration may exist
// per employer and period. When the caller leaves the total at zero and
// provides lines, the total defaults to the sum of the line amounts.
func (s *DeclarationService) Create(ctx context.Context, actor models.Actor, declaration *models.Declaration) (*models.Declaration, error) {
	if _, err := s.repomanager.Employers(s.db).GetByID(ctx, declaration.EmployerID); err != nil {
		return nil, err
	}
	if declaration.Period.IsZero() {
		return nil, fmt.Errorf("%w: period is required", common.ErrValidation)
	}
	for _, line := range declaration.Lines {
		if line.Salary.IsNegative() || line.EmployeeShare.IsNegative() || line.EmployerShare.IsNegative() {
			return nil, fmt.Errorf("%w: declaration line amounts must be non-negative", common.ErrValidation)
		}
	}

	declaration.Period = models.MonthStart(declaration.Period)
	declaration.Status = models.DeclarationDraft
	declaration.CreatedBy = actor.ID
	if declaration.Total.IsZero() && len(declaration.Lines) > 0 {
		declaration.Total = declaration.SumLines()
	}
	if declaration.Total.IsNegative() {
		return nil, fmt.Errorf("%w: declaration total must be non-negative", common.ErrValidation)
	}

	lines := declaration.Lines
	var created *models.Declaration
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Declarations(tx)
		var err error
		created, err = repo.Create(ctx, declaration)
		if err != nil {
			return err
		}
		// The repository hands back the entity it was given, input lines
		// included; the returned declaration must carry each stored line
		// exactly once.
		created.Lines = make([]models.DeclarationLine, 0, len(lines))
		for i := range lines {
			lines[i].DeclarationID = created.ID
			stored, err := repo.AddLine(ctx, &lines[i])
			if err != nil {
				return err
			}
			created.Lines = append(created.Lines, *stored)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *DeclarationService) GetByID(ctx context.Context, id int64) (*models.Declaration, error) {
	repo := s.repomanager.Declarations(s.db)
	declaration, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	declaration.Lines, err = repo.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return declaration, nil
}

func (s *DeclarationService) List(ctx context.Context) ([]*models.Declaration, error) {
	return s.repomanager.Declarations(s.db).List(ctx)
}

// Submit moves a draft declaration to submitted and stamps the submission time.
func (s *DeclarationService) Submit(ctx context.Context, id int64) (*models.Declaration, error) {
	now := s.now()
	return s.transition(ctx, id, models.DeclarationSubmitted, &now)
}

// Validate accepts a submitted declaration.
func (s *DeclarationService) Validate(ctx context.Context, id int64) (*models.Declaration, error) {
	return s.transition(ctx, id, models.DeclarationValidated, nil)
}

// Reject refuses a submitted declaration.
func (s *DeclarationService) Reject(ctx context.Context, id int64) (*models.Declaration, error) {
	return s.transition(ctx, id, models.DeclarationRejected, nil)
}

func (s *DeclarationService) transition(ctx context.Context, id int64, target models.DeclarationStatus, submittedAt *time.Time) (*models.Declaration, error) {
	repo := s.repomanager.Declarations(s.db)

	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(target) {
		return nil, fmt.Errorf("%w: cannot move declaration from %s to %s", common.ErrConflict, current.Status, target)
	}
	if err := repo.SetStatus(ctx, id, target, submittedAt); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}
