package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fmbakop/cotisio/internal/common"
	"github.com/fmbakop/cotisio/internal/server/models"
	"github.com/fmbakop/cotisio/internal/server/repositories/repomanager"
)

// RecoveryService manages follow-up actions against employers in arrears.
// An action can only be opened against an employer that actually has unpaid
// declarations at creation time.
type RecoveryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewRecoveryService(db *sql.DB, m repomanager.RepositoryManager) *RecoveryService {
	return &RecoveryService{db: db, repomanager: m, now: time.Now}
}

// Create opens a recovery action in planned status. The target employer must
// have at least one declaration with no payment recorded against it.
func (s *RecoveryService) Create(ctx context.Context, actor models.Actor, action *models.RecoveryAction) (*models.RecoveryAction, error) {
	if !action.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown recovery action type %q", common.ErrValidation, action.Type)
	}
	if action.PlannedAt.IsZero() {
		return nil, fmt.Errorf("%w: planned date is required", common.ErrValidation)
	}

	if _, err := s.repomanager.Employers(s.db).GetByID(ctx, action.EmployerID); err != nil {
		return nil, err
	}

	repo := s.repomanager.RecoveryActions(s.db)
	unpaid, err := repo.HasUnpaidDeclarations(ctx, action.EmployerID)
	if err != nil {
		return nil, err
	}
	if !unpaid {
		return nil, fmt.Errorf("%w: employer %d has no unpaid declarations", common.ErrValidation, action.EmployerID)
	}

	action.Status = models.RecoveryPlanned
	action.CreatedBy = actor.ID

	return repo.Create(ctx, action)
}

func (s *RecoveryService) GetByID(ctx context.Context, id int64) (*models.RecoveryAction, error) {
	return s.repomanager.RecoveryActions(s.db).GetByID(ctx, id)
}

func (s *RecoveryService) List(ctx context.Context, filter models.RecoveryActionFilter) ([]*models.RecoveryAction, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown recovery action status %q", common.ErrValidation, filter.Status)
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown recovery action type %q", common.ErrValidation, filter.Type)
	}
	return s.repomanager.RecoveryActions(s.db).List(ctx, filter)
}

// Update rewrites an action's progress fields. Status moves freely between
// the four markers; there is no transition table here.
func (s *RecoveryService) Update(ctx context.Context, action *models.RecoveryAction) (*models.RecoveryAction, error) {
	if !action.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown recovery action status %q", common.ErrValidation, action.Status)
	}
	if action.RecoveredAmount.IsNegative() {
		return nil, fmt.Errorf("%w: recovered amount must be non-negative", common.ErrValidation)
	}

	repo := s.repomanager.RecoveryActions(s.db)
	if _, err := repo.GetByID(ctx, action.ID); err != nil {
		return nil, err
	}
	if err := repo.Update(ctx, action); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, action.ID)
}

// Delete removes an action permanently.
func (s *RecoveryService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.RecoveryActions(s.db).Delete(ctx, id)
}
