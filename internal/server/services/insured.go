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

// InsuredService manages the insured person registry. Affiliation numbers are
// assigned exactly once, in the same transaction as the initial insert.
type InsuredService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewInsuredService(db *sql.DB, m repomanager.RepositoryManager) *InsuredService {
	return &InsuredService{db: db, repomanager: m, now: time.Now}
}

// Create registers an insured person and stamps the affiliation number.
// Salaried persons must reference an existing employer.
func (s *InsuredService) Create(ctx context.Context, actor models.Actor, person *models.InsuredPerson) (*models.InsuredPerson, error) {
	if person.LastName == "" || person.NationalID == "" {
		return nil, fmt.Errorf("%w: last name and national id are required", common.ErrValidation)
	}
	if !person.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown insured kind %q", common.ErrValidation, person.Kind)
	}
	if person.Kind == models.InsuredSalaried {
		if person.EmployerID == nil {
			return nil, fmt.Errorf("%w: salaried persons require an employer", common.ErrValidation)
		}
		if _, err := s.repomanager.Employers(s.db).GetByID(ctx, *person.EmployerID); err != nil {
			return nil, fmt.Errorf("%w: unknown employer %d", common.ErrValidation, *person.EmployerID)
		}
	}

	now := s.now()
	person.AffiliatedAt = now
	person.IsActive = true

	var created *models.InsuredPerson
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Insured(tx)
		var err error
		created, err = repo.Create(ctx, person)
		if err != nil {
			return err
		}
		number := models.AffiliationNumber(now, created.ID)
		if err := repo.AssignNumber(ctx, created.ID, number); err != nil {
			return err
		}
		created.AffiliationNumber = number
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *InsuredService) GetByID(ctx context.Context, id int64) (*models.InsuredPerson, error) {
	return s.repomanager.Insured(s.db).GetByID(ctx, id)
}

func (s *InsuredService) List(ctx context.Context) ([]*models.InsuredPerson, error) {
	return s.repomanager.Insured(s.db).List(ctx)
}

// Update modifies profile fields. The affiliation number and affiliation date
// are never touched here.
func (s *InsuredService) Update(ctx context.Context, person *models.InsuredPerson) (*models.InsuredPerson, error) {
	current, err := s.repomanager.Insured(s.db).GetByID(ctx, person.ID)
	if err != nil {
		return nil, err
	}
	if person.Kind == models.InsuredSalaried && person.EmployerID == nil {
		return nil, fmt.Errorf("%w: salaried persons require an employer", common.ErrValidation)
	}
	if person.EmployerID != nil && (current.EmployerID == nil || *current.EmployerID != *person.EmployerID) {
		if _, err := s.repomanager.Employers(s.db).GetByID(ctx, *person.EmployerID); err != nil {
			return nil, fmt.Errorf("%w: unknown employer %d", common.ErrValidation, *person.EmployerID)
		}
	}
	if err := s.repomanager.Insured(s.db).UpdateFields(ctx, person); err != nil {
		return nil, err
	}
	return s.repomanager.Insured(s.db).GetByID(ctx, person.ID)
}
