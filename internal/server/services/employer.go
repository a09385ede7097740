package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fmbakop/cotisio/internal/common"
	"github.com/fmbakop/cotisio/internal/dbx"
	"github.com/fmbakop/cotisio/internal/server/auth"
	"github.com/fmbakop/cotisio/internal/server/blob"
	"github.com/fmbakop/cotisio/internal/server/models"
	"github.com/fmbakop/cotisio/internal/server/repositories/repomanager"
)

// EmployerService manages the employer registry: creation, profile updates,
// the validation pipeline and supporting document attachments.
type EmployerService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blob        *blob.Store
	now         func() time.Time
}

func NewEmployerService(db *sql.DB, m repomanager.RepositoryManager, store *blob.Store) *EmployerService {
	return &EmployerService{db: db, repomanager: m, blob: store, now: time.Now}
}

// Create registers a new employer in prospected status. Identity fields must
// be unique and the sector/region references must exist.
func (s *EmployerService) Create(ctx context.Context, actor models.Actor, employer *models.Employer) (*models.Employer, error) {
	if employer.LegalName == "" || employer.TaxID == "" || employer.RegistryID == "" {
		return nil, fmt.Errorf("%w: legal name, tax id and registry id are required", common.ErrValidation)
	}

	refs := s.repomanager.References(s.db)
	if _, err := refs.GetSector(ctx, employer.SectorID); err != nil {
		return nil, fmt.Errorf("%w: unknown sector %d", common.ErrValidation, employer.SectorID)
	}
	if _, err := refs.GetRegion(ctx, employer.RegionID); err != nil {
		return nil, fmt.Errorf("%w: unknown region %d", common.ErrValidation, employer.RegionID)
	}

	employer.Status = models.EmployerProspected
	employer.CreatedBy = actor.ID

	return s.repomanager.Employers(s.db).Create(ctx, employer)
}

func (s *EmployerService) GetByID(ctx context.Context, id int64) (*models.Employer, error) {
	return s.repomanager.Employers(s.db).GetByID(ctx, id)
}

func (s *EmployerService) List(ctx context.Context) ([]*models.Employer, error) {
	return s.repomanager.Employers(s.db).List(ctx)
}

// Update modifies employer profile fields. Only privileged roles that are not
// the record's creator may update an employer.
func (s *EmployerService) Update(ctx context.Context, actor models.Actor, employer *models.Employer) (*models.Employer, error) {
	current, err := s.repomanager.Employers(s.db).GetByID(ctx, employer.ID)
	if err != nil {
		return nil, err
	}
	if !auth.CanUpdateEmployer(actor, current.CreatedBy) {
		return nil, common.ErrPermissionDenied
	}

	if employer.SectorID != current.SectorID {
		if _, err := s.repomanager.References(s.db).GetSector(ctx, employer.SectorID); err != nil {
			return nil, fmt.Errorf("%w: unknown sector %d", common.ErrValidation, employer.SectorID)
		}
	}
	if employer.RegionID != current.RegionID {
		if _, err := s.repomanager.References(s.db).GetRegion(ctx, employer.RegionID); err != nil {
			return nil, fmt.Errorf("%w: unknown region %d", common.ErrValidation, employer.RegionID)
		}
	}

	if err := s.repomanager.Employers(s.db).UpdateFields(ctx, employer); err != nil {
		return nil, err
	}
	return s.repomanager.Employers(s.db).GetByID(ctx, employer.ID)
}

// Transition moves an employer to a new lifecycle status. Entering validated
// for the first time assigns the registration number; re-entering validated
// keeps the existing number untouched.
func (s *EmployerService) Transition(ctx context.Context, actor models.Actor, employerID int64, target models.EmployerStatus, rejectionReason string) (*models.Employer, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown employer status %q", common.ErrValidation, target)
	}

	repo := s.repomanager.Employers(s.db)

	current, err := repo.GetByID(ctx, employerID)
	if err != nil {
		return nil, err
	}
	if !auth.CanUpdateEmployer(actor, current.CreatedBy) {
		return nil, common.ErrPermissionDenied
	}
	if !current.Status.CanTransition(target) {
		return nil, fmt.Errorf("%w: cannot move employer from %s to %s", common.ErrConflict, current.Status, target)
	}

	if target == models.EmployerValidated && current.RegistrationNumber == "" {
		now := s.now()
		number := models.RegistrationNumber(now, employerID)
		err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return s.repomanager.Employers(tx).SetValidated(ctx, employerID, number, now, actor.ID)
		})
	} else {
		err = repo.SetStatus(ctx, employerID, target, rejectionReason)
	}
	if err != nil {
		return nil, err
	}

	return repo.GetByID(ctx, employerID)
}

// AttachDocument records a supporting document for an employer and returns a
// presigned upload URL for the file body. The creator and the privileged
// update roles may attach documents.
func (s *EmployerService) AttachDocument(ctx context.Context, actor models.Actor, employerID int64, name string) (*models.SupportingDocument, string, error) {
	if name == "" {
		return nil, "", fmt.Errorf("%w: document name is required", common.ErrValidation)
	}

	employer, err := s.repomanager.Employers(s.db).GetByID(ctx, employerID)
	if err != nil {
		return nil, "", err
	}
	if actor.ID != employer.CreatedBy && !auth.CanUpdateEmployer(actor, employer.CreatedBy) {
		return nil, "", common.ErrPermissionDenied
	}

	key, uploadURL, err := s.blob.PresignPut(ctx, blob.PrefixSupportingDocuments)
	if err != nil {
		return nil, "", fmt.Errorf("error presigning document upload: %w", err)
	}

	var doc *models.SupportingDocument
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Employers(tx)
		if _, err := repo.GetByID(ctx, employerID); err != nil {
			return err
		}
		doc, err = repo.AddDocument(ctx, &models.SupportingDocument{
			EmployerID: employerID,
			Name:       name,
			StorageKey: key,
		})
		return err
	})
	if err != nil {
		return nil, "", err
	}

	return doc, uploadURL, nil
}

func (s *EmployerService) ListDocuments(ctx context.Context, employerID int64) ([]*models.SupportingDocument, error) {
	if _, err := s.repomanager.Employers(s.db).GetByID(ctx, employerID); err != nil {
		return nil, err
	}
	return s.repomanager.Employers(s.db).ListDocuments(ctx, employerID)
}

// DocumentURL returns a presigned download URL for a stored document body.
func (s *EmployerService) DocumentURL(ctx context.Context, key string) (string, error) {
	return s.blob.PresignGet(ctx, key)
}
