package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fmbakop/cotisio/internal/common"
	"github.com/fmbakop/cotisio/internal/server/blob"
	"github.com/fmbakop/cotisio/internal/server/models"
	"github.com/fmbakop/cotisio/internal/server/repositories/repomanager"
)

// PaymentService records remittances against declarations and drives the
// confirm/reject pipeline. References are derived from the receipt timestamp
// and never reused.
type PaymentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blob        *blob.Store
	now         func() time.Time
}

func NewPaymentService(db *sql.DB, m repomanager.RepositoryManager, store *blob.Store) *PaymentService {
	return &PaymentService{db: db, repomanager: m, blob: store, now: time.Now}
}

// Record registers a payment in initiated status against an existing
// declaration. When withProof is set, a blob key is reserved and a presigned
// upload URL for the proof document is returned alongside the payment.
func (s *PaymentService) Record(ctx context.Context, actor models.Actor, payment *models.Payment, withProof bool) (*models.Payment, string, error) {
	if _, err := s.repomanager.Declarations(s.db).GetByID(ctx, payment.DeclarationID); err != nil {
		return nil, "", err
	}
	if payment.Amount.IsNegative() {
		return nil, "", fmt.Errorf("%w: payment amount must be non-negative", common.ErrValidation)
	}
	if !payment.Mode.Valid() {
		return nil, "", fmt.Errorf("%w: unknown payment mode %q", common.ErrValidation, payment.Mode)
	}
	if payment.PaidOn.IsZero() {
		return nil, "", fmt.Errorf("%w: payment date is required", common.ErrValidation)
	}

	var uploadURL string
	if withProof {
		key, url, err := s.blob.PresignPut(ctx, blob.PrefixPaymentProofs)
		if err != nil {
			return nil, "", fmt.Errorf("error presigning proof upload: %w", err)
		}
		payment.ProofKey = key
		uploadURL = url
	}

	now := s.now()
	payment.Reference = models.PaymentReference(now)
	payment.ReceivedAt = now
	payment.Status = models.PaymentInitiated
	payment.RecordedBy = actor.ID

	created, err := s.repomanager.Payments(s.db).Create(ctx, payment)
	if err != nil {
		return nil, "", err
	}
	return created, uploadURL, nil
}

func (s *PaymentService) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	return s.repomanager.Payments(s.db).GetByID(ctx, id)
}

func (s *PaymentService) List(ctx context.Context) ([]*models.Payment, error) {
	return s.repomanager.Payments(s.db).List(ctx)
}

// Confirm marks an initiated payment as collected.
func (s *PaymentService) Confirm(ctx context.Context, id int64) (*models.Payment, error) {
	return s.transition(ctx, id, models.PaymentConfirmed)
}

// Reject refuses an initiated payment.
func (s *PaymentService) Reject(ctx context.Context, id int64) (*models.Payment, error) {
	return s.transition(ctx, id, models.PaymentRejected)
}

func (s *PaymentService) transition(ctx context.Context, id int64, target models.PaymentStatus) (*models.Payment, error) {
	repo := s.repomanager.Payments(s.db)

	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(target) {
		return nil, fmt.Errorf("%w: cannot move payment from %s to %s", common.ErrConflict, current.Status, target)
	}
	if err := repo.SetStatus(ctx, id, target); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

// ProofURL returns a presigned download URL for a stored proof document.
func (s *PaymentService) ProofURL(ctx context.Context, key string) (string, error) {
	return s.blob.PresignGet(ctx, key)
}
