package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fmbakop/cotisio/internal/common"
	"github.com/fmbakop/cotisio/internal/dbx"
	"github.com/fmbakop/cotisio/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const paymentColumns = `id, reference, declaration_id, amount, mode, paid_on, received_at, status, proof_key, recorded_by`

func (r *PostgresRepository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {

	query :=
		`INSERT INTO payments (reference, declaration_id, amount, mode, paid_on, received_at, status, proof_key, recorded_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		payment.Reference, payment.DeclarationID, payment.Amount, payment.Mode,
		payment.PaidOn, payment.ReceivedAt, payment.Status, payment.ProofKey,
		payment.RecordedBy).
		Scan(&payment.ID)

	if err != nil {
		// two references generated within the same second
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return payment, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment := &models.Payment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&payment.ID, &payment.Reference, &payment.DeclarationID, &payment.Amount,
		&payment.Mode, &payment.PaidOn, &payment.ReceivedAt, &payment.Status,
		&payment.ProofKey, &payment.RecordedBy)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return payment, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY received_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(
			&payment.ID, &payment.Reference, &payment.DeclarationID, &payment.Amount,
			&payment.Mode, &payment.PaidOn, &payment.ReceivedAt, &payment.Status,
			&payment.ProofKey, &payment.RecordedBy); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, payment)
	}

	return result, rows.Err()
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id int64, status models.PaymentStatus) error {
	query := `UPDATE payments SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) CountByDeclaration(ctx context.Context, declarationID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM payments WHERE declaration_id = $1`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, declarationID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}
