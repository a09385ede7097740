package recoveryactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

const actionColumns = `id, employer_id, action_type, planned_at, assigned_agent, status,
	executed_at, recovered_amount, observations, created_by, created_at`

func (r *PostgresRepository) Create(ctx context.Context, action *models.RecoveryAction) (*models.RecoveryAction, error) {

	query :=
		`INSERT INTO recovery_actions (employer_id, action_type, planned_at, assigned_agent, status, observations, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		action.EmployerID, action.Type, action.PlannedAt, action.AssignedAgent,
		action.Status, action.Observations, action.CreatedBy).
		Scan(&action.ID, &action.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return action, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.RecoveryAction, error) {
	query := `SELECT ` + actionColumns + ` FROM recovery_actions WHERE id = $1`

	action := &models.RecoveryAction{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&action.ID, &action.EmployerID, &action.Type, &action.PlannedAt,
		&action.AssignedAgent, &action.Status, &action.ExecutedAt,
		&action.RecoveredAmount, &action.Observations, &action.CreatedBy,
		&action.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return action, nil
}

// List applies the status/type filters with AND semantics; zero values are
// ignored.
func (r *PostgresRepository) List(ctx context.Context, filter models.RecoveryActionFilter) ([]*models.RecoveryAction, error) {
	conditions := []string{}
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("action_type = $%d", len(args)))
	}

	query := `SELECT ` + actionColumns + ` FROM recovery_actions`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY planned_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.RecoveryAction
	for rows.Next() {
		action := &models.RecoveryAction{}
		if err := rows.Scan(
			&action.ID, &action.EmployerID, &action.Type, &action.PlannedAt,
			&action.AssignedAgent, &action.Status, &action.ExecutedAt,
			&action.RecoveredAmount, &action.Observations, &action.CreatedBy,
			&action.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, action)
	}

	return result, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, action *models.RecoveryAction) error {
	query :=
		`UPDATE recovery_actions
		 SET status = $1, executed_at = $2, recovered_amount = $3, observations = $4
		 WHERE id = $5
		 `

	result, err := r.db.ExecContext(ctx, query,
		action.Status, action.ExecutedAt, action.RecoveredAmount,
		action.Observations, action.ID)
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

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM recovery_actions WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
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

func (r *PostgresRepository) HasUnpaidDeclarations(ctx context.Context, employerID int64) (bool, error) {
	query :=
		`SELECT EXISTS (
		    SELECT 1
		    FROM declarations d
		    LEFT JOIN payments p ON p.declaration_id = d.id
		    WHERE d.employer_id = $1 AND p.id IS NULL
		 )`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, employerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
