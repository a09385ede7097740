package declarations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) Create(ctx context.Context, declaration *models.Declaration) (*models.Declaration, error) {

	query :=
		`INSERT INTO declarations (employer_id, period, total, status, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		declaration.EmployerID, declaration.Period, declaration.Total,
		declaration.Status, declaration.CreatedBy).
		Scan(&declaration.ID, &declaration.CreatedAt)

	if err != nil {
		// one declaration per (employer, period)
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return declaration, nil
}

func (r *PostgresRepository) AddLine(ctx context.Context, line *models.DeclarationLine) (*models.DeclarationLine, error) {
	query :=
		`INSERT INTO declaration_lines (declaration_id, insured_id, salary, employee_share, employer_share)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		line.DeclarationID, line.InsuredID, line.Salary,
		line.EmployeeShare, line.EmployerShare).
		Scan(&line.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return line, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Declaration, error) {
	query :=
		`SELECT id, employer_id, period, submitted_at, total, status, created_by, created_at
		 FROM declarations
		 WHERE id = $1
		 `

	declaration := &models.Declaration{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&declaration.ID, &declaration.EmployerID, &declaration.Period,
		&declaration.SubmittedAt, &declaration.Total, &declaration.Status,
		&declaration.CreatedBy, &declaration.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return declaration, nil
}

func (r *PostgresRepository) ListLines(ctx context.Context, declarationID int64) ([]models.DeclarationLine, error) {
	query :=
		`SELECT id, declaration_id, insured_id, salary, employee_share, employer_share
		 FROM declaration_lines
		 WHERE declaration_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, declarationID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var lines []models.DeclarationLine
	for rows.Next() {
		var line models.DeclarationLine
		if err := rows.Scan(&line.ID, &line.DeclarationID, &line.InsuredID,
			&line.Salary, &line.EmployeeShare, &line.EmployerShare); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Declaration, error) {
	query :=
		`SELECT id, employer_id, period, submitted_at, total, status, created_by, created_at
		 FROM declarations
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Declaration
	for rows.Next() {
		declaration := &models.Declaration{}
		if err := rows.Scan(
			&declaration.ID, &declaration.EmployerID, &declaration.Period,
			&declaration.SubmittedAt, &declaration.Total, &declaration.Status,
			&declaration.CreatedBy, &declaration.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, declaration)
	}

	return result, rows.Err()
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id int64, status models.DeclarationStatus, submittedAt *time.Time) error {
	query :=
		`UPDATE declarations
		 SET status = $1, submitted_at = COALESCE($2, submitted_at)
		 WHERE id = $3
		 `

	result, err := r.db.ExecContext(ctx, query, status, submittedAt, id)
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
