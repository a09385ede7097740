package insured

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

const insuredColumns = `id, COALESCE(affiliation_number, ''), last_name, first_name, birth_date,
	birth_place, national_id, address, phone, email, kind, employer_id, affiliated_at, is_active`

func (r *PostgresRepository) Create(ctx context.Context, person *models.InsuredPerson) (*models.InsuredPerson, error) {

	query :=
		`INSERT INTO insured_persons (last_name, first_name, birth_date, birth_place,
		    national_id, address, phone, email, kind, employer_id, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, affiliated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		person.LastName, person.FirstName, person.BirthDate, person.BirthPlace,
		person.NationalID, person.Address, person.Phone, person.Email,
		person.Kind, person.EmployerID, person.IsActive).
		Scan(&person.ID, &person.AffiliatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrValidation
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return person, nil
}

func (r *PostgresRepository) AssignNumber(ctx context.Context, id int64, number string) error {
	query :=
		`UPDATE insured_persons
		 SET affiliation_number = $1
		 WHERE id = $2 AND affiliation_number IS NULL
		 `

	result, err := r.db.ExecContext(ctx, query, number, id)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrConflict
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.InsuredPerson, error) {
	query := `SELECT ` + insuredColumns + ` FROM insured_persons WHERE id = $1`

	person := &models.InsuredPerson{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&person.ID, &person.AffiliationNumber, &person.LastName, &person.FirstName,
		&person.BirthDate, &person.BirthPlace, &person.NationalID,
		&person.Address, &person.Phone, &person.Email, &person.Kind,
		&person.EmployerID, &person.AffiliatedAt, &person.IsActive)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return person, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.InsuredPerson, error) {
	query := `SELECT ` + insuredColumns + ` FROM insured_persons ORDER BY affiliated_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.InsuredPerson
	for rows.Next() {
		person := &models.InsuredPerson{}
		if err := rows.Scan(
			&person.ID, &person.AffiliationNumber, &person.LastName, &person.FirstName,
			&person.BirthDate, &person.BirthPlace, &person.NationalID,
			&person.Address, &person.Phone, &person.Email, &person.Kind,
			&person.EmployerID, &person.AffiliatedAt, &person.IsActive); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, person)
	}

	return result, rows.Err()
}

func (r *PostgresRepository) UpdateFields(ctx context.Context, person *models.InsuredPerson) error {
	query :=
		`UPDATE insured_persons
		 SET last_name = $1, first_name = $2, birth_date = $3, birth_place = $4,
		     national_id = $5, address = $6, phone = $7, email = $8,
		     kind = $9, employer_id = $10, is_active = $11
		 WHERE id = $12
		 `

	result, err := r.db.ExecContext(ctx, query,
		person.LastName, person.FirstName, person.BirthDate, person.BirthPlace,
		person.NationalID, person.Address, person.Phone, person.Email,
		person.Kind, person.EmployerID, person.IsActive, person.ID)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrValidation
		}
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
