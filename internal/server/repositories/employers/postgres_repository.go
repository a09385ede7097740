package employers

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

const employerColumns = `id, COALESCE(registration_number, ''), legal_name, tax_id, registry_id,
	sector_id, region_id, address, latitude, longitude,
	contact_name, contact_email, contact_phone, status, rejection_reason,
	created_at, validated_at, created_by, validated_by`

func (r *PostgresRepository) Create(ctx context.Context, employer *models.Employer) (*models.Employer, error) {

	query :=
		`INSERT INTO employers (legal_name, tax_id, registry_id, sector_id, region_id,
		    address, latitude, longitude, contact_name, contact_email, contact_phone,
		    status, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		employer.LegalName, employer.TaxID, employer.RegistryID,
		employer.SectorID, employer.RegionID, employer.Address,
		employer.Latitude, employer.Longitude,
		employer.ContactName, employer.ContactEmail, employer.ContactPhone,
		employer.Status, employer.CreatedBy).
		Scan(&employer.ID, &employer.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrValidation
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return employer, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Employer, error) {
	query := `SELECT ` + employerColumns + ` FROM employers WHERE id = $1`

	employer, err := r.scanOne(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return employer, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Employer, error) {
	query := `SELECT ` + employerColumns + ` FROM employers ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Employer
	for rows.Next() {
		employer, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, employer)
	}

	return result, rows.Err()
}

func (r *PostgresRepository) UpdateFields(ctx context.Context, employer *models.Employer) error {
	query :=
		`UPDATE employers
		 SET legal_name = $1, tax_id = $2, registry_id = $3, sector_id = $4, region_id = $5,
		     address = $6, latitude = $7, longitude = $8,
		     contact_name = $9, contact_email = $10, contact_phone = $11
		 WHERE id = $12
		 `

	result, err := r.db.ExecContext(ctx, query,
		employer.LegalName, employer.TaxID, employer.RegistryID,
		employer.SectorID, employer.RegionID, employer.Address,
		employer.Latitude, employer.Longitude,
		employer.ContactName, employer.ContactEmail, employer.ContactPhone,
		employer.ID)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrValidation
		}
		return fmt.Errorf("db error: %w", err)
	}

	return requireRow(result)
}

func (r *PostgresRepository) SetValidated(ctx context.Context, id int64, number string, validatedAt time.Time, validatedBy int64) error {
	query :=
		`UPDATE employers
		 SET status = $1, registration_number = $2, validated_at = $3, validated_by = $4, rejection_reason = ''
		 WHERE id = $5
		 `

	result, err := r.db.ExecContext(ctx, query,
		models.EmployerValidated, number, validatedAt, validatedBy, id)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	return requireRow(result)
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id int64, status models.EmployerStatus, rejectionReason string) error {
	query :=
		`UPDATE employers
		 SET status = $1, rejection_reason = $2
		 WHERE id = $3
		 `

	result, err := r.db.ExecContext(ctx, query, status, rejectionReason, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireRow(result)
}

func (r *PostgresRepository) AddDocument(ctx context.Context, doc *models.SupportingDocument) (*models.SupportingDocument, error) {
	query :=
		`INSERT INTO supporting_documents (employer_id, name, storage_key)
		 VALUES ($1, $2, $3)
		 RETURNING id, uploaded_at
		 `

	err := r.db.QueryRowContext(ctx, query, doc.EmployerID, doc.Name, doc.StorageKey).
		Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return doc, nil
}

func (r *PostgresRepository) ListDocuments(ctx context.Context, employerID int64) ([]*models.SupportingDocument, error) {
	query :=
		`SELECT id, employer_id, name, storage_key, uploaded_at
		 FROM supporting_documents
		 WHERE employer_id = $1
		 ORDER BY uploaded_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, employerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var docs []*models.SupportingDocument
	for rows.Next() {
		doc := &models.SupportingDocument{}
		if err := rows.Scan(&doc.ID, &doc.EmployerID, &doc.Name, &doc.StorageKey, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scanOne(row scanner) (*models.Employer, error) {
	employer := &models.Employer{}
	err := row.Scan(
		&employer.ID, &employer.RegistrationNumber, &employer.LegalName,
		&employer.TaxID, &employer.RegistryID, &employer.SectorID, &employer.RegionID,
		&employer.Address, &employer.Latitude, &employer.Longitude,
		&employer.ContactName, &employer.ContactEmail, &employer.ContactPhone,
		&employer.Status, &employer.RejectionReason,
		&employer.CreatedAt, &employer.ValidatedAt,
		&employer.CreatedBy, &employer.ValidatedBy)
	if err != nil {
		return nil, err
	}
	return employer, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
