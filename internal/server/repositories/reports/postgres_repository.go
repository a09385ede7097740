package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fmbakop/cotisio/internal/dbx"
	"github.com/fmbakop/cotisio/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CountNewValidatedEmployers(ctx context.Context, monthStart time.Time) (int64, error) {
	query :=
		`SELECT COUNT(*)
		 FROM employers
		 WHERE status = $1 AND created_at >= $2
		 `

	var count int64
	if err := r.db.QueryRowContext(ctx, query, models.EmployerValidated, monthStart).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) CountNewInsured(ctx context.Context, monthStart time.Time) (int64, error) {
	query :=
		`SELECT COUNT(*)
		 FROM insured_persons
		 WHERE affiliated_at >= $1
		 `

	var count int64
	if err := r.db.QueryRowContext(ctx, query, monthStart).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) CountValidatedEmployers(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM employers WHERE status = $1`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, models.EmployerValidated).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) CountEmployersDeclared(ctx context.Context, monthStart time.Time) (int64, error) {
	query :=
		`SELECT COUNT(DISTINCT employer_id)
		 FROM declarations
		 WHERE status = $1 AND period >= $2 AND period < $3
		 `

	var count int64
	err := r.db.QueryRowContext(ctx, query,
		models.DeclarationValidated, monthStart, monthStart.AddDate(0, 1, 0)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) SumDeclaredContributions(ctx context.Context, monthStart time.Time) (decimal.Decimal, error) {
	query :=
		`SELECT COALESCE(SUM(total), 0)
		 FROM declarations
		 WHERE status = $1 AND period >= $2 AND period < $3
		 `

	var sum decimal.Decimal
	err := r.db.QueryRowContext(ctx, query,
		models.DeclarationValidated, monthStart, monthStart.AddDate(0, 1, 0)).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("db error: %w", err)
	}
	return sum, nil
}

func (r *PostgresRepository) SumCollectedContributions(ctx context.Context, monthStart time.Time) (decimal.Decimal, error) {
	query :=
		`SELECT COALESCE(SUM(p.amount), 0)
		 FROM payments p
		 JOIN declarations d ON d.id = p.declaration_id
		 WHERE p.status = $1 AND d.period >= $2 AND d.period < $3
		 `

	var sum decimal.Decimal
	err := r.db.QueryRowContext(ctx, query,
		models.PaymentConfirmed, monthStart, monthStart.AddDate(0, 1, 0)).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("db error: %w", err)
	}
	return sum, nil
}

func (r *PostgresRepository) Arrears(ctx context.Context) ([]*models.ArrearsEntry, error) {
	// Validated employers with at least one declaration that has no payment
	// rows at all, annotated with the sum of those unpaid declarations.
	query :=
		`SELECT e.id, COALESCE(e.registration_number, ''), e.legal_name, e.tax_id, e.registry_id,
		        e.sector_id, e.region_id, e.contact_name, e.contact_email, e.contact_phone,
		        e.status, e.created_at, SUM(d.total)
		 FROM employers e
		 JOIN declarations d ON d.employer_id = e.id
		 LEFT JOIN payments p ON p.declaration_id = d.id
		 WHERE e.status = $1 AND p.id IS NULL
		 GROUP BY e.id
		 ORDER BY SUM(d.total) DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, models.EmployerValidated)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ArrearsEntry
	for rows.Next() {
		entry := &models.ArrearsEntry{}
		if err := rows.Scan(
			&entry.Employer.ID, &entry.Employer.RegistrationNumber,
			&entry.Employer.LegalName, &entry.Employer.TaxID, &entry.Employer.RegistryID,
			&entry.Employer.SectorID, &entry.Employer.RegionID,
			&entry.Employer.ContactName, &entry.Employer.ContactEmail, &entry.Employer.ContactPhone,
			&entry.Employer.Status, &entry.Employer.CreatedAt, &entry.AmountDue); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, entry)
	}

	return result, rows.Err()
}

func (r *PostgresRepository) RecentValidatedEmployers(ctx context.Context, limit int) ([]*models.Employer, error) {
	query :=
		`SELECT id, COALESCE(registration_number, ''), legal_name, status, created_at
		 FROM employers
		 WHERE status = $1
		 ORDER BY created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, models.EmployerValidated, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Employer
	for rows.Next() {
		employer := &models.Employer{}
		if err := rows.Scan(&employer.ID, &employer.RegistrationNumber,
			&employer.LegalName, &employer.Status, &employer.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, employer)
	}

	return result, rows.Err()
}

func (r *PostgresRepository) RecentConfirmedPayments(ctx context.Context, limit int) ([]*models.Payment, error) {
	query :=
		`SELECT id, reference, declaration_id, amount, mode, received_at, status
		 FROM payments
		 WHERE status = $1
		 ORDER BY received_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, models.PaymentConfirmed, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.Reference, &payment.DeclarationID,
			&payment.Amount, &payment.Mode, &payment.ReceivedAt, &payment.Status); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, payment)
	}

	return result, rows.Err()
}
