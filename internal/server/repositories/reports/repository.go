// Package reports holds the read-only aggregate queries behind the
// compliance and recovery KPIs. Everything here is recomputed per call;
// nothing is cached.
package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fmbakop/cotisio/internal/server/models"
)

type Repository interface {
	// CountNewValidatedEmployers counts validated employers created at or
	// after monthStart.
	CountNewValidatedEmployers(ctx context.Context, monthStart time.Time) (int64, error)
	// CountNewInsured counts insured persons affiliated at or after monthStart.
	CountNewInsured(ctx context.Context, monthStart time.Time) (int64, error)
	// CountValidatedEmployers counts all employers with status validated.
	CountValidatedEmployers(ctx context.Context) (int64, error)
	// CountEmployersDeclared counts distinct employers having a validated
	// declaration whose period falls in [monthStart, nextMonth).
	CountEmployersDeclared(ctx context.Context, monthStart time.Time) (int64, error)
	// SumDeclaredContributions sums validated declarations' totals for the
	// period month.
	SumDeclaredContributions(ctx context.Context, monthStart time.Time) (decimal.Decimal, error)
	// SumCollectedContributions sums confirmed payment amounts joined through
	// declarations of the period month.
	SumCollectedContributions(ctx context.Context, monthStart time.Time) (decimal.Decimal, error)
	// Arrears lists validated employers having at least one declaration with
	// zero payments, annotated with the amount due.
	Arrears(ctx context.Context) ([]*models.ArrearsEntry, error)
	// RecentValidatedEmployers returns the latest validated employers.
	RecentValidatedEmployers(ctx context.Context, limit int) ([]*models.Employer, error)
	// RecentConfirmedPayments returns the latest confirmed payments.
	RecentConfirmedPayments(ctx context.Context, limit int) ([]*models.Payment, error)
}
