package services

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/fmbakop/cotisio/internal/server/models"
	"github.com/fmbakop/cotisio/internal/server/repositories/repomanager"
)

const recentActivityLimit = 5

// KPIService computes the dashboard aggregates. Every figure is recomputed
// from the ledgers on each call.
type KPIService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewKPIService(db *sql.DB, m repomanager.RepositoryManager) *KPIService {
	return &KPIService{db: db, repomanager: m}
}

// Report builds the KPI snapshot for the month containing ref.
//
// The compliance rate is the share of validated employers having a validated
// declaration for the month. The collection rate is confirmed payments over
// validated declaration totals for the month. Both rates fall back to zero
// when their denominator is zero and never leave [0,100].
func (s *KPIService) Report(ctx context.Context, ref time.Time) (*models.KPIReport, error) {
	monthStart := models.MonthStart(ref)
	repo := s.repomanager.Reports(s.db)

	newEmployers, err := repo.CountNewValidatedEmployers(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	newInsured, err := repo.CountNewInsured(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	validatedEmployers, err := repo.CountValidatedEmployers(ctx)
	if err != nil {
		return nil, err
	}
	declaredEmployers, err := repo.CountEmployersDeclared(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	declared, err := repo.SumDeclaredContributions(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	collected, err := repo.SumCollectedContributions(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	report := &models.KPIReport{
		NewEmployers:    newEmployers,
		NewInsured:      newInsured,
		CollectedAmount: collected,
	}
	if validatedEmployers > 0 {
		report.ComplianceRatePercent = clampRate(float64(declaredEmployers) / float64(validatedEmployers) * 100)
	}
	if declared.IsPositive() {
		report.CollectionRatePercent = clampRate(collected.Div(declared).InexactFloat64() * 100)
	}
	return report, nil
}

// Arrears lists validated employers with unpaid declarations and the amount
// each one owes.
func (s *KPIService) Arrears(ctx context.Context) ([]*models.ArrearsEntry, error) {
	return s.repomanager.Reports(s.db).Arrears(ctx)
}

// RecentActivity returns the latest validated employers and confirmed
// payments for the dashboard feed.
func (s *KPIService) RecentActivity(ctx context.Context) ([]*models.Employer, []*models.Payment, error) {
	repo := s.repomanager.Reports(s.db)
	employers, err := repo.RecentValidatedEmployers(ctx, recentActivityLimit)
	if err != nil {
		return nil, nil, err
	}
	payments, err := repo.RecentConfirmedPayments(ctx, recentActivityLimit)
	if err != nil {
		return nil, nil, err
	}
	return employers, payments, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// clampRate keeps a percentage inside [0,100]. Collections can outrun the
// validated declared totals for a month (payments against declarations still
// in the pipeline), which would otherwise push the rate past 100.
func clampRate(v float64) float64 {
	return math.Min(round2(v), 100)
}
