package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fmbakop/cotisio/internal/server/models"
)

type KPIService interface {
	Report(ctx context.Context, ref time.Time) (*models.KPIReport, error)
	Arrears(ctx context.Context) ([]*models.ArrearsEntry, error)
	RecentActivity(ctx context.Context) ([]*models.Employer, []*models.Payment, error)
}

type dashboardResponse struct {
	Month                 string             `json:"month"`
	NewEmployers          int64              `json:"new_employers"`
	NewInsured            int64              `json:"new_insured"`
	ComplianceRatePercent float64            `json:"compliance_rate_percent"`
	CollectionRatePercent float64            `json:"collection_rate_percent"`
	CollectedAmount       decimal.Decimal    `json:"collected_amount"`
	RecentEmployers       []employerResponse `json:"recent_employers"`
	RecentPayments        []paymentResponse  `json:"recent_payments"`
}

type arrearsEntryResponse struct {
	Employer  employerResponse `json:"employer"`
	AmountDue decimal.Decimal  `json:"amount_due"`
}

// handleDashboard serves the KPI snapshot for the month given by the optional
// ?month=yyyy-mm query parameter, defaulting to the current month.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ref := time.Now()
	if month := r.URL.Query().Get("month"); month != "" {
		parsed, err := time.Parse(periodLayout, month)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid month, expected yyyy-mm"})
			return
		}
		ref = parsed
	}

	report, err := s.kpi.Report(r.Context(), ref)
	if err != nil {
		writeError(w, err)
		return
	}
	employers, payments, err := s.kpi.RecentActivity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := dashboardResponse{
		Month:                 models.MonthStart(ref).Format(periodLayout),
		NewEmployers:          report.NewEmployers,
		NewInsured:            report.NewInsured,
		ComplianceRatePercent: report.ComplianceRatePercent,
		CollectionRatePercent: report.CollectionRatePercent,
		CollectedAmount:       report.CollectedAmount,
		RecentEmployers:       make([]employerResponse, 0, len(employers)),
		RecentPayments:        make([]paymentResponse, 0, len(payments)),
	}
	for _, e := range employers {
		out.RecentEmployers = append(out.RecentEmployers, toEmployerResponse(e))
	}
	for _, p := range payments {
		out.RecentPayments = append(out.RecentPayments, toPaymentResponse(p, ""))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleArrears(w http.ResponseWriter, r *http.Request) {
	entries, err := s.kpi.Arrears(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]arrearsEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, arrearsEntryResponse{
			Employer:  toEmployerResponse(&entry.Employer),
			AmountDue: entry.AmountDue,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
