package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fmbakop/cotisio/internal/server/models"
)

type DeclarationService interface {
	Create(ctx context.Context, actor models.Actor, declaration *models.Declaration) (*models.Declaration, error)
	GetByID(ctx context.Context, id int64) (*models.Declaration, error)
	List(ctx context.Context) ([]*models.Declaration, error)
	Submit(ctx context.Context, id int64) (*models.Declaration, error)
	Validate(ctx context.Context, id int64) (*models.Declaration, error)
	Reject(ctx context.Context, id int64) (*models.Declaration, error)
}

type declarationLineRequest struct {
	InsuredID     int64           `json:"insured_id"`
	Salary        decimal.Decimal `json:"salary"`
	EmployeeShare decimal.Decimal `json:"employee_share"`
	EmployerShare decimal.Decimal `json:"employer_share"`
}

type declarationRequest struct {
	EmployerID int64                    `json:"employer_id"`
	Period     string                   `json:"period"` // yyyy-mm
	Total      decimal.Decimal          `json:"total"`
	Lines      []declarationLineRequest `json:"lines"`
}

type declarationLineResponse struct {
	ID            int64           `json:"id"`
	InsuredID     int64           `json:"insured_id"`
	Salary        decimal.Decimal `json:"salary"`
	EmployeeShare decimal.Decimal `json:"employee_share"`
	EmployerShare decimal.Decimal `json:"employer_share"`
}

type declarationResponse struct {
	ID          int64                     `json:"id"`
	EmployerID  int64                     `json:"employer_id"`
	Period      string                    `json:"period"`
	SubmittedAt *time.Time                `json:"submitted_at,omitempty"`
	Total       decimal.Decimal           `json:"total"`
	Status      string                    `json:"status"`
	CreatedAt   time.Time                 `json:"created_at"`
	Lines       []declarationLineResponse `json:"lines,omitempty"`
}

const periodLayout = "2006-01"

func toDeclarationResponse(d *models.Declaration) declarationResponse {
	out := declarationResponse{
		ID:          d.ID,
		EmployerID:  d.EmployerID,
		Period:      d.Period.Format(periodLayout),
		SubmittedAt: d.SubmittedAt,
		Total:       d.Total,
		Status:      string(d.Status),
		CreatedAt:   d.CreatedAt,
	}
	for _, l := range d.Lines {
		out.Lines = append(out.Lines, declarationLineResponse{
			ID:            l.ID,
			InsuredID:     l.InsuredID,
			Salary:        l.Salary,
			EmployeeShare: l.EmployeeShare,
			EmployerShare: l.EmployerShare,
		})
	}
	return out
}

func (s *Server) handleCreateDeclaration(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	var req declarationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	period, err := time.Parse(periodLayout, req.Period)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid period, expected yyyy-mm"})
		return
	}

	declaration := &models.Declaration{
		EmployerID: req.EmployerID,
		Period:     period,
		Total:      req.Total,
	}
	for _, l := range req.Lines {
		declaration.Lines = append(declaration.Lines, models.DeclarationLine{
			InsuredID:     l.InsuredID,
			Salary:        l.Salary,
			EmployeeShare: l.EmployeeShare,
			EmployerShare: l.EmployerShare,
		})
	}

	created, err := s.declarations.Create(r.Context(), actor, declaration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDeclarationResponse(created))
}

func (s *Server) handleListDeclarations(w http.ResponseWriter, r *http.Request) {
	declarations, err := s.declarations.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]declarationResponse, 0, len(declarations))
	for _, d := range declarations {
		out = append(out, toDeclarationResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetDeclaration(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	declaration, err := s.declarations.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDeclarationResponse(declaration))
}

func (s *Server) declarationTransitionHandler(fn func(context.Context, int64) (*models.Declaration, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
			return
		}
		declaration, err := fn(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDeclarationResponse(declaration))
	}
}
