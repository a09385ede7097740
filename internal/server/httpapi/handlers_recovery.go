package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fmbakop/cotisio/internal/server/models"
)

type RecoveryService interface {
	Create(ctx context.Context, actor models.Actor, action *models.RecoveryAction) (*models.RecoveryAction, error)
	GetByID(ctx context.Context, id int64) (*models.RecoveryAction, error)
	List(ctx context.Context, filter models.RecoveryActionFilter) ([]*models.RecoveryAction, error)
	Update(ctx context.Context, action *models.RecoveryAction) (*models.RecoveryAction, error)
	Delete(ctx context.Context, id int64) error
}

type recoveryActionRequest struct {
	EmployerID      int64           `json:"employer_id"`
	Type            string          `json:"type"`
	PlannedAt       string          `json:"planned_at"` // yyyy-mm-dd
	AssignedAgent   int64           `json:"assigned_agent"`
	Status          string          `json:"status"`
	ExecutedAt      *string         `json:"executed_at"`
	RecoveredAmount decimal.Decimal `json:"recovered_amount"`
	Observations    string          `json:"observations"`
}

type recoveryActionResponse struct {
	ID              int64           `json:"id"`
	EmployerID      int64           `json:"employer_id"`
	Type            string          `json:"type"`
	PlannedAt       string          `json:"planned_at"`
	AssignedAgent   int64           `json:"assigned_agent"`
	Status          string          `json:"status"`
	ExecutedAt      *time.Time      `json:"executed_at,omitempty"`
	RecoveredAmount decimal.Decimal `json:"recovered_amount"`
	Observations    string          `json:"observations"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toRecoveryActionResponse(a *models.RecoveryAction) recoveryActionResponse {
	return recoveryActionResponse{
		ID:              a.ID,
		EmployerID:      a.EmployerID,
		Type:            string(a.Type),
		PlannedAt:       a.PlannedAt.Format(dateLayout),
		AssignedAgent:   a.AssignedAgent,
		Status:          string(a.Status),
		ExecutedAt:      a.ExecutedAt,
		RecoveredAmount: a.RecoveredAmount,
		Observations:    a.Observations,
		CreatedAt:       a.CreatedAt,
	}
}

func (req *recoveryActionRequest) toModel() (*models.RecoveryAction, error) {
	action := &models.RecoveryAction{
		EmployerID:      req.EmployerID,
		Type:            models.RecoveryActionType(req.Type),
		AssignedAgent:   req.AssignedAgent,
		Status:          models.RecoveryActionStatus(req.Status),
		RecoveredAmount: req.RecoveredAmount,
		Observations:    req.Observations,
	}
	if req.PlannedAt != "" {
		planned, err := time.Parse(dateLayout, req.PlannedAt)
		if err != nil {
			return nil, err
		}
		action.PlannedAt = planned
	}
	if req.ExecutedAt != nil {
		executed, err := time.Parse(dateLayout, *req.ExecutedAt)
		if err != nil {
			return nil, err
		}
		action.ExecutedAt = &executed
	}
	return action, nil
}

func (s *Server) handleCreateRecoveryAction(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	var req recoveryActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	action, err := req.toModel()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date, expected yyyy-mm-dd"})
		return
	}

	created, err := s.recovery.Create(r.Context(), actor, action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecoveryActionResponse(created))
}

func (s *Server) handleListRecoveryActions(w http.ResponseWriter, r *http.Request) {
	filter := models.RecoveryActionFilter{
		Status: models.RecoveryActionStatus(r.URL.Query().Get("status")),
		Type:   models.RecoveryActionType(r.URL.Query().Get("type")),
	}
	actions, err := s.recovery.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]recoveryActionResponse, 0, len(actions))
	for _, a := range actions {
		out = append(out, toRecoveryActionResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRecoveryAction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	action, err := s.recovery.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecoveryActionResponse(action))
}

func (s *Server) handleUpdateRecoveryAction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	var req recoveryActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	action, err := req.toModel()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date, expected yyyy-mm-dd"})
		return
	}
	action.ID = id

	updated, err := s.recovery.Update(r.Context(), action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecoveryActionResponse(updated))
}

func (s *Server) handleDeleteRecoveryAction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	if err := s.recovery.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
