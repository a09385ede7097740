package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fmbakop/cotisio/internal/server/models"
)

type PaymentService interface {
	Record(ctx context.Context, actor models.Actor, payment *models.Payment, withProof bool) (*models.Payment, string, error)
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	List(ctx context.Context) ([]*models.Payment, error)
	Confirm(ctx context.Context, id int64) (*models.Payment, error)
	Reject(ctx context.Context, id int64) (*models.Payment, error)
	ProofURL(ctx context.Context, key string) (string, error)
}

type paymentRequest struct {
	DeclarationID int64           `json:"declaration_id"`
	Amount        decimal.Decimal `json:"amount"`
	Mode          string          `json:"mode"`
	PaidOn        string          `json:"paid_on"` // yyyy-mm-dd
	WithProof     bool            `json:"with_proof"`
}

type paymentResponse struct {
	ID            int64           `json:"id"`
	Reference     string          `json:"reference"`
	DeclarationID int64           `json:"declaration_id"`
	Amount        decimal.Decimal `json:"amount"`
	Mode          string          `json:"mode"`
	PaidOn        string          `json:"paid_on"`
	ReceivedAt    time.Time       `json:"received_at"`
	Status        string          `json:"status"`
	ProofKey      string          `json:"proof_key,omitempty"`
	UploadURL     string          `json:"upload_url,omitempty"`
}

func toPaymentResponse(p *models.Payment, uploadURL string) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		Reference:     p.Reference,
		DeclarationID: p.DeclarationID,
		Amount:        p.Amount,
		Mode:          string(p.Mode),
		PaidOn:        p.PaidOn.Format(dateLayout),
		ReceivedAt:    p.ReceivedAt,
		Status:        string(p.Status),
		ProofKey:      p.ProofKey,
		UploadURL:     uploadURL,
	}
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	paidOn, err := time.Parse(dateLayout, req.PaidOn)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid paid_on, expected yyyy-mm-dd"})
		return
	}

	payment, uploadURL, err := s.payments.Record(r.Context(), actor, &models.Payment{
		DeclarationID: req.DeclarationID,
		Amount:        req.Amount,
		Mode:          models.PaymentMode(req.Mode),
		PaidOn:        paidOn,
	}, req.WithProof)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(payment, uploadURL))
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.payments.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p, ""))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	payment, err := s.payments.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(payment, ""))
}

func (s *Server) paymentTransitionHandler(fn func(context.Context, int64) (*models.Payment, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
			return
		}
		payment, err := fn(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPaymentResponse(payment, ""))
	}
}

func (s *Server) handlePaymentProofURL(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	payment, err := s.payments.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if payment.ProofKey == "" {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no proof uploaded"})
		return
	}
	url, err := s.payments.ProofURL(r.Context(), payment.ProofKey)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"download_url": url})
}
