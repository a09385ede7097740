package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fmbakop/cotisio/internal/server/models"
)

type InsuredService interface {
	Create(ctx context.Context, actor models.Actor, person *models.InsuredPerson) (*models.InsuredPerson, error)
	GetByID(ctx context.Context, id int64) (*models.InsuredPerson, error)
	List(ctx context.Context) ([]*models.InsuredPerson, error)
	Update(ctx context.Context, person *models.InsuredPerson) (*models.InsuredPerson, error)
}

type insuredRequest struct {
	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	BirthDate  string `json:"birth_date"` // yyyy-mm-dd
	BirthPlace string `json:"birth_place"`
	NationalID string `json:"national_id"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Kind       string `json:"kind"`
	EmployerID *int64 `json:"employer_id"`
}

type insuredResponse struct {
	ID                int64     `json:"id"`
	AffiliationNumber string    `json:"affiliation_number"`
	LastName          string    `json:"last_name"`
	FirstName         string    `json:"first_name"`
	BirthDate         string    `json:"birth_date"`
	BirthPlace        string    `json:"birth_place"`
	NationalID        string    `json:"national_id"`
	Address           string    `json:"address"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email"`
	Kind              string    `json:"kind"`
	EmployerID        *int64    `json:"employer_id,omitempty"`
	AffiliatedAt      time.Time `json:"affiliated_at"`
	IsActive          bool      `json:"is_active"`
}

const dateLayout = "2006-01-02"

func (req *insuredRequest) toModel() (*models.InsuredPerson, error) {
	var birthDate time.Time
	if req.BirthDate != "" {
		var err error
		birthDate, err = time.Parse(dateLayout, req.BirthDate)
		if err != nil {
			return nil, err
		}
	}
	return &models.InsuredPerson{
		LastName:   req.LastName,
		FirstName:  req.FirstName,
		BirthDate:  birthDate,
		BirthPlace: req.BirthPlace,
		NationalID: req.NationalID,
		Address:    req.Address,
		Phone:      req.Phone,
		Email:      req.Email,
		Kind:       models.InsuredKind(req.Kind),
		EmployerID: req.EmployerID,
	}, nil
}

func toInsuredResponse(p *models.InsuredPerson) insuredResponse {
	out := insuredResponse{
		ID:                p.ID,
		AffiliationNumber: p.AffiliationNumber,
		LastName:          p.LastName,
		FirstName:         p.FirstName,
		BirthPlace:        p.BirthPlace,
		NationalID:        p.NationalID,
		Address:           p.Address,
		Phone:             p.Phone,
		Email:             p.Email,
		Kind:              string(p.Kind),
		EmployerID:        p.EmployerID,
		AffiliatedAt:      p.AffiliatedAt,
		IsActive:          p.IsActive,
	}
	if !p.BirthDate.IsZero() {
		out.BirthDate = p.BirthDate.Format(dateLayout)
	}
	return out
}

func (s *Server) handleCreateInsured(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	var req insuredRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	person, err := req.toModel()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid birth date"})
		return
	}

	created, err := s.insured.Create(r.Context(), actor, person)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInsuredResponse(created))
}

func (s *Server) handleListInsured(w http.ResponseWriter, r *http.Request) {
	persons, err := s.insured.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]insuredResponse, 0, len(persons))
	for _, p := range persons {
		out = append(out, toInsuredResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetInsured(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	person, err := s.insured.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInsuredResponse(person))
}

func (s *Server) handleUpdateInsured(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	var req insuredRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	person, err := req.toModel()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid birth date"})
		return
	}
	person.ID = id

	updated, err := s.insured.Update(r.Context(), person)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInsuredResponse(updated))
}
