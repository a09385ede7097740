package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fmbakop/cotisio/internal/server/models"
)

// EmployerService is the slice of the employer service consumed over HTTP.
type EmployerService interface {
	Create(ctx context.Context, actor models.Actor, employer *models.Employer) (*models.Employer, error)
	GetByID(ctx context.Context, id int64) (*models.Employer, error)
	List(ctx context.Context) ([]*models.Employer, error)
	Update(ctx context.Context, actor models.Actor, employer *models.Employer) (*models.Employer, error)
	Transition(ctx context.Context, actor models.Actor, employerID int64, target models.EmployerStatus, rejectionReason string) (*models.Employer, error)
	AttachDocument(ctx context.Context, actor models.Actor, employerID int64, name string) (*models.SupportingDocument, string, error)
	ListDocuments(ctx context.Context, employerID int64) ([]*models.SupportingDocument, error)
	DocumentURL(ctx context.Context, key string) (string, error)
}

type employerRequest struct {
	LegalName    string   `json:"legal_name"`
	TaxID        string   `json:"tax_id"`
	RegistryID   string   `json:"registry_id"`
	SectorID     int64    `json:"sector_id"`
	RegionID     int64    `json:"region_id"`
	Address      string   `json:"address"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ContactName  string   `json:"contact_name"`
	ContactEmail string   `json:"contact_email"`
	ContactPhone string   `json:"contact_phone"`
}

type employerResponse struct {
	ID                 int64      `json:"id"`
	RegistrationNumber string     `json:"registration_number,omitempty"`
	LegalName          string     `json:"legal_name"`
	TaxID              string     `json:"tax_id"`
	RegistryID         string     `json:"registry_id"`
	SectorID           int64      `json:"sector_id"`
	RegionID           int64      `json:"region_id"`
	Address            string     `json:"address"`
	Latitude           *float64   `json:"latitude,omitempty"`
	Longitude          *float64   `json:"longitude,omitempty"`
	ContactName        string     `json:"contact_name"`
	ContactEmail       string     `json:"contact_email"`
	ContactPhone       string     `json:"contact_phone"`
	Status             string     `json:"status"`
	RejectionReason    string     `json:"rejection_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	ValidatedAt        *time.Time `json:"validated_at,omitempty"`
}

type transitionRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason"`
}

type documentRequest struct {
	Name string `json:"name"`
}

type documentResponse struct {
	ID         int64     `json:"id"`
	EmployerID int64     `json:"employer_id"`
	Name       string    `json:"name"`
	StorageKey string    `json:"storage_key"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploadURL  string    `json:"upload_url,omitempty"`
}

func toEmployerResponse(e *models.Employer) employerResponse {
	return employerResponse{
		ID:                 e.ID,
		RegistrationNumber: e.RegistrationNumber,
		LegalName:          e.LegalName,
		TaxID:              e.TaxID,
		RegistryID:         e.RegistryID,
		SectorID:           e.SectorID,
		RegionID:           e.RegionID,
		Address:            e.Address,
		Latitude:           e.Latitude,
		Longitude:          e.Longitude,
		ContactName:        e.ContactName,
		ContactEmail:       e.ContactEmail,
		ContactPhone:       e.ContactPhone,
		Status:             string(e.Status),
		RejectionReason:    e.RejectionReason,
		CreatedAt:          e.CreatedAt,
		ValidatedAt:        e.ValidatedAt,
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) handleCreateEmployer(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	var req employerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	employer, err := s.employers.Create(r.Context(), actor, &models.Employer{
		LegalName:    req.LegalName,
		TaxID:        req.TaxID,
		RegistryID:   req.RegistryID,
		SectorID:     req.SectorID,
		RegionID:     req.RegionID,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployerResponse(employer))
}

func (s *Server) handleListEmployers(w http.ResponseWriter, r *http.Request) {
	employers, err := s.employers.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]employerResponse, 0, len(employers))
	for _, e := range employers {
		out = append(out, toEmployerResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetEmployer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	employer, err := s.employers.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployerResponse(employer))
}

func (s *Server) handleUpdateEmployer(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	var req employerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	employer, err := s.employers.Update(r.Context(), actor, &models.Employer{
		ID:           id,
		LegalName:    req.LegalName,
		TaxID:        req.TaxID,
		RegistryID:   req.RegistryID,
		SectorID:     req.SectorID,
		RegionID:     req.RegionID,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployerResponse(employer))
}

func (s *Server) handleEmployerTransition(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	employer, err := s.employers.Transition(r.Context(), actor, id, models.EmployerStatus(req.Status), req.RejectionReason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployerResponse(employer))
}

func (s *Server) handleAttachDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	doc, uploadURL, err := s.employers.AttachDocument(r.Context(), actor, id, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, documentResponse{
		ID:         doc.ID,
		EmployerID: doc.EmployerID,
		Name:       doc.Name,
		StorageKey: doc.StorageKey,
		UploadedAt: doc.UploadedAt,
		UploadURL:  uploadURL,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	docs, err := s.employers.ListDocuments(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, documentResponse{
			ID:         doc.ID,
			EmployerID: doc.EmployerID,
			Name:       doc.Name,
			StorageKey: doc.StorageKey,
			UploadedAt: doc.UploadedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDocumentDownloadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "key is required"})
		return
	}
	url, err := s.employers.DocumentURL(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"download_url": url})
}
