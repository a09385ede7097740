package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fmbakop/cotisio/internal/server/models"
)

type ReferenceService interface {
	CreateSector(ctx context.Context, sector *models.Sector) (*models.Sector, error)
	ListSectors(ctx context.Context) ([]*models.Sector, error)
	CreateRegion(ctx context.Context, region *models.Region) (*models.Region, error)
	ListRegions(ctx context.Context) ([]*models.Region, error)
}

type sectorRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type regionRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type sectorResponse struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type regionResponse struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

func toSectorResponse(s *models.Sector) sectorResponse {
	return sectorResponse{ID: s.ID, Code: s.Code, Name: s.Name, Description: s.Description}
}

func toRegionResponse(r *models.Region) regionResponse {
	return regionResponse{ID: r.ID, Code: r.Code, Name: r.Name}
}

func (s *Server) handleCreateSector(w http.ResponseWriter, r *http.Request) {
	var req sectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	sector, err := s.references.CreateSector(r.Context(), &models.Sector{
		Code: req.Code, Name: req.Name, Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSectorResponse(sector))
}

func (s *Server) handleListSectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := s.references.ListSectors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]sectorResponse, 0, len(sectors))
	for _, sector := range sectors {
		out = append(out, toSectorResponse(sector))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateRegion(w http.ResponseWriter, r *http.Request) {
	var req regionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	region, err := s.references.CreateRegion(r.Context(), &models.Region{
		Code: req.Code, Name: req.Name,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRegionResponse(region))
}

func (s *Server) handleListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := s.references.ListRegions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]regionResponse, 0, len(regions))
	for _, region := range regions {
		out = append(out, toRegionResponse(region))
	}
	writeJSON(w, http.StatusOK, out)
}
