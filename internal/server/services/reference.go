package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fmbakop/cotisio/internal/common"
	"github.com/fmbakop/cotisio/internal/server/models"
	"github.com/fmbakop/cotisio/internal/server/repositories/repomanager"
)

// ReferenceService exposes the static sector and region lookups.
type ReferenceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReferenceService(db *sql.DB, m repomanager.RepositoryManager) *ReferenceService {
	return &ReferenceService{db: db, repomanager: m}
}

func (s *ReferenceService) CreateSector(ctx context.Context, sector *models.Sector) (*models.Sector, error) {
	if sector.Code == "" || sector.Name == "" {
		return nil, fmt.Errorf("%w: sector code and name are required", common.ErrValidation)
	}
	return s.repomanager.References(s.db).CreateSector(ctx, sector)
}

func (s *ReferenceService) ListSectors(ctx context.Context) ([]*models.Sector, error) {
	return s.repomanager.References(s.db).ListSectors(ctx)
}

func (s *ReferenceService) CreateRegion(ctx context.Context, region *models.Region) (*models.Region, error) {
	if region.Code == "" || region.Name == "" {
		return nil, fmt.Errorf("%w: region code and name are required", common.ErrValidation)
	}
	return s.repomanager.References(s.db).CreateRegion(ctx, region)
}

func (s *ReferenceService) ListRegions(ctx context.Context) ([]*models.Region, error) {
	return s.repomanager.References(s.db).ListRegions(ctx)
}
