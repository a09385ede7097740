// Package references holds the static lookup repositories (activity sectors,
// regions) consumed by employer records.
package references

import (
	"context"

	"github.com/fmbakop/cotisio/internal/server/models"
)

type Repository interface {
	CreateSector(ctx context.Context, sector *models.Sector) (*models.Sector, error)
	GetSector(ctx context.Context, id int64) (*models.Sector, error)
	ListSectors(ctx context.Context) ([]*models.Sector, error)

	CreateRegion(ctx context.Context, region *models.Region) (*models.Region, error)
	GetRegion(ctx context.Context, id int64) (*models.Region, error)
	ListRegions(ctx context.Context) ([]*models.Region, error)
}
