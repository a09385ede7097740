package references

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fmbakop/cotisio/internal/common"
	"github.com/fmbakop/cotisio/internal/dbx"
	"github.com/fmbakop/cotisio/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateSector(ctx context.Context, sector *models.Sector) (*models.Sector, error) {
	query :=
		`INSERT INTO sectors (code, name, description)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, sector.Code, sector.Name, sector.Description).Scan(&sector.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrValidation
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return sector, nil
}

func (r *PostgresRepository) GetSector(ctx context.Context, id int64) (*models.Sector, error) {
	query := `SELECT id, code, name, description FROM sectors WHERE id = $1`

	sector := &models.Sector{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&sector.ID, &sector.Code, &sector.Name, &sector.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return sector, nil
}

func (r *PostgresRepository) ListSectors(ctx context.Context) ([]*models.Sector, error) {
	query := `SELECT id, code, name, description FROM sectors ORDER BY code`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var sectors []*models.Sector
	for rows.Next() {
		s := &models.Sector{}
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Description); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		sectors = append(sectors, s)
	}

	return sectors, rows.Err()
}

func (r *PostgresRepository) CreateRegion(ctx context.Context, region *models.Region) (*models.Region, error) {
	query :=
		`INSERT INTO regions (code, name)
		 VALUES ($1, $2)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, region.Code, region.Name).Scan(&region.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrValidation
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return region, nil
}

func (r *PostgresRepository) GetRegion(ctx context.Context, id int64) (*models.Region, error) {
	query := `SELECT id, code, name FROM regions WHERE id = $1`

	region := &models.Region{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&region.ID, &region.Code, &region.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return region, nil
}

func (r *PostgresRepository) ListRegions(ctx context.Context) ([]*models.Region, error) {
	query := `SELECT id, code, name FROM regions ORDER BY code`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var regions []*models.Region
	for rows.Next() {
		reg := &models.Region{}
		if err := rows.Scan(&reg.ID, &reg.Code, &reg.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		regions = append(regions, reg)
	}

	return regions, rows.Err()
}
