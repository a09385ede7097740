package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/fmbakop/cotisio/internal/dbx"
	"github.com/fmbakop/cotisio/internal/server/migrations"
	"github.com/fmbakop/cotisio/internal/server/repositories/declarations"
	"github.com/fmbakop/cotisio/internal/server/repositories/employers"
	"github.com/fmbakop/cotisio/internal/server/repositories/insured"
	"github.com/fmbakop/cotisio/internal/server/repositories/payments"
	"github.com/fmbakop/cotisio/internal/server/repositories/recoveryactions"
	"github.com/fmbakop/cotisio/internal/server/repositories/references"
	"github.com/fmbakop/cotisio/internal/server/repositories/reports"
	"github.com/fmbakop/cotisio/internal/server/repositories/users"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) References(db dbx.DBTX) references.Repository {
	return references.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Employers(db dbx.DBTX) employers.Repository {
	return employers.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Insured(db dbx.DBTX) insured.Repository {
	return insured.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Declarations(db dbx.DBTX) declarations.Repository {
	return declarations.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Payments(db dbx.DBTX) payments.Repository {
	return payments.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RecoveryActions(db dbx.DBTX) recoveryactions.Repository {
	return recoveryactions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Reports(db dbx.DBTX) reports.Repository {
	return reports.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
