package repomanager

import (
	"context"
	"database/sql"

	"github.com/fmbakop/cotisio/internal/dbx"
	"github.com/fmbakop/cotisio/internal/server/repositories/declarations"
	"github.com/fmbakop/cotisio/internal/server/repositories/employers"
	"github.com/fmbakop/cotisio/internal/server/repositories/insured"
	"github.com/fmbakop/cotisio/internal/server/repositories/payments"
	"github.com/fmbakop/cotisio/internal/server/repositories/recoveryactions"
	"github.com/fmbakop/cotisio/internal/server/repositories/references"
	"github.com/fmbakop/cotisio/internal/server/repositories/reports"
	"github.com/fmbakop/cotisio/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a concrete handle, which
// may be the shared *sql.DB or an in-flight transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	References(db dbx.DBTX) references.Repository
	Employers(db dbx.DBTX) employers.Repository
	Insured(db dbx.DBTX) insured.Repository
	Declarations(db dbx.DBTX) declarations.Repository
	Payments(db dbx.DBTX) payments.Repository
	RecoveryActions(db dbx.DBTX) recoveryactions.Repository
	Reports(db dbx.DBTX) reports.Repository
}
