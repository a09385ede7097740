package payments

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/fmbakop/cotisio/internal/common"
	"github.com/fmbakop/cotisio/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(9))
	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+payments.*RETURNING\s+id`).
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), &models.Payment{
		Reference:     "PAY20250314103045",
		DeclarationID: 11,
		Amount:        decimal.NewFromInt(30000),
		Mode:          models.PaymentBankTransfer,
		PaidOn:        time.Now(),
		ReceivedAt:    time.Now(),
		Status:        models.PaymentInitiated,
		RecordedBy:    3,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 9 {
		t.Fatalf("unexpected payment: %+v", got)
	}
}

func TestCreate_DuplicateReference(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+payments`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.Payment{Reference: "PAY20250314103045"})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "reference", "declaration_id", "amount", "mode", "paid_on", "received_at", "status", "proof_key", "recorded_by"}).
		AddRow(int64(9), "PAY20250314103045", int64(11), "30000", "bank_transfer", now, now, "initiated", "", int64(3))
	mock.ExpectQuery(`FROM\s+payments\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(9)).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Reference != "PAY20250314103045" || !got.Amount.Equal(decimal.NewFromInt(30000)) {
		t.Fatalf("unexpected payment: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+payments\s+WHERE\s+id`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetStatus_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+payments\s+SET\s+status\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2`).
		WithArgs(models.PaymentConfirmed, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetStatus(context.Background(), 9, models.PaymentConfirmed); err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestCountByDeclaration(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"count"}).AddRow(int64(2))
	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+payments\s+WHERE\s+declaration_id\s*=\s*\$1`).
		WithArgs(int64(11)).
		WillReturnRows(rows)

	got, err := repo.CountByDeclaration(context.Background(), 11)
	if err != nil {
		t.Fatalf("CountByDeclaration error: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}
