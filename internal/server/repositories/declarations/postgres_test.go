package declarations

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

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), now)
	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+declarations.*RETURNING\s+id,\s*created_at`).
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), &models.Declaration{
		EmployerID: 1,
		Period:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Total:      decimal.NewFromInt(47880),
		Status:     models.DeclarationDraft,
		CreatedBy:  2,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 11 {
		t.Fatalf("unexpected declaration: %+v", got)
	}
}

func TestCreate_DuplicatePeriod(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+declarations`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.Declaration{EmployerID: 1})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAddLine_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(5))
	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+declaration_lines.*RETURNING\s+id`).
		WillReturnRows(rows)

	got, err := repo.AddLine(context.Background(), &models.DeclarationLine{
		DeclarationID: 11, InsuredID: 3,
		Salary:        decimal.NewFromInt(200000),
		EmployeeShare: decimal.NewFromInt(8400),
		EmployerShare: decimal.NewFromInt(23520),
	})
	if err != nil {
		t.Fatalf("AddLine error: %v", err)
	}
	if got.ID != 5 {
		t.Fatalf("unexpected line: %+v", got)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	period := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "employer_id", "period", "submitted_at", "total", "status", "created_by", "created_at"}).
		AddRow(int64(11), int64(1), period, nil, "47880", "draft", int64(2), now)
	mock.ExpectQuery(`(?s)FROM\s+declarations\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(11)).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 11)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if !got.Total.Equal(decimal.NewFromInt(47880)) || got.Status != models.DeclarationDraft {
		t.Fatalf("unexpected declaration: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+declarations\s+WHERE\s+id`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetStatus_KeepsSubmittedAtWhenNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE\s+declarations\s+SET\s+status\s*=\s*\$1,\s*submitted_at\s*=\s*COALESCE\(\$2,\s*submitted_at\)`).
		WithArgs(models.DeclarationValidated, nil, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetStatus(context.Background(), 11, models.DeclarationValidated, nil); err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestSetStatus_NoRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+declarations`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetStatus(context.Background(), 99, models.DeclarationSubmitted, nil)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListLines_ScansAll(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "declaration_id", "insured_id", "salary", "employee_share", "employer_share"}).
		AddRow(int64(1), int64(11), int64(3), "200000", "8400", "23520").
		AddRow(int64(2), int64(11), int64(4), "100000", "4200", "11760")
	mock.ExpectQuery(`(?s)FROM\s+declaration_lines\s+WHERE\s+declaration_id\s*=\s*\$1`).
		WithArgs(int64(11)).
		WillReturnRows(rows)

	got, err := repo.ListLines(context.Background(), 11)
	if err != nil {
		t.Fatalf("ListLines error: %v", err)
	}
	if len(got) != 2 || !got[1].Salary.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("unexpected lines: %+v", got)
	}
}
