package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/fmbakop/cotisio/internal/common"
	"github.com/fmbakop/cotisio/internal/dbx"
	"github.com/fmbakop/cotisio/internal/server/models"
	declarationsrepo "github.com/fmbakop/cotisio/internal/server/repositories/declarations"
	employersrepo "github.com/fmbakop/cotisio/internal/server/repositories/employers"
	insuredrepo "github.com/fmbakop/cotisio/internal/server/repositories/insured"
	paymentsrepo "github.com/fmbakop/cotisio/internal/server/repositories/payments"
	recoveryrepo "github.com/fmbakop/cotisio/internal/server/repositories/recoveryactions"
	referencesrepo "github.com/fmbakop/cotisio/internal/server/repositories/references"
	reportsrepo "github.com/fmbakop/cotisio/internal/server/repositories/reports"
	usersrepo "github.com/fmbakop/cotisio/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// --- fake repositories ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error
	getOut    *models.User
	getErr    error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	out := *u
	out.ID = 1
	return &out, nil
}
func (f *fakeUsersRepo) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeReferencesRepo struct {
	sectorErr error
	regionErr error
}

func (f *fakeReferencesRepo) CreateSector(ctx context.Context, s *models.Sector) (*models.Sector, error) {
	out := *s
	out.ID = 1
	return &out, nil
}
func (f *fakeReferencesRepo) GetSector(ctx context.Context, id int64) (*models.Sector, error) {
	if f.sectorErr != nil {
		return nil, f.sectorErr
	}
	return &models.Sector{ID: id, Code: "AGR", Name: "Agriculture"}, nil
}
func (f *fakeReferencesRepo) ListSectors(ctx context.Context) ([]*models.Sector, error) {
	return nil, nil
}
func (f *fakeReferencesRepo) CreateRegion(ctx context.Context, r *models.Region) (*models.Region, error) {
	out := *r
	out.ID = 1
	return &out, nil
}
func (f *fakeReferencesRepo) GetRegion(ctx context.Context, id int64) (*models.Region, error) {
	if f.regionErr != nil {
		return nil, f.regionErr
	}
	return &models.Region{ID: id, Code: "LT", Name: "Littoral"}, nil
}
func (f *fakeReferencesRepo) ListRegions(ctx context.Context) ([]*models.Region, error) {
	return nil, nil
}

type fakeEmployersRepo struct {
	byID      map[int64]*models.Employer
	createErr error

	setValidatedCalls int
	lastNumber        string

	setStatusCalls int
	lastStatus     models.EmployerStatus

	addedDocs []*models.SupportingDocument
}

func (f *fakeEmployersRepo) Create(ctx context.Context, e *models.Employer) (*models.Employer, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *e
	out.ID = int64(len(f.byID) + 1)
	if f.byID == nil {
		f.byID = map[int64]*models.Employer{}
	}
	f.byID[out.ID] = &out
	return &out, nil
}
func (f *fakeEmployersRepo) GetByID(ctx context.Context, id int64) (*models.Employer, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *e
	return &out, nil
}
func (f *fakeEmployersRepo) List(ctx context.Context) ([]*models.Employer, error) {
	return nil, nil
}
func (f *fakeEmployersRepo) UpdateFields(ctx context.Context, e *models.Employer) error {
	f.byID[e.ID] = e
	return nil
}
func (f *fakeEmployersRepo) SetValidated(ctx context.Context, id int64, number string, validatedAt time.Time, validatedBy int64) error {
	f.setValidatedCalls++
	f.lastNumber = number
	e := f.byID[id]
	e.Status = models.EmployerValidated
	e.RegistrationNumber = number
	e.ValidatedAt = &validatedAt
	e.ValidatedBy = &validatedBy
	return nil
}
func (f *fakeEmployersRepo) SetStatus(ctx context.Context, id int64, status models.EmployerStatus, rejectionReason string) error {
	f.setStatusCalls++
	f.lastStatus = status
	e := f.byID[id]
	e.Status = status
	e.RejectionReason = rejectionReason
	return nil
}
func (f *fakeEmployersRepo) AddDocument(ctx context.Context, doc *models.SupportingDocument) (*models.SupportingDocument, error) {
	out := *doc
	out.ID = int64(len(f.addedDocs) + 1)
	f.addedDocs = append(f.addedDocs, &out)
	return &out, nil
}
func (f *fakeEmployersRepo) ListDocuments(ctx context.Context, employerID int64) ([]*models.SupportingDocument, error) {
	return f.addedDocs, nil
}

type fakeInsuredRepo struct {
	createErr error
	assignErr error

	byID       map[int64]*models.InsuredPerson
	lastNumber string
}

func (f *fakeInsuredRepo) Create(ctx context.Context, p *models.InsuredPerson) (*models.InsuredPerson, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *p
	out.ID = int64(len(f.byID) + 1)
	if f.byID == nil {
		f.byID = map[int64]*models.InsuredPerson{}
	}
	f.byID[out.ID] = &out
	return &out, nil
}
func (f *fakeInsuredRepo) AssignNumber(ctx context.Context, id int64, number string) error {
	if f.assignErr != nil {
		return f.assignErr
	}
	f.lastNumber = number
	f.byID[id].AffiliationNumber = number
	return nil
}
func (f *fakeInsuredRepo) GetByID(ctx context.Context, id int64) (*models.InsuredPerson, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *p
	return &out, nil
}
func (f *fakeInsuredRepo) List(ctx context.Context) ([]*models.InsuredPerson, error) {
	return nil, nil
}
func (f *fakeInsuredRepo) UpdateFields(ctx context.Context, p *models.InsuredPerson) error {
	f.byID[p.ID] = p
	return nil
}

type fakeDeclarationsRepo struct {
	createErr error

	byID       map[int64]*models.Declaration
	addedLines []*models.DeclarationLine

	setStatusErr    error
	lastStatus      models.DeclarationStatus
	lastSubmittedAt *time.Time
}

// Create mirrors the postgres repository: it stamps the id on the entity it
// was handed and returns that same entity, input lines untouched.
func (f *fakeDeclarationsRepo) Create(ctx context.Context, d *models.Declaration) (*models.Declaration, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	d.ID = int64(len(f.byID) + 1)
	if f.byID == nil {
		f.byID = map[int64]*models.Declaration{}
	}
	f.byID[d.ID] = d
	return d, nil
}
func (f *fakeDeclarationsRepo) AddLine(ctx context.Context, l *models.DeclarationLine) (*models.DeclarationLine, error) {
	out := *l
	out.ID = int64(len(f.addedLines) + 1)
	f.addedLines = append(f.addedLines, &out)
	return &out, nil
}
func (f *fakeDeclarationsRepo) GetByID(ctx context.Context, id int64) (*models.Declaration, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *d
	return &out, nil
}
func (f *fakeDeclarationsRepo) ListLines(ctx context.Context, declarationID int64) ([]models.DeclarationLine, error) {
	var out []models.DeclarationLine
	for _, l := range f.addedLines {
		if l.DeclarationID == declarationID {
			out = append(out, *l)
		}
	}
	return out, nil
}
func (f *fakeDeclarationsRepo) List(ctx context.Context) ([]*models.Declaration, error) {
	return nil, nil
}
func (f *fakeDeclarationsRepo) SetStatus(ctx context.Context, id int64, status models.DeclarationStatus, submittedAt *time.Time) error {
	if f.setStatusErr != nil {
		return f.setStatusErr
	}
	f.lastStatus = status
	f.lastSubmittedAt = submittedAt
	d := f.byID[id]
	d.Status = status
	if submittedAt != nil {
		d.SubmittedAt = submittedAt
	}
	return nil
}

type fakePaymentsRepo struct {
	createErr error

	byID       map[int64]*models.Payment
	lastStatus models.PaymentStatus
}

func (f *fakePaymentsRepo) Create(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *p
	out.ID = int64(len(f.byID) + 1)
	if f.byID == nil {
		f.byID = map[int64]*models.Payment{}
	}
	f.byID[out.ID] = &out
	return &out, nil
}
func (f *fakePaymentsRepo) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *p
	return &out, nil
}
func (f *fakePaymentsRepo) List(ctx context.Context) ([]*models.Payment, error) {
	return nil, nil
}
func (f *fakePaymentsRepo) SetStatus(ctx context.Context, id int64, status models.PaymentStatus) error {
	f.lastStatus = status
	f.byID[id].Status = status
	return nil
}
func (f *fakePaymentsRepo) CountByDeclaration(ctx context.Context, declarationID int64) (int64, error) {
	return 0, nil
}

type fakeRecoveryRepo struct {
	unpaid    bool
	unpaidErr error

	byID      map[int64]*models.RecoveryAction
	deletedID int64
}

func (f *fakeRecoveryRepo) Create(ctx context.Context, a *models.RecoveryAction) (*models.RecoveryAction, error) {
	out := *a
	out.ID = int64(len(f.byID) + 1)
	if f.byID == nil {
		f.byID = map[int64]*models.RecoveryAction{}
	}
	f.byID[out.ID] = &out
	return &out, nil
}
func (f *fakeRecoveryRepo) GetByID(ctx context.Context, id int64) (*models.RecoveryAction, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *a
	return &out, nil
}
func (f *fakeRecoveryRepo) List(ctx context.Context, filter models.RecoveryActionFilter) ([]*models.RecoveryAction, error) {
	return nil, nil
}
func (f *fakeRecoveryRepo) Update(ctx context.Context, a *models.RecoveryAction) error {
	f.byID[a.ID] = a
	return nil
}
func (f *fakeRecoveryRepo) Delete(ctx context.Context, id int64) error {
	f.deletedID = id
	delete(f.byID, id)
	return nil
}
func (f *fakeRecoveryRepo) HasUnpaidDeclarations(ctx context.Context, employerID int64) (bool, error) {
	return f.unpaid, f.unpaidErr
}

type fakeReportsRepo struct {
	newEmployers       int64
	newInsured         int64
	validatedEmployers int64
	declaredEmployers  int64
	declaredSum        decimal.Decimal
	collectedSum       decimal.Decimal
	arrears            []*models.ArrearsEntry
}

func (f *fakeReportsRepo) CountNewValidatedEmployers(ctx context.Context, monthStart time.Time) (int64, error) {
	return f.newEmployers, nil
}
func (f *fakeReportsRepo) CountNewInsured(ctx context.Context, monthStart time.Time) (int64, error) {
	return f.newInsured, nil
}
func (f *fakeReportsRepo) CountValidatedEmployers(ctx context.Context) (int64, error) {
	return f.validatedEmployers, nil
}
func (f *fakeReportsRepo) CountEmployersDeclared(ctx context.Context, monthStart time.Time) (int64, error) {
	return f.declaredEmployers, nil
}
func (f *fakeReportsRepo) SumDeclaredContributions(ctx context.Context, monthStart time.Time) (decimal.Decimal, error) {
	return f.declaredSum, nil
}
func (f *fakeReportsRepo) SumCollectedContributions(ctx context.Context, monthStart time.Time) (decimal.Decimal, error) {
	return f.collectedSum, nil
}
func (f *fakeReportsRepo) Arrears(ctx context.Context) ([]*models.ArrearsEntry, error) {
	return f.arrears, nil
}
func (f *fakeReportsRepo) RecentValidatedEmployers(ctx context.Context, limit int) ([]*models.Employer, error) {
	return nil, nil
}
func (f *fakeReportsRepo) RecentConfirmedPayments(ctx context.Context, limit int) ([]*models.Payment, error) {
	return nil, nil
}

// --- fake manager ---

type fakeRepoManager struct {
	users        *fakeUsersRepo
	references   *fakeReferencesRepo
	employers    *fakeEmployersRepo
	insured      *fakeInsuredRepo
	declarations *fakeDeclarationsRepo
	payments     *fakePaymentsRepo
	recovery     *fakeRecoveryRepo
	reports      *fakeReportsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.users }
func (m *fakeRepoManager) References(db dbx.DBTX) referencesrepo.Repository {
	return m.references
}
func (m *fakeRepoManager) Employers(db dbx.DBTX) employersrepo.Repository { return m.employers }
func (m *fakeRepoManager) Insured(db dbx.DBTX) insuredrepo.Repository     { return m.insured }
func (m *fakeRepoManager) Declarations(db dbx.DBTX) declarationsrepo.Repository {
	return m.declarations
}
func (m *fakeRepoManager) Payments(db dbx.DBTX) paymentsrepo.Repository { return m.payments }
func (m *fakeRepoManager) RecoveryActions(db dbx.DBTX) recoveryrepo.Repository {
	return m.recovery
}
func (m *fakeRepoManager) Reports(db dbx.DBTX) reportsrepo.Repository { return m.reports }
