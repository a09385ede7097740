package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fmbakop/cotisio/internal/common"
	"github.com/fmbakop/cotisio/internal/server/models"
)

func fixedTime(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2025, 3, 14, 10, 30, 45, 0, time.UTC)
}

func TestEmployerCreate_Success(t *testing.T) {
	rm := &fakeRepoManager{employers: &fakeEmployersRepo{}, references: &fakeReferencesRepo{}}
	s := NewEmployerService(nil, rm, nil)

	created, err := s.Create(context.Background(), models.Actor{ID: 2, Role: models.RoleAgent}, &models.Employer{
		LegalName:  "SARL Mboa",
		TaxID:      "T-100",
		RegistryID: "RC-100",
		SectorID:   1,
		RegionID:   1,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.Status != models.EmployerProspected {
		t.Errorf("expected prospected status, got %s", created.Status)
	}
	if created.CreatedBy != 2 {
		t.Errorf("expected creator 2, got %d", created.CreatedBy)
	}
	if created.RegistrationNumber != "" {
		t.Errorf("registration number must not be assigned at creation")
	}
}

func TestEmployerCreate_UnknownSector(t *testing.T) {
	rm := &fakeRepoManager{
		employers:  &fakeEmployersRepo{},
		references: &fakeReferencesRepo{sectorErr: common.ErrNotFound},
	}
	s := NewEmployerService(nil, rm, nil)

	_, err := s.Create(context.Background(), models.Actor{ID: 2, Role: models.RoleAgent}, &models.Employer{
		LegalName: "SARL Mboa", TaxID: "T-100", RegistryID: "RC-100", SectorID: 99, RegionID: 1,
	})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestEmployerTransition_AgentDenied(t *testing.T) {
	repo := &fakeEmployersRepo{byID: map[int64]*models.Employer{
		1: {ID: 1, Status: models.EmployerUnderReview, CreatedBy: 2},
	}}
	rm := &fakeRepoManager{employers: repo}
	s := NewEmployerService(nil, rm, nil)

	_, err := s.Transition(context.Background(), models.Actor{ID: 5, Role: models.RoleAgent}, 1, models.EmployerValidated, "")
	if !errors.Is(err, common.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestEmployerTransition_CreatorDenied(t *testing.T) {
	repo := &fakeEmployersRepo{byID: map[int64]*models.Employer{
		1: {ID: 1, Status: models.EmployerUnderReview, CreatedBy: 5},
	}}
	rm := &fakeRepoManager{employers: repo}
	s := NewEmployerService(nil, rm, nil)

	// Admins cannot validate files they created themselves.
	_, err := s.Transition(context.Background(), models.Actor{ID: 5, Role: models.RoleAdmin}, 1, models.EmployerValidated, "")
	if !errors.Is(err, common.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestEmployerTransition_IllegalJump(t *testing.T) {
	repo := &fakeEmployersRepo{byID: map[int64]*models.Employer{
		1: {ID: 1, Status: models.EmployerProspected, CreatedBy: 2},
	}}
	rm := &fakeRepoManager{employers: repo}
	s := NewEmployerService(nil, rm, nil)

	_, err := s.Transition(context.Background(), models.Actor{ID: 5, Role: models.RoleAdmin}, 1, models.EmployerValidated, "")
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestEmployerTransition_FirstValidationAssignsNumber(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := &fakeEmployersRepo{byID: map[int64]*models.Employer{
		42: {ID: 42, Status: models.EmployerUnderReview, CreatedBy: 2},
	}}
	rm := &fakeRepoManager{employers: repo}
	s := NewEmployerService(db, rm, nil)
	s.now = func() time.Time { return fixedTime(t) }

	got, err := s.Transition(context.Background(), models.Actor{ID: 5, Role: models.RoleValidationAgent}, 42, models.EmployerValidated, "")
	if err != nil {
		t.Fatalf("Transition error: %v", err)
	}
	if got.RegistrationNumber != "EMP202503000042" {
		t.Errorf("unexpected registration number %q", got.RegistrationNumber)
	}
	if repo.setValidatedCalls != 1 {
		t.Errorf("expected one SetValidated call, got %d", repo.setValidatedCalls)
	}
	if got.ValidatedBy == nil || *got.ValidatedBy != 5 {
		t.Errorf("expected validator 5, got %v", got.ValidatedBy)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestEmployerTransition_RevalidationKeepsNumber(t *testing.T) {
	validatedAt := fixedTime(t)
	repo := &fakeEmployersRepo{byID: map[int64]*models.Employer{
		42: {
			ID:                 42,
			Status:             models.EmployerValidated,
			RegistrationNumber: "EMP202503000042",
			ValidatedAt:        &validatedAt,
			CreatedBy:          2,
		},
	}}
	rm := &fakeRepoManager{employers: repo}
	s := NewEmployerService(nil, rm, nil)
	s.now = func() time.Time { return fixedTime(t).AddDate(0, 2, 0) }

	got, err := s.Transition(context.Background(), models.Actor{ID: 5, Role: models.RoleAdmin}, 42, models.EmployerValidated, "")
	if err != nil {
		t.Fatalf("Transition error: %v", err)
	}
	if got.RegistrationNumber != "EMP202503000042" {
		t.Errorf("registration number changed on revalidation: %q", got.RegistrationNumber)
	}
	if repo.setValidatedCalls != 0 {
		t.Errorf("SetValidated must not run again, got %d calls", repo.setValidatedCalls)
	}
}

func TestEmployerTransition_RejectionStoresReason(t *testing.T) {
	repo := &fakeEmployersRepo{byID: map[int64]*models.Employer{
		1: {ID: 1, Status: models.EmployerUnderReview, CreatedBy: 2},
	}}
	rm := &fakeRepoManager{employers: repo}
	s := NewEmployerService(nil, rm, nil)

	got, err := s.Transition(context.Background(), models.Actor{ID: 5, Role: models.RoleSupervisor}, 1, models.EmployerRejected, "missing registry extract")
	if err != nil {
		t.Fatalf("Transition error: %v", err)
	}
	if got.Status != models.EmployerRejected {
		t.Errorf("expected rejected, got %s", got.Status)
	}
	if got.RejectionReason != "missing registry extract" {
		t.Errorf("unexpected rejection reason %q", got.RejectionReason)
	}
}

func TestEmployerUpdate_PermissionAndReload(t *testing.T) {
	repo := &fakeEmployersRepo{byID: map[int64]*models.Employer{
		1: {ID: 1, Status: models.EmployerProspected, CreatedBy: 2, SectorID: 1, RegionID: 1},
	}}
	rm := &fakeRepoManager{employers: repo, references: &fakeReferencesRepo{}}
	s := NewEmployerService(nil, rm, nil)

	_, err := s.Update(context.Background(), models.Actor{ID: 2, Role: models.RoleAdmin}, &models.Employer{ID: 1, LegalName: "X", SectorID: 1, RegionID: 1})
	if !errors.Is(err, common.ErrPermissionDenied) {
		t.Fatalf("creator update: expected ErrPermissionDenied, got %v", err)
	}

	got, err := s.Update(context.Background(), models.Actor{ID: 9, Role: models.RoleSupervisor}, &models.Employer{ID: 1, LegalName: "New Name", SectorID: 1, RegionID: 1})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.LegalName != "New Name" {
		t.Errorf("expected updated legal name, got %q", got.LegalName)
	}
}
