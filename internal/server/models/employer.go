package models

import (
	"fmt"
	"time"
)

// EmployerStatus is the registration state of an employer file.
type EmployerStatus string

const (
	EmployerProspected    EmployerStatus = "prospected"
	EmployerFileSubmitted EmployerStatus = "file_submitted"
	EmployerUnderReview   EmployerStatus = "under_review"
	EmployerValidated     EmployerStatus = "validated"
	EmployerRejected      EmployerStatus = "rejected"
)

// employerTransitions is the explicit transition table: any jump not listed
// here is illegal, e.g. prospected straight to validated.
var employerTransitions = map[EmployerStatus][]EmployerStatus{
	EmployerProspected:    {EmployerFileSubmitted},
	EmployerFileSubmitted: {EmployerUnderReview},
	EmployerUnderReview:   {EmployerValidated, EmployerRejected},
	// Re-entering validated is tolerated; it must not regenerate the
	// registration number.
	EmployerValidated: {EmployerValidated},
	EmployerRejected:  {},
}

// CanTransition reports whether moving from s to next is legal.
func (s EmployerStatus) CanTransition(next EmployerStatus) bool {
	for _, allowed := range employerTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s EmployerStatus) Valid() bool {
	switch s {
	case EmployerProspected, EmployerFileSubmitted, EmployerUnderReview,
		EmployerValidated, EmployerRejected:
		return true
	}
	return false
}

type Employer struct {
	ID                 int64
	RegistrationNumber string // assigned once, on first transition to validated
	LegalName          string
	TaxID              string
	RegistryID         string
	SectorID           int64
	RegionID           int64
	Address            string
	Latitude           *float64
	Longitude          *float64
	ContactName        string
	ContactEmail       string
	ContactPhone       string
	Status             EmployerStatus
	RejectionReason    string
	CreatedAt          time.Time
	ValidatedAt        *time.Time
	CreatedBy          int64
	ValidatedBy        *int64
}

// RegistrationNumber derives the one-time employer number from the validation
// month and the row id: EMP + yyyymm + zero-padded id.
func RegistrationNumber(validatedAt time.Time, id int64) string {
	return fmt.Sprintf("EMP%s%06d", validatedAt.Format("200601"), id)
}

// SupportingDocument is a named blob reference attached to an employer file.
type SupportingDocument struct {
	ID         int64
	EmployerID int64
	Name       string
	StorageKey string
	UploadedAt time.Time
}
