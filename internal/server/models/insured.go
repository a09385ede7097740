package models

import (
	"fmt"
	"time"
)

// InsuredKind distinguishes how a person is covered by the scheme.
type InsuredKind string

const (
	InsuredSalaried     InsuredKind = "salaried"
	InsuredSelfEmployed InsuredKind = "self_employed"
	InsuredVoluntary    InsuredKind = "voluntary"
)

func (k InsuredKind) Valid() bool {
	switch k {
	case InsuredSalaried, InsuredSelfEmployed, InsuredVoluntary:
		return true
	}
	return false
}

type InsuredPerson struct {
	ID                int64
	AffiliationNumber string // assigned once, at first save
	LastName          string
	FirstName         string
	BirthDate         time.Time
	BirthPlace        string
	NationalID        string
	Address           string
	Phone             string
	Email             string
	Kind              InsuredKind
	EmployerID        *int64 // required for salaried by business convention
	AffiliatedAt      time.Time
	IsActive          bool
}

// AffiliationNumber derives the one-time insured number from the affiliation
// month and the row id: ASS + yyyymm + zero-padded id.
func AffiliationNumber(affiliatedAt time.Time, id int64) string {
	return fmt.Sprintf("ASS%s%06d", affiliatedAt.Format("200601"), id)
}
