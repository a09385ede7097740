package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeclarationStatus is the state of a monthly contribution declaration.
type DeclarationStatus string

const (
	DeclarationDraft     DeclarationStatus = "draft"
	DeclarationSubmitted DeclarationStatus = "submitted"
	DeclarationValidated DeclarationStatus = "validated"
	DeclarationRejected  DeclarationStatus = "rejected"
)

// declarationTransitions: submit from draft only; validate/reject from
// submitted only; validated and rejected are terminal.
var declarationTransitions = map[DeclarationStatus][]DeclarationStatus{
	DeclarationDraft:     {DeclarationSubmitted},
	DeclarationSubmitted: {DeclarationValidated, DeclarationRejected},
	DeclarationValidated: {},
	DeclarationRejected:  {},
}

func (s DeclarationStatus) CanTransition(next DeclarationStatus) bool {
	for _, allowed := range declarationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Declaration is an employer's statement of contributions owed for one
// calendar month. The (EmployerID, Period) pair is unique.
type Declaration struct {
	ID          int64
	EmployerID  int64
	Period      time.Time // first day of the declared month
	SubmittedAt *time.Time
	Total       decimal.Decimal
	Status      DeclarationStatus
	CreatedBy   int64
	CreatedAt   time.Time

	Lines []DeclarationLine
}

// SumLines returns the sum of employee-side and employer-side contributions
// across all lines. The stored Total is not forced to reconcile with it.
func (d *Declaration) SumLines() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range d.Lines {
		sum = sum.Add(l.EmployeeShare).Add(l.EmployerShare)
	}
	return sum
}

// DeclarationLine ties one insured person to a declared salary and the
// resulting contribution amounts. All amounts are non-negative.
type DeclarationLine struct {
	ID            int64
	DeclarationID int64
	InsuredID     int64
	Salary        decimal.Decimal
	EmployeeShare decimal.Decimal
	EmployerShare decimal.Decimal
}

// MonthStart normalizes t to the first day of its calendar month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
