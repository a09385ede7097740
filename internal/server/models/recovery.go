package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecoveryActionType is the kind of follow-up step taken against an employer
// with unpaid declarations.
type RecoveryActionType string

const (
	RecoveryReminderLetter RecoveryActionType = "reminder_letter"
	RecoveryPhoneCall      RecoveryActionType = "phone_call"
	RecoveryFieldVisit     RecoveryActionType = "field_visit"
	RecoveryFormalNotice   RecoveryActionType = "formal_notice"
	RecoveryLegalAction    RecoveryActionType = "legal_action"
)

func (t RecoveryActionType) Valid() bool {
	switch t {
	case RecoveryReminderLetter, RecoveryPhoneCall, RecoveryFieldVisit,
		RecoveryFormalNotice, RecoveryLegalAction:
		return true
	}
	return false
}

// RecoveryActionStatus is a free-form progress marker; updates are not
// guarded by a transition table.
type RecoveryActionStatus string

const (
	RecoveryPlanned    RecoveryActionStatus = "planned"
	RecoveryInProgress RecoveryActionStatus = "in_progress"
	RecoveryCompleted  RecoveryActionStatus = "completed"
	RecoveryCancelled  RecoveryActionStatus = "cancelled"
)

func (s RecoveryActionStatus) Valid() bool {
	switch s {
	case RecoveryPlanned, RecoveryInProgress, RecoveryCompleted, RecoveryCancelled:
		return true
	}
	return false
}

type RecoveryAction struct {
	ID              int64
	EmployerID      int64
	Type            RecoveryActionType
	PlannedAt       time.Time
	AssignedAgent   int64
	Status          RecoveryActionStatus
	ExecutedAt      *time.Time
	RecoveredAmount decimal.Decimal
	Observations    string
	CreatedBy       int64
	CreatedAt       time.Time
}

// RecoveryActionFilter narrows listings; zero values mean "no filter".
// Both filters are exact matches combined with AND semantics.
type RecoveryActionFilter struct {
	Status RecoveryActionStatus
	Type   RecoveryActionType
}
