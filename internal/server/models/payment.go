package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMode is the remittance channel.
type PaymentMode string

const (
	PaymentBankTransfer PaymentMode = "bank_transfer"
	PaymentCheck        PaymentMode = "check"
	PaymentMobile       PaymentMode = "mobile"
	PaymentCounter      PaymentMode = "counter"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentBankTransfer, PaymentCheck, PaymentMobile, PaymentCounter:
		return true
	}
	return false
}

// PaymentStatus is the confirmation state. Confirmed and rejected are
// terminal; there is no partial confirmation.
type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "initiated"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentRejected  PaymentStatus = "rejected"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentInitiated: {PaymentConfirmed, PaymentRejected},
	PaymentConfirmed: {},
	PaymentRejected:  {},
}

func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Payment struct {
	ID            int64
	Reference     string // unique, PAY + receipt timestamp to the second
	DeclarationID int64
	Amount        decimal.Decimal
	Mode          PaymentMode
	PaidOn        time.Time
	ReceivedAt    time.Time
	Status        PaymentStatus
	ProofKey      string // blob store key, empty when no proof uploaded
	RecordedBy    int64
}

// PaymentReference derives the reference code from the receipt timestamp.
// Second-level resolution matches the issuing counters; the unique index on
// the column surfaces a conflict if two land in the same second.
func PaymentReference(receivedAt time.Time) string {
	return fmt.Sprintf("PAY%s", receivedAt.Format("20060102150405"))
}
