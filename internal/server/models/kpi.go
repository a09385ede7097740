package models

import "github.com/shopspring/decimal"

// KPIReport is the flat aggregate structure consumed by the dashboard.
// All values are recomputed on every call; nothing here is cached.
type KPIReport struct {
	NewEmployers          int64
	NewInsured            int64
	ComplianceRatePercent float64
	CollectionRatePercent float64
	CollectedAmount       decimal.Decimal
}

// ArrearsEntry annotates a validated employer having at least one declaration
// with zero payments with the sum of those declarations' totals.
type ArrearsEntry struct {
	Employer  Employer
	AmountDue decimal.Decimal
}
