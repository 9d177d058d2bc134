package domain

import (
	"math"
	"time"
)

// Risk classifies how soon an Available lot will expire. It drives UI
// warnings only and never feeds back into lifecycle state.
type Risk string

const (
	// RiskNotApplicable is reported for lots already in a terminal state.
	RiskNotApplicable Risk = "NotApplicable"
	// RiskOverdue means the lot is past its expiry date but has not been
	// picked up by the sweep yet.
	RiskOverdue Risk = "Overdue"
	RiskHigh    Risk = "High"
	RiskMedium  Risk = "Medium"
	RiskLow     Risk = "Low"
)

// DaysLeft returns the number of whole or partial days until expiry,
// rounded up. A lot expiring later today counts as 1; an already-expired
// lot yields zero or a negative number.
func DaysLeft(expiryAt, now time.Time) int {
	return int(math.Ceil(expiryAt.Sub(now).Hours() / 24))
}

// LotRisk classifies the expiry risk of a lot at the given instant.
func LotRisk(lot Lot, now time.Time) Risk {
	if lot.Status != StatusAvailable {
		return RiskNotApplicable
	}
	switch d := DaysLeft(lot.ExpiryAt, now); {
	case d <= 0:
		return RiskOverdue
	case d <= 3:
		return RiskHigh
	case d <= 7:
		return RiskMedium
	default:
		return RiskLow
	}
}
