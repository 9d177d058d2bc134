package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysLeft(t *testing.T) {
	now := date(2025, 11, 23)

	assert.Equal(t, 2, DaysLeft(date(2025, 11, 25), now))
	assert.Equal(t, 0, DaysLeft(now, now))
	assert.Equal(t, -1, DaysLeft(date(2025, 11, 22), now))

	// A partial day still counts as a full day left.
	assert.Equal(t, 1, DaysLeft(now.Add(6*time.Hour), now))
}

func TestLotRiskClassification(t *testing.T) {
	now := date(2025, 11, 23)

	tests := []struct {
		name   string
		expiry time.Time
		want   Risk
	}{
		{"expires in 2 days", date(2025, 11, 25), RiskHigh},
		{"expires in 3 days", date(2025, 11, 26), RiskHigh},
		{"expires in 4 days", date(2025, 11, 27), RiskMedium},
		{"expires in 7 days", date(2025, 11, 30), RiskMedium},
		{"expires in 8 days", date(2025, 12, 1), RiskLow},
		{"expires today", now, RiskOverdue},
		{"already past expiry", date(2025, 11, 20), RiskOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lot := Lot{Status: StatusAvailable, ExpiryAt: tt.expiry}
			assert.Equal(t, tt.want, LotRisk(lot, now))
		})
	}
}

func TestLotRiskTerminalStates(t *testing.T) {
	now := date(2025, 11, 23)
	for _, status := range []LotStatus{StatusConsumed, StatusExpired, StatusRemoved} {
		lot := Lot{Status: status, ExpiryAt: date(2025, 11, 24)}
		assert.Equal(t, RiskNotApplicable, LotRisk(lot, now), "status %s", status)
	}
}
