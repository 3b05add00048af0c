package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOfficerIsAdmin(t *testing.T) {
	tests := []struct {
		rank  string
		admin bool
	}{
		{"Chief", true},
		{"Captain", true},
		{"Lieutenant", true},
		{"Sergeant", false},
		{"Officer", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.rank, func(t *testing.T) {
			officer := &Officer{Rank: tt.rank}
			assert.Equal(t, tt.admin, officer.IsAdmin())
			assert.Equal(t, tt.admin, IsSupervisorRank(tt.rank))
		})
	}
}

func TestPTOBalancesForType(t *testing.T) {
	balances := PTOBalances{
		Vacation: decimal.NewFromInt(80),
		Holiday:  decimal.NewFromInt(24),
		Sick:     decimal.NewFromInt(40),
	}

	assert.True(t, balances.ForType(TimeOffVacation).Equal(decimal.NewFromInt(80)))
	assert.True(t, balances.ForType(TimeOffHoliday).Equal(decimal.NewFromInt(24)))
	assert.True(t, balances.ForType(TimeOffSick).Equal(decimal.NewFromInt(40)))
	// unknown types read as an empty balance rather than panicking
	assert.True(t, balances.ForType(TimeOffType("sabbatical")).IsZero())
}
