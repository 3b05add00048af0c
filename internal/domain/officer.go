package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ranks that may manage shifts, rosters and time-off decisions.
var supervisorRanks = []string{"Lieutenant", "Captain", "Chief"}

func IsSupervisorRank(rank string) bool {
	for _, r := range supervisorRanks {
		if rank == r {
			return true
		}
	}
	return false
}

// PTOBalances holds the remaining paid-time-off hours per time-off type.
// Balances are mutated only through clamped signed-delta adjustments and are
// never negative.
type PTOBalances struct {
	Vacation decimal.Decimal `json:"vacation"`
	Holiday  decimal.Decimal `json:"holiday"`
	Sick     decimal.Decimal `json:"sick"`
}

func (b PTOBalances) ForType(t TimeOffType) decimal.Decimal {
	switch t {
	case TimeOffVacation:
		return b.Vacation
	case TimeOffHoliday:
		return b.Holiday
	case TimeOffSick:
		return b.Sick
	}
	return decimal.Zero
}

type Officer struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Badge        string      `json:"badge"`
	Rank         string      `json:"rank"`
	Department   string      `json:"department"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone,omitempty"`
	Avatar       string      `json:"avatar,omitempty"`
	IsSupervisor bool        `json:"isSupervisor"`
	PTOBalances  PTOBalances `json:"ptoBalances"`
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"createdAt"`
}

func (o *Officer) IsAdmin() bool {
	return IsSupervisorRank(o.Rank)
}
