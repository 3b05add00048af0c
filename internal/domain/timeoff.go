package domain

import "time"

type TimeOffType string

const (
	TimeOffVacation TimeOffType = "vacation"
	TimeOffHoliday  TimeOffType = "holiday"
	TimeOffSick     TimeOffType = "sick"
)

type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved"
	TimeOffDenied   TimeOffStatus = "denied"
)

// TimeOffRequest covers a single calendar day, not a time range. ShiftID is
// set when the request was created by converting a scheduled shift.
type TimeOffRequest struct {
	ID          string        `json:"id"`
	OfficerID   string        `json:"officerId"`
	Date        time.Time     `json:"date"` // calendar date; time-of-day is ignored
	Type        TimeOffType   `json:"type"`
	ShiftID     string        `json:"shiftId,omitempty"`
	Status      TimeOffStatus `json:"status"`
	Notes       string        `json:"notes,omitempty"`
	RequestedAt time.Time     `json:"requestedAt"`
	ApprovedBy  string        `json:"approvedBy,omitempty"`
	ApprovedAt  *time.Time    `json:"approvedAt,omitempty"`
}
