package domain

import (
	"time"
)

type ShiftType string

const (
	ShiftMorning   ShiftType = "morning"
	ShiftAfternoon ShiftType = "afternoon"
	ShiftNight     ShiftType = "night"
	ShiftCustom    ShiftType = "custom"
)

type RecurrencePattern string

const (
	RecurrenceDaily    RecurrencePattern = "daily"
	RecurrenceWeekly   RecurrencePattern = "weekly"
	RecurrenceBiweekly RecurrencePattern = "biweekly"
	RecurrenceMonthly  RecurrencePattern = "monthly"
	RecurrenceCustom   RecurrencePattern = "custom"
)

// RecurrenceRule describes which calendar dates a recurring shift expands onto.
// EndsOn is an inclusive upper bound; nil means the recurrence never ends.
// Exceptions are ISO calendar dates (2006-01-02) that are skipped even when
// the pattern matches.
type RecurrenceRule struct {
	Pattern    RecurrencePattern `json:"pattern"`
	Interval   int               `json:"interval"`
	DaysOfWeek []int             `json:"daysOfWeek,omitempty"` // 0 (Sunday) through 6 (Saturday)
	EndsOn     *time.Time        `json:"endsOn,omitempty"`
	Exceptions []string          `json:"exceptions,omitempty"`
}

type AssignmentStatus string

// Assignment statuses beyond "assigned" are accepted as input but nothing
// transitions them yet; they exist for forward compatibility.
const (
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentRequested AssignmentStatus = "requested"
	AssignmentConfirmed AssignmentStatus = "confirmed"
	AssignmentDeclined  AssignmentStatus = "declined"
)

// OfficerAssignment links one officer on one shift to an optional beat and
// patrol car. Assignments are only ever written as a full replacement for a
// shift, never patched per officer.
type OfficerAssignment struct {
	OfficerID string `json:"officerId"`
	BeatID    string `json:"beatId,omitempty"`
	CarID     string `json:"carId,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Shift is a single occurrence when Recurrence is nil, or the base occurrence
// of a recurring shift otherwise. StartTime/EndTime are the first occurrence's
// bounds; the duration is reused for every expansion.
type Shift struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Type        ShiftType           `json:"type"`
	StartTime   time.Time           `json:"startTime"`
	EndTime     time.Time           `json:"endTime"`
	OfficerIDs  []string            `json:"officerIds"`
	Assignments []OfficerAssignment `json:"assignments"`
	Location    string              `json:"location,omitempty"`
	Notes       string              `json:"notes,omitempty"`
	Color       string              `json:"color,omitempty"`
	Recurrence  *RecurrenceRule     `json:"recurrence,omitempty"`
	CreatedBy   string              `json:"createdBy,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

func (s *Shift) IsRecurring() bool {
	return s.Recurrence != nil
}

func (s *Shift) HasOfficer(officerID string) bool {
	for _, id := range s.OfficerIDs {
		if id == officerID {
			return true
		}
	}
	return false
}

// AssignmentFor returns the officer's assignment entry, or a default entry
// when the officer is on the shift without beat/car details yet.
func (s *Shift) AssignmentFor(officerID string) OfficerAssignment {
	for _, a := range s.Assignments {
		if a.OfficerID == officerID {
			return a
		}
	}
	return OfficerAssignment{OfficerID: officerID}
}

// ShiftPatch carries the fields of an update; nil fields are left untouched.
// A non-nil Recurrence replaces the whole recurrence block, and non-nil
// Assignments replace the whole assignment set for the shift.
type ShiftPatch struct {
	Title       *string              `json:"title"`
	Type        *ShiftType           `json:"type"`
	StartTime   *time.Time           `json:"startTime"`
	EndTime     *time.Time           `json:"endTime"`
	Location    *string              `json:"location"`
	Notes       *string              `json:"notes"`
	Color       *string              `json:"color"`
	Recurrence  *RecurrenceRule      `json:"recurrence"`
	Assignments *[]OfficerAssignment `json:"assignments"`
}
