package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftIsRecurring(t *testing.T) {
	shift := &Shift{}
	assert.False(t, shift.IsRecurring())

	shift.Recurrence = &RecurrenceRule{Pattern: RecurrenceWeekly, Interval: 1}
	assert.True(t, shift.IsRecurring())
}

func TestShiftAssignmentFor(t *testing.T) {
	shift := &Shift{
		OfficerIDs: []string{"o1", "o2"},
		Assignments: []OfficerAssignment{
			{OfficerID: "o1", BeatID: "b1"},
		},
	}

	assert.True(t, shift.HasOfficer("o1"))
	assert.False(t, shift.HasOfficer("o3"))

	assert.Equal(t, "b1", shift.AssignmentFor("o1").BeatID)
	// an officer without stored details gets a default entry
	assert.Equal(t, OfficerAssignment{OfficerID: "o2"}, shift.AssignmentFor("o2"))
}
