package roster

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// fakeStore keeps base shift rows and assignment joins separately, the same
// shape the real tables have, and derives officer lists on read.
type fakeStore struct {
	shifts      map[string]domain.Shift
	assignments map[string][]domain.OfficerAssignment
	failOn      map[string]error
	ops         []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		shifts:      make(map[string]domain.Shift),
		assignments: make(map[string][]domain.OfficerAssignment),
		failOn:      make(map[string]error),
	}
}

func (f *fakeStore) fail(op string) error {
	f.ops = append(f.ops, op)
	return f.failOn[op]
}

func (f *fakeStore) GetAllShifts() ([]*domain.Shift, error) {
	if err := f.fail("GetAllShifts"); err != nil {
		return nil, err
	}

	out := make([]*domain.Shift, 0, len(f.shifts))
	for id, base := range f.shifts {
		shift := base
		shift.OfficerIDs = make([]string, 0)
		shift.Assignments = make([]domain.OfficerAssignment, 0)
		for _, a := range f.assignments[id] {
			shift.OfficerIDs = append(shift.OfficerIDs, a.OfficerID)
			shift.Assignments = append(shift.Assignments, a)
		}
		out = append(out, &shift)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (f *fakeStore) InsertShift(s *domain.Shift) error {
	if err := f.fail("InsertShift"); err != nil {
		return err
	}
	f.shifts[s.ID] = *s
	return nil
}

func (f *fakeStore) UpdateShift(id string, patch *domain.ShiftPatch) error {
	if err := f.fail("UpdateShift"); err != nil {
		return err
	}
	shift, ok := f.shifts[id]
	if !ok {
		return errBoom
	}
	if patch.Title != nil {
		shift.Title = *patch.Title
	}
	if patch.Type != nil {
		shift.Type = *patch.Type
	}
	if patch.StartTime != nil {
		shift.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		shift.EndTime = *patch.EndTime
	}
	if patch.Location != nil {
		shift.Location = *patch.Location
	}
	if patch.Notes != nil {
		shift.Notes = *patch.Notes
	}
	if patch.Color != nil {
		shift.Color = *patch.Color
	}
	if patch.Recurrence != nil {
		rule := *patch.Recurrence
		shift.Recurrence = &rule
	}
	f.shifts[id] = shift
	return nil
}

func (f *fakeStore) DeleteShift(id string) error {
	if err := f.fail("DeleteShift"); err != nil {
		return err
	}
	delete(f.assignments, id)
	delete(f.shifts, id)
	return nil
}

func (f *fakeStore) InsertShiftAssignments(shiftID string, assignments []domain.OfficerAssignment, assignedBy string) error {
	if err := f.fail("InsertShiftAssignments"); err != nil {
		return err
	}
	f.assignments[shiftID] = append(f.assignments[shiftID], assignments...)
	return nil
}

func (f *fakeStore) DeleteShiftAssignments(shiftID string) error {
	if err := f.fail("DeleteShiftAssignments"); err != nil {
		return err
	}
	delete(f.assignments, shiftID)
	return nil
}

func (f *fakeStore) DeleteShiftAssignment(shiftID, officerID string) error {
	if err := f.fail("DeleteShiftAssignment"); err != nil {
		return err
	}
	kept := make([]domain.OfficerAssignment, 0)
	for _, a := range f.assignments[shiftID] {
		if a.OfficerID != officerID {
			kept = append(kept, a)
		}
	}
	f.assignments[shiftID] = kept
	return nil
}

var shiftStart = time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

func testShift(id string) *domain.Shift {
	return &domain.Shift{
		ID:        id,
		Title:     "Morning Patrol",
		Type:      domain.ShiftMorning,
		StartTime: shiftStart,
		EndTime:   shiftStart.Add(8 * time.Hour),
	}
}

func TestCreateShiftInsertsBaseAndJoins(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	shift := testShift("s1")
	shift.OfficerIDs = []string{"o1", "o2", "o1"} // duplicate collapses
	shift.Assignments = []domain.OfficerAssignment{{OfficerID: "o1", BeatID: "b1"}}

	require.NoError(t, svc.CreateShift(shift))

	cached, ok := svc.ShiftByID("s1")
	require.True(t, ok)
	assert.Equal(t, []string{"o1", "o2"}, cached.OfficerIDs)
	assert.Equal(t, "b1", cached.AssignmentFor("o1").BeatID)
	// officer without explicit details gets a default entry
	assert.Equal(t, domain.OfficerAssignment{OfficerID: "o2"}, cached.AssignmentFor("o2"))
}

func TestCreateShiftGeneratesID(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	shift := testShift("")
	require.NoError(t, svc.CreateShift(shift))
	assert.NotEmpty(t, shift.ID)
}

func TestCreateShiftValidation(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	tests := []struct {
		name   string
		mutate func(*domain.Shift)
	}{
		{"end not after start", func(s *domain.Shift) { s.EndTime = s.StartTime }},
		{"missing title", func(s *domain.Shift) { s.Title = "" }},
		{"assignment outside officer list", func(s *domain.Shift) {
			s.Assignments = []domain.OfficerAssignment{{OfficerID: "ghost"}}
		}},
		{"zero interval", func(s *domain.Shift) {
			s.Recurrence = &domain.RecurrenceRule{Pattern: domain.RecurrenceDaily}
		}},
		{"bad day of week", func(s *domain.Shift) {
			s.Recurrence = &domain.RecurrenceRule{Pattern: domain.RecurrenceWeekly, Interval: 1, DaysOfWeek: []int{7}}
		}},
		{"bad exception date", func(s *domain.Shift) {
			s.Recurrence = &domain.RecurrenceRule{Pattern: domain.RecurrenceWeekly, Interval: 1, Exceptions: []string{"June 3rd"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shift := testShift("s1")
			tt.mutate(shift)

			err := svc.CreateShift(shift)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, store.shifts)
		})
	}
}

func TestCreateShiftPartialCompletion(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	store.failOn["InsertShiftAssignments"] = errBoom

	shift := testShift("s1")
	shift.OfficerIDs = []string{"o1"}

	err := svc.CreateShift(shift)
	require.ErrorIs(t, err, domain.ErrPartialCompletion)

	// base row landed and is not rolled back; cache still shows the state
	// from before the failed write
	assert.Contains(t, store.shifts, "s1")
	assert.Empty(t, svc.Shifts())
}

func TestUpdateShiftPatchesOnlyProvidedFields(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	require.NoError(t, svc.CreateShift(testShift("s1")))

	title := "Evening Patrol"
	require.NoError(t, svc.UpdateShift("s1", &domain.ShiftPatch{Title: &title}, "sup"))

	cached, ok := svc.ShiftByID("s1")
	require.True(t, ok)
	assert.Equal(t, "Evening Patrol", cached.Title)
	assert.Equal(t, domain.ShiftMorning, cached.Type)
	assert.True(t, cached.StartTime.Equal(shiftStart))
}

func TestUpdateShiftChecksTimesAgainstCachedCounterpart(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	require.NoError(t, svc.CreateShift(testShift("s1")))

	badEnd := shiftStart.Add(-time.Hour)
	err := svc.UpdateShift("s1", &domain.ShiftPatch{EndTime: &badEnd}, "sup")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateShiftReplacesAssignmentsWhenPatched(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	shift := testShift("s1")
	shift.OfficerIDs = []string{"o1", "o2"}
	require.NoError(t, svc.CreateShift(shift))

	assignments := []domain.OfficerAssignment{{OfficerID: "o3", CarID: "c1"}}
	require.NoError(t, svc.UpdateShift("s1", &domain.ShiftPatch{Assignments: &assignments}, "sup"))

	cached, _ := svc.ShiftByID("s1")
	assert.Equal(t, []string{"o3"}, cached.OfficerIDs)
	assert.Equal(t, assignments, cached.Assignments)
}

func TestReplaceAssignmentsRoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	shift := testShift("s1")
	shift.OfficerIDs = []string{"o1", "o2", "o3"}
	require.NoError(t, svc.CreateShift(shift))

	replacement := []domain.OfficerAssignment{
		{OfficerID: "o2", BeatID: "b2", CarID: "c2"},
		{OfficerID: "o4", Notes: "ride along"},
	}
	require.NoError(t, svc.ReplaceAssignments("s1", replacement, "sup"))

	cached, _ := svc.ShiftByID("s1")
	assert.Equal(t, replacement, cached.Assignments)
	// the officer set is recomputed as exactly the officers in the list
	assert.Equal(t, []string{"o2", "o4"}, cached.OfficerIDs)

	// idempotent: replaying the same list settles on the same state
	require.NoError(t, svc.ReplaceAssignments("s1", replacement, "sup"))
	cached, _ = svc.ShiftByID("s1")
	assert.Equal(t, replacement, cached.Assignments)
	assert.Equal(t, []string{"o2", "o4"}, cached.OfficerIDs)
}

func TestReplaceAssignmentsEmptyListClearsShift(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	shift := testShift("s1")
	shift.OfficerIDs = []string{"o1"}
	require.NoError(t, svc.CreateShift(shift))

	require.NoError(t, svc.ReplaceAssignments("s1", nil, "sup"))

	cached, _ := svc.ShiftByID("s1")
	assert.Empty(t, cached.OfficerIDs)
	assert.Empty(t, cached.Assignments)
}

func TestReplaceAssignmentsRejectsDuplicateOfficer(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	require.NoError(t, svc.CreateShift(testShift("s1")))

	err := svc.ReplaceAssignments("s1", []domain.OfficerAssignment{
		{OfficerID: "o1"},
		{OfficerID: "o1", BeatID: "b1"},
	}, "sup")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestReplaceAssignmentsPartialCompletion(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	shift := testShift("s1")
	shift.OfficerIDs = []string{"o1"}
	require.NoError(t, svc.CreateShift(shift))

	store.failOn["InsertShiftAssignments"] = errBoom
	err := svc.ReplaceAssignments("s1", []domain.OfficerAssignment{{OfficerID: "o2"}}, "sup")
	require.ErrorIs(t, err, domain.ErrPartialCompletion)

	// the delete step went through, the insert did not: zero officers in the
	// store until the caller re-derives and retries
	assert.Empty(t, store.assignments["s1"])
	// cache was not refreshed and still shows the pre-write roster
	cached, _ := svc.ShiftByID("s1")
	assert.Equal(t, []string{"o1"}, cached.OfficerIDs)
}

func TestDeleteShiftRemovesShiftAndJoins(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	shift := testShift("s2")
	shift.OfficerIDs = []string{"o1", "o2", "o3"}
	require.NoError(t, svc.CreateShift(shift))

	require.NoError(t, svc.DeleteShift("s2"))

	assert.Empty(t, store.shifts)
	assert.Empty(t, store.assignments["s2"])
	_, ok := svc.ShiftByID("s2")
	assert.False(t, ok)
}

func TestAssignAndRemoveOfficer(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	require.NoError(t, svc.CreateShift(testShift("s1")))

	require.NoError(t, svc.AssignOfficer("s1", "o9", "sup"))
	cached, _ := svc.ShiftByID("s1")
	assert.Equal(t, []string{"o9"}, cached.OfficerIDs)

	require.NoError(t, svc.RemoveOfficer("s1", "o9"))
	cached, _ = svc.ShiftByID("s1")
	assert.Empty(t, cached.OfficerIDs)
}

func TestShiftsOnDate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	require.NoError(t, svc.CreateShift(testShift("s1")))

	recurring := testShift("s2")
	recurring.Title = "Traffic Control"
	recurring.StartTime = shiftStart.Add(time.Hour)
	recurring.EndTime = shiftStart.Add(9 * time.Hour)
	recurring.Recurrence = &domain.RecurrenceRule{
		Pattern:    domain.RecurrenceWeekly,
		Interval:   1,
		DaysOfWeek: []int{1, 3, 5},
	}
	require.NoError(t, svc.CreateShift(recurring))

	// shiftStart is a Monday: both the single shift and the recurring one
	onMonday := svc.ShiftsOnDate(shiftStart)
	require.Len(t, onMonday, 2)
	assert.Equal(t, "s1", onMonday[0].ID)
	assert.Equal(t, "s2", onMonday[1].ID)

	// a week later only the recurring shift remains
	nextMonday := svc.ShiftsOnDate(shiftStart.AddDate(0, 0, 7))
	require.Len(t, nextMonday, 1)
	assert.Equal(t, "s2", nextMonday[0].ID)

	assert.Empty(t, svc.ShiftsOnDate(shiftStart.AddDate(0, 0, 1)))
}

func TestShiftsForOfficer(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	first := testShift("s1")
	first.OfficerIDs = []string{"o1", "o2"}
	require.NoError(t, svc.CreateShift(first))

	second := testShift("s2")
	second.StartTime = shiftStart.AddDate(0, 0, 1)
	second.EndTime = second.StartTime.Add(8 * time.Hour)
	second.OfficerIDs = []string{"o2"}
	require.NoError(t, svc.CreateShift(second))

	assert.Len(t, svc.ShiftsForOfficer("o2"), 2)
	assert.Len(t, svc.ShiftsForOfficer("o1"), 1)
	assert.Empty(t, svc.ShiftsForOfficer("o3"))
}

func TestRefreshFailureKeepsCache(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	require.NoError(t, svc.CreateShift(testShift("s1")))

	store.failOn["GetAllShifts"] = errBoom
	err := svc.Refresh()
	require.ErrorIs(t, err, domain.ErrFetchFailed)

	// stale but intact
	_, ok := svc.ShiftByID("s1")
	assert.True(t, ok)
}
