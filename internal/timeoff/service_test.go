package timeoff

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type fakeStore struct {
	requests []*domain.TimeOffRequest
	balances map[string]map[domain.TimeOffType]decimal.Decimal
	failOn   map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		balances: make(map[string]map[domain.TimeOffType]decimal.Decimal),
		failOn:   make(map[string]error),
	}
}

func (f *fakeStore) setBalance(officerID string, typ domain.TimeOffType, hours int64) {
	if f.balances[officerID] == nil {
		f.balances[officerID] = make(map[domain.TimeOffType]decimal.Decimal)
	}
	f.balances[officerID][typ] = decimal.NewFromInt(hours)
}

func (f *fakeStore) GetAllTimeOffRequests(date *time.Time) ([]*domain.TimeOffRequest, error) {
	if err := f.failOn["GetAllTimeOffRequests"]; err != nil {
		return nil, err
	}

	out := make([]*domain.TimeOffRequest, 0)
	for _, request := range f.requests {
		if date != nil && !request.Date.Equal(*date) {
			continue
		}
		copied := *request
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeStore) InsertTimeOffRequest(request *domain.TimeOffRequest) error {
	if err := f.failOn["InsertTimeOffRequest"]; err != nil {
		return err
	}
	copied := *request
	copied.RequestedAt = time.Now()
	f.requests = append(f.requests, &copied)
	return nil
}

func (f *fakeStore) UpdateTimeOffStatus(id string, status domain.TimeOffStatus, approvedBy string, approvedAt time.Time) error {
	if err := f.failOn["UpdateTimeOffStatus"]; err != nil {
		return err
	}
	for _, request := range f.requests {
		if request.ID == id && request.Status == domain.TimeOffPending {
			request.Status = status
			request.ApprovedBy = approvedBy
			request.ApprovedAt = &approvedAt
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeStore) GetPTOBalance(officerID string, typ domain.TimeOffType) (decimal.Decimal, error) {
	if err := f.failOn["GetPTOBalance"]; err != nil {
		return decimal.Zero, err
	}
	return f.balances[officerID][typ], nil
}

func (f *fakeStore) UpdatePTOBalance(officerID string, typ domain.TimeOffType, balance decimal.Decimal) error {
	if err := f.failOn["UpdatePTOBalance"]; err != nil {
		return err
	}
	if f.balances[officerID] == nil {
		f.balances[officerID] = make(map[domain.TimeOffType]decimal.Decimal)
	}
	f.balances[officerID][typ] = balance
	return nil
}

type fakeRoster struct {
	removed [][2]string
	err     error
}

func (f *fakeRoster) RemoveOfficer(shiftID, officerID string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, [2]string{shiftID, officerID})
	return nil
}

var june3 = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func TestRequestFilesPending(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeRoster{})

	request, err := svc.Request("o1", june3.Add(14*time.Hour), domain.TimeOffVacation, "", "dentist")
	require.NoError(t, err)

	assert.NotEmpty(t, request.ID)
	assert.Equal(t, domain.TimeOffPending, request.Status)
	// the date is normalized to midnight regardless of the time of day passed in
	assert.True(t, request.Date.Equal(june3))
	assert.Nil(t, request.ApprovedAt)

	cached := svc.RequestsForOfficer("o1")
	require.Len(t, cached, 1)
	assert.Equal(t, request.ID, cached[0].ID)
}

func TestRequestRejectsUnknownType(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeRoster{})

	_, err := svc.Request("o1", june3, domain.TimeOffType("sabbatical"), "", "")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, store.requests)
}

func TestApproveTransitionsOnce(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeRoster{})

	request, err := svc.Request("o1", june3, domain.TimeOffSick, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Approve(request.ID, "sup"))

	decided := svc.RequestsForOfficer("o1")[0]
	assert.Equal(t, domain.TimeOffApproved, decided.Status)
	assert.Equal(t, "sup", decided.ApprovedBy)
	require.NotNil(t, decided.ApprovedAt)

	// a second decision on the same request is refused
	err = svc.Approve(request.ID, "sup2")
	require.ErrorIs(t, err, domain.ErrValidation)
	err = svc.Deny(request.ID, "sup2")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "sup", svc.RequestsForOfficer("o1")[0].ApprovedBy)
}

func TestApproveDoesNotTouchBalance(t *testing.T) {
	store := newFakeStore()
	store.setBalance("o1", domain.TimeOffVacation, 40)
	svc := NewService(store, &fakeRoster{})

	request, err := svc.Request("o1", june3, domain.TimeOffVacation, "", "")
	require.NoError(t, err)
	require.NoError(t, svc.Approve(request.ID, "sup"))

	assert.True(t, store.balances["o1"][domain.TimeOffVacation].Equal(decimal.NewFromInt(40)))
}

func TestDenyRecordsDecision(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeRoster{})

	request, err := svc.Request("o1", june3, domain.TimeOffHoliday, "", "")
	require.NoError(t, err)
	require.NoError(t, svc.Deny(request.ID, "sup"))

	decided := svc.RequestsForOfficer("o1")[0]
	assert.Equal(t, domain.TimeOffDenied, decided.Status)
	assert.Equal(t, "sup", decided.ApprovedBy)
}

func TestAdjustBalance(t *testing.T) {
	store := newFakeStore()
	store.setBalance("o1", domain.TimeOffSick, 10)
	svc := NewService(store, &fakeRoster{})

	require.NoError(t, svc.AdjustBalance("o1", domain.TimeOffSick, decimal.NewFromInt(4)))
	assert.True(t, store.balances["o1"][domain.TimeOffSick].Equal(decimal.NewFromInt(14)))

	require.NoError(t, svc.AdjustBalance("o1", domain.TimeOffSick, decimal.NewFromInt(-6)))
	assert.True(t, store.balances["o1"][domain.TimeOffSick].Equal(decimal.NewFromInt(8)))
}

func TestAdjustBalanceClampsAtZero(t *testing.T) {
	store := newFakeStore()
	store.setBalance("o1", domain.TimeOffSick, 5)
	svc := NewService(store, &fakeRoster{})

	// withdrawing more than the officer has settles at zero, not negative
	require.NoError(t, svc.AdjustBalance("o1", domain.TimeOffSick, ShiftHours.Neg()))
	assert.True(t, store.balances["o1"][domain.TimeOffSick].IsZero())
}

func TestConvertShiftToTimeOff(t *testing.T) {
	store := newFakeStore()
	store.setBalance("o1", domain.TimeOffVacation, 10)
	roster := &fakeRoster{}
	svc := NewService(store, roster)

	request, err := svc.ConvertShiftToTimeOff("s1", "o1", domain.TimeOffVacation, june3, "court date")
	require.NoError(t, err)

	// the conversion produces an already-approved request tied to the shift
	assert.Equal(t, domain.TimeOffApproved, request.Status)
	assert.Equal(t, "s1", request.ShiftID)
	require.NotNil(t, request.ApprovedAt)

	// the officer came off the shift and paid the fixed deduction
	assert.Equal(t, [][2]string{{"s1", "o1"}}, roster.removed)
	assert.True(t, store.balances["o1"][domain.TimeOffVacation].Equal(decimal.NewFromInt(2)))

	cached := svc.RequestsOnDate(june3)
	require.Len(t, cached, 1)
	assert.Equal(t, request.ID, cached[0].ID)
}

func TestConvertPartialCompletionOnRemovalFailure(t *testing.T) {
	store := newFakeStore()
	store.setBalance("o1", domain.TimeOffVacation, 10)
	roster := &fakeRoster{err: errBoom}
	svc := NewService(store, roster)

	request, err := svc.ConvertShiftToTimeOff("s1", "o1", domain.TimeOffVacation, june3, "")
	require.ErrorIs(t, err, domain.ErrPartialCompletion)

	// the request was recorded before the failure and stays recorded
	require.NotNil(t, request)
	require.Len(t, store.requests, 1)
	// the later steps never ran
	assert.True(t, store.balances["o1"][domain.TimeOffVacation].Equal(decimal.NewFromInt(10)))
}

func TestConvertPartialCompletionOnBalanceFailure(t *testing.T) {
	store := newFakeStore()
	store.failOn["GetPTOBalance"] = errBoom
	roster := &fakeRoster{}
	svc := NewService(store, roster)

	_, err := svc.ConvertShiftToTimeOff("s1", "o1", domain.TimeOffVacation, june3, "")
	require.ErrorIs(t, err, domain.ErrPartialCompletion)

	// request insert and officer removal both happened already
	require.Len(t, store.requests, 1)
	assert.Len(t, roster.removed, 1)
}

func TestRequestsOnDateReturnsApprovedOnly(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeRoster{})

	approved, err := svc.Request("o1", june3, domain.TimeOffVacation, "", "")
	require.NoError(t, err)
	require.NoError(t, svc.Approve(approved.ID, "sup"))

	denied, err := svc.Request("o2", june3, domain.TimeOffSick, "", "")
	require.NoError(t, err)
	require.NoError(t, svc.Deny(denied.ID, "sup"))

	_, err = svc.Request("o3", june3, domain.TimeOffHoliday, "", "")
	require.NoError(t, err)

	_, err = svc.Request("o4", june3.AddDate(0, 0, 1), domain.TimeOffVacation, "", "")
	require.NoError(t, err)

	matches := svc.RequestsOnDate(june3)
	require.Len(t, matches, 1)
	assert.Equal(t, approved.ID, matches[0].ID)
}

func TestRefreshWithDateFilter(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeRoster{})

	_, err := svc.Request("o1", june3, domain.TimeOffVacation, "", "")
	require.NoError(t, err)
	_, err = svc.Request("o2", june3.AddDate(0, 0, 1), domain.TimeOffVacation, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Refresh(&june3))
	require.Len(t, svc.Requests(), 1)
	assert.Equal(t, "o1", svc.Requests()[0].OfficerID)

	require.NoError(t, svc.Refresh(nil))
	assert.Len(t, svc.Requests(), 2)
}

func TestRefreshFailureKeepsCache(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeRoster{})

	_, err := svc.Request("o1", june3, domain.TimeOffVacation, "", "")
	require.NoError(t, err)

	store.failOn["GetAllTimeOffRequests"] = errBoom
	err = svc.Refresh(nil)
	require.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Len(t, svc.Requests(), 1)
}
