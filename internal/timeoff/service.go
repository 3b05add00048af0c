// Package timeoff manages the time-off request lifecycle and the per-officer
// PTO hour balances it debits. It reads shift assignments through the roster
// service but never owns them.
package timeoff

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
	"github.com/oakmont-pd/patrol-roster/backend/internal/recurrence"
	"github.com/shopspring/decimal"
)

// ShiftHours is the fixed deduction applied when a shift is converted to
// time off. It is not derived from the shift's actual duration.
var ShiftHours = decimal.NewFromInt(8)

type Store interface {
	GetAllTimeOffRequests(date *time.Time) ([]*domain.TimeOffRequest, error)
	InsertTimeOffRequest(request *domain.TimeOffRequest) error
	UpdateTimeOffStatus(id string, status domain.TimeOffStatus, approvedBy string, approvedAt time.Time) error
	GetPTOBalance(officerID string, typ domain.TimeOffType) (decimal.Decimal, error)
	UpdatePTOBalance(officerID string, typ domain.TimeOffType, balance decimal.Decimal) error
}

// Roster is the slice of the roster service the ledger needs when a shift is
// converted to time off.
type Roster interface {
	RemoveOfficer(shiftID, officerID string) error
}

type Service struct {
	store  Store
	roster Roster

	mu       sync.RWMutex
	requests []*domain.TimeOffRequest
}

func NewService(store Store, roster Roster) *Service {
	return &Service{
		store:    store,
		roster:   roster,
		requests: make([]*domain.TimeOffRequest, 0),
	}
}

// Refresh replaces the cached request list, optionally narrowed to one
// calendar date. On failure the previous cache is kept.
func (s *Service) Refresh(date *time.Time) error {
	requests, err := s.store.GetAllTimeOffRequests(date)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	s.mu.Lock()
	s.requests = requests
	s.mu.Unlock()

	return nil
}

func (s *Service) Requests() []*domain.TimeOffRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.TimeOffRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsOnDate returns the approved requests for one calendar date.
func (s *Service) RequestsOnDate(date time.Time) []*domain.TimeOffRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*domain.TimeOffRequest, 0)
	for _, request := range s.requests {
		if request.Status == domain.TimeOffApproved && recurrence.SameDate(request.Date, date) {
			matches = append(matches, request)
		}
	}
	return matches
}

// RequestsForOfficer returns the officer's requests in every status.
func (s *Service) RequestsForOfficer(officerID string) []*domain.TimeOffRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*domain.TimeOffRequest, 0)
	for _, request := range s.requests {
		if request.OfficerID == officerID {
			matches = append(matches, request)
		}
	}
	return matches
}

// Request files a pending time-off request for one calendar date.
func (s *Service) Request(officerID string, date time.Time, typ domain.TimeOffType, shiftID, notes string) (*domain.TimeOffRequest, error) {
	if err := validateType(typ); err != nil {
		return nil, err
	}

	request := &domain.TimeOffRequest{
		ID:        uuid.NewString(),
		OfficerID: officerID,
		Date:      recurrence.DateOnly(date),
		Type:      typ,
		ShiftID:   shiftID,
		Status:    domain.TimeOffPending,
		Notes:     notes,
	}
	if err := s.store.InsertTimeOffRequest(request); err != nil {
		return nil, fmt.Errorf("%w: insert time off request: %v", domain.ErrWriteFailed, err)
	}

	return request, s.Refresh(nil)
}

// Approve marks a pending request approved. Approving a standalone request
// does not touch the officer's balance; only conversion does.
func (s *Service) Approve(id, approverID string) error {
	return s.decide(id, domain.TimeOffApproved, approverID)
}

// Deny marks a pending request denied.
func (s *Service) Deny(id, approverID string) error {
	return s.decide(id, domain.TimeOffDenied, approverID)
}

func (s *Service) decide(id string, status domain.TimeOffStatus, approverID string) error {
	if err := s.store.UpdateTimeOffStatus(id, status, approverID, time.Now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: request is not pending", domain.ErrValidation)
		}
		return fmt.Errorf("%w: update request status: %v", domain.ErrWriteFailed, err)
	}

	return s.Refresh(nil)
}

// ConvertShiftToTimeOff turns one officer's scheduled shift into approved
// time off. Three steps run in order with no cross-store transaction: insert
// the pre-approved request, drop the officer's assignment join, debit the
// fixed shift deduction. A later step failing does not roll back the earlier
// ones; the caller gets ErrPartialCompletion and should re-fetch.
func (s *Service) ConvertShiftToTimeOff(shiftID, officerID string, typ domain.TimeOffType, date time.Time, notes string) (*domain.TimeOffRequest, error) {
	if err := validateType(typ); err != nil {
		return nil, err
	}

	now := time.Now()
	request := &domain.TimeOffRequest{
		ID:        uuid.NewString(),
		OfficerID: officerID,
		Date:      recurrence.DateOnly(date),
		Type:      typ,
		ShiftID:   shiftID,
		// conversion is itself an approval act, so the request skips review
		Status:     domain.TimeOffApproved,
		Notes:      notes,
		ApprovedAt: &now,
	}
	if err := s.store.InsertTimeOffRequest(request); err != nil {
		return nil, fmt.Errorf("%w: insert time off request: %v", domain.ErrWriteFailed, err)
	}

	if err := s.roster.RemoveOfficer(shiftID, officerID); err != nil {
		return request, fmt.Errorf("%w: time off recorded but officer still on shift: %v", domain.ErrPartialCompletion, err)
	}

	if err := s.AdjustBalance(officerID, typ, ShiftHours.Neg()); err != nil {
		return request, fmt.Errorf("%w: time off recorded but balance not adjusted: %v", domain.ErrPartialCompletion, err)
	}

	return request, s.Refresh(nil)
}

// AdjustBalance applies a signed hour delta to one balance, clamping at zero.
// An over-withdrawal is absorbed silently rather than rejected.
func (s *Service) AdjustBalance(officerID string, typ domain.TimeOffType, deltaHours decimal.Decimal) error {
	if err := validateType(typ); err != nil {
		return err
	}

	current, err := s.store.GetPTOBalance(officerID, typ)
	if err != nil {
		return fmt.Errorf("%w: read balance: %v", domain.ErrFetchFailed, err)
	}

	next := current.Add(deltaHours)
	if next.IsNegative() {
		next = decimal.Zero
	}

	if err := s.store.UpdatePTOBalance(officerID, typ, next); err != nil {
		return fmt.Errorf("%w: write balance: %v", domain.ErrWriteFailed, err)
	}

	return nil
}

func validateType(typ domain.TimeOffType) error {
	switch typ {
	case domain.TimeOffVacation, domain.TimeOffHoliday, domain.TimeOffSick:
		return nil
	default:
		return fmt.Errorf("%w: unknown time off type %q", domain.ErrValidation, typ)
	}
}
