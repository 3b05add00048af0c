// Package roster owns the canonical shift collection and the per-shift
// officer assignment joins. Mutations go to the store and then converge the
// in-memory cache by reloading the full collection; a failed write leaves the
// cache at its last successfully fetched contents.
package roster

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
	"github.com/oakmont-pd/patrol-roster/backend/internal/recurrence"
)

// Store is the row-level access the service needs; implemented by
// repository.Repository against postgres and by fakes in tests.
type Store interface {
	GetAllShifts() ([]*domain.Shift, error)
	InsertShift(s *domain.Shift) error
	UpdateShift(id string, patch *domain.ShiftPatch) error
	DeleteShift(id string) error
	InsertShiftAssignments(shiftID string, assignments []domain.OfficerAssignment, assignedBy string) error
	DeleteShiftAssignments(shiftID string) error
	DeleteShiftAssignment(shiftID, officerID string) error
}

type Service struct {
	store Store

	mu     sync.RWMutex
	shifts []*domain.Shift
}

func NewService(store Store) *Service {
	return &Service{
		store:  store,
		shifts: make([]*domain.Shift, 0),
	}
}

// Refresh replaces the cache wholesale with the store's current contents.
// On failure the previous cache is kept.
func (s *Service) Refresh() error {
	shifts, err := s.store.GetAllShifts()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	s.mu.Lock()
	s.shifts = shifts
	s.mu.Unlock()

	return nil
}

func (s *Service) Shifts() []*domain.Shift {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Shift, len(s.shifts))
	copy(out, s.shifts)
	return out
}

func (s *Service) ShiftByID(id string) (*domain.Shift, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, shift := range s.shifts {
		if shift.ID == id {
			return shift, true
		}
	}
	return nil, false
}

// ShiftsOnDate expands the cached collection onto one calendar date. Plain
// O(n) scan; the collection is at most a few hundred shifts.
func (s *Service) ShiftsOnDate(date time.Time) []*domain.Shift {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*domain.Shift, 0)
	for _, shift := range s.shifts {
		if recurrence.OccursOn(shift, date) {
			matches = append(matches, shift)
		}
	}
	return matches
}

func (s *Service) ShiftsForOfficer(officerID string) []*domain.Shift {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]*domain.Shift, 0)
	for _, shift := range s.shifts {
		if shift.HasOfficer(officerID) {
			matches = append(matches, shift)
		}
	}
	return matches
}

// CreateShift inserts the base row, then one assignment join per officer.
// If the joins fail after the base row landed the base row is not rolled
// back; the caller gets ErrPartialCompletion and should re-fetch.
func (s *Service) CreateShift(shift *domain.Shift) error {
	if shift.ID == "" {
		shift.ID = uuid.NewString()
	}
	shift.OfficerIDs = dedupe(shift.OfficerIDs)

	if err := validateShift(shift); err != nil {
		return err
	}

	if err := s.store.InsertShift(shift); err != nil {
		return fmt.Errorf("%w: insert shift: %v", domain.ErrWriteFailed, err)
	}

	if len(shift.OfficerIDs) > 0 {
		assignments := make([]domain.OfficerAssignment, 0, len(shift.OfficerIDs))
		for _, officerID := range shift.OfficerIDs {
			assignments = append(assignments, shift.AssignmentFor(officerID))
		}
		if err := s.store.InsertShiftAssignments(shift.ID, assignments, shift.CreatedBy); err != nil {
			return fmt.Errorf("%w: shift created but assignments not written: %v", domain.ErrPartialCompletion, err)
		}
	}

	return s.Refresh()
}

// UpdateShift patches the provided fields only. When the patch carries an
// assignment list it replaces the whole join set for the shift.
func (s *Service) UpdateShift(id string, patch *domain.ShiftPatch, updatedBy string) error {
	if err := s.validatePatch(id, patch); err != nil {
		return err
	}

	if err := s.store.UpdateShift(id, patch); err != nil {
		return fmt.Errorf("%w: update shift: %v", domain.ErrWriteFailed, err)
	}

	if patch.Assignments != nil {
		if err := s.replaceAssignments(id, *patch.Assignments, updatedBy); err != nil {
			return err
		}
	}

	return s.Refresh()
}

// DeleteShift removes the shift and its assignment joins, joins first.
func (s *Service) DeleteShift(id string) error {
	if err := s.store.DeleteShift(id); err != nil {
		return fmt.Errorf("%w: delete shift: %v", domain.ErrWriteFailed, err)
	}

	return s.Refresh()
}

// ReplaceAssignments swaps in a complete assignment list for one shift:
// delete everything, then bulk-insert the new rows. Idempotent. The two steps
// are not atomic together; a failure after the delete surfaces as
// ErrPartialCompletion and leaves the shift with no assigned officers until
// retried. After reconciliation the shift's officer set is exactly the
// officers present in the list.
func (s *Service) ReplaceAssignments(shiftID string, assignments []domain.OfficerAssignment, assignedBy string) error {
	if err := s.replaceAssignments(shiftID, assignments, assignedBy); err != nil {
		return err
	}

	return s.Refresh()
}

func (s *Service) replaceAssignments(shiftID string, assignments []domain.OfficerAssignment, assignedBy string) error {
	seen := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		if a.OfficerID == "" {
			return fmt.Errorf("%w: assignment without officer id", domain.ErrValidation)
		}
		if seen[a.OfficerID] {
			return fmt.Errorf("%w: officer %s assigned twice", domain.ErrValidation, a.OfficerID)
		}
		seen[a.OfficerID] = true
	}

	if err := s.store.DeleteShiftAssignments(shiftID); err != nil {
		return fmt.Errorf("%w: clear assignments: %v", domain.ErrWriteFailed, err)
	}

	if len(assignments) > 0 {
		if err := s.store.InsertShiftAssignments(shiftID, assignments, assignedBy); err != nil {
			return fmt.Errorf("%w: assignments cleared but not rewritten: %v", domain.ErrPartialCompletion, err)
		}
	}

	return nil
}

// AssignOfficer adds a single officer to a shift with default assignment
// details; beat and car are filled in later through ReplaceAssignments.
func (s *Service) AssignOfficer(shiftID, officerID, assignedBy string) error {
	assignment := []domain.OfficerAssignment{{OfficerID: officerID}}
	if err := s.store.InsertShiftAssignments(shiftID, assignment, assignedBy); err != nil {
		return fmt.Errorf("%w: assign officer: %v", domain.ErrWriteFailed, err)
	}

	return s.Refresh()
}

// RemoveOfficer drops one officer's assignment join from a shift.
func (s *Service) RemoveOfficer(shiftID, officerID string) error {
	if err := s.store.DeleteShiftAssignment(shiftID, officerID); err != nil {
		return fmt.Errorf("%w: remove officer: %v", domain.ErrWriteFailed, err)
	}

	return s.Refresh()
}

func (s *Service) validatePatch(id string, patch *domain.ShiftPatch) error {
	// fill unpatched time bounds from the cached shift so a lone start or end
	// change is still checked against its counterpart
	start, end := patch.StartTime, patch.EndTime
	if cached, ok := s.ShiftByID(id); ok {
		if start == nil {
			start = &cached.StartTime
		}
		if end == nil {
			end = &cached.EndTime
		}
	}
	if start != nil && end != nil {
		if err := validateTimes(*start, *end); err != nil {
			return err
		}
	}

	if patch.Recurrence != nil {
		if err := validateRecurrence(patch.Recurrence); err != nil {
			return err
		}
	}

	return nil
}

func validateShift(shift *domain.Shift) error {
	if shift.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if err := validateTimes(shift.StartTime, shift.EndTime); err != nil {
		return err
	}

	for _, a := range shift.Assignments {
		if !shift.HasOfficer(a.OfficerID) {
			return fmt.Errorf("%w: assignment for officer %s not in the shift's officer list", domain.ErrValidation, a.OfficerID)
		}
	}

	if shift.Recurrence != nil {
		return validateRecurrence(shift.Recurrence)
	}
	return nil
}

func validateTimes(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("%w: end time must be after start time", domain.ErrValidation)
	}
	return nil
}

func validateRecurrence(rule *domain.RecurrenceRule) error {
	switch rule.Pattern {
	case domain.RecurrenceDaily, domain.RecurrenceWeekly, domain.RecurrenceBiweekly,
		domain.RecurrenceMonthly, domain.RecurrenceCustom:
	default:
		return fmt.Errorf("%w: unknown recurrence pattern %q", domain.ErrValidation, rule.Pattern)
	}

	if rule.Interval < 1 {
		return fmt.Errorf("%w: recurrence interval must be positive", domain.ErrValidation)
	}

	for _, day := range rule.DaysOfWeek {
		if day < 0 || day > 6 {
			return fmt.Errorf("%w: day of week %d out of range", domain.ErrValidation, day)
		}
	}

	for _, exception := range rule.Exceptions {
		if _, err := time.Parse("2006-01-02", exception); err != nil {
			return fmt.Errorf("%w: exception %q is not a calendar date", domain.ErrValidation, exception)
		}
	}

	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
