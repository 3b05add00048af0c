package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
)

func (h *Handler) GetShifts(w http.ResponseWriter, r *http.Request) {
	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		h.successResponse(w, r, "shifts fetched", h.roster.Shifts())
		return
	}

	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		h.errorResponse(w, r, "date must be formatted YYYY-MM-DD")
		return
	}

	h.successResponse(w, r, "shifts fetched", h.roster.ShiftsOnDate(date))
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)
	h.successResponse(w, r, "shift fetched", shift)
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string                     `json:"title" validate:"required"`
		Type        string                     `json:"type" validate:"required,oneof=morning afternoon night custom"`
		StartTime   time.Time                  `json:"startTime" validate:"required"`
		EndTime     time.Time                  `json:"endTime" validate:"required"`
		OfficerIDs  []string                   `json:"officerIds"`
		Assignments []domain.OfficerAssignment `json:"assignments"`
		Location    string                     `json:"location"`
		Notes       string                     `json:"notes"`
		Color       string                     `json:"color"`
		Recurrence  *domain.RecurrenceRule     `json:"recurrence"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := &domain.Shift{
		Title:       req.Title,
		Type:        domain.ShiftType(req.Type),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		OfficerIDs:  req.OfficerIDs,
		Assignments: req.Assignments,
		Location:    req.Location,
		Notes:       req.Notes,
		Color:       req.Color,
		Recurrence:  req.Recurrence,
		CreatedBy:   r.Context().Value(SubCtxKey).(string),
	}

	if err := h.roster.CreateShift(shift); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift created", shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		Title       *string                     `json:"title"`
		Type        *string                     `json:"type" validate:"omitempty,oneof=morning afternoon night custom"`
		StartTime   *time.Time                  `json:"startTime"`
		EndTime     *time.Time                  `json:"endTime"`
		Assignments *[]domain.OfficerAssignment `json:"assignments"`
		Location    *string                     `json:"location"`
		Notes       *string                     `json:"notes"`
		Color       *string                     `json:"color"`
		Recurrence  *domain.RecurrenceRule      `json:"recurrence"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	patch := &domain.ShiftPatch{
		Title:       req.Title,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Assignments: req.Assignments,
		Location:    req.Location,
		Notes:       req.Notes,
		Color:       req.Color,
		Recurrence:  req.Recurrence,
	}
	if req.Type != nil {
		typ := domain.ShiftType(*req.Type)
		patch.Type = &typ
	}

	updatedBy := r.Context().Value(SubCtxKey).(string)
	if err := h.roster.UpdateShift(shift.ID, patch, updatedBy); err != nil {
		h.serviceError(w, r, err)
		return
	}

	updated, _ := h.roster.ShiftByID(shift.ID)
	h.successResponse(w, r, "shift updated", updated)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	if err := h.roster.DeleteShift(shift.ID); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift deleted", nil)
}

func (h *Handler) ReplaceShiftAssignments(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		Assignments []domain.OfficerAssignment `json:"assignments"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	assignedBy := r.Context().Value(SubCtxKey).(string)
	if err := h.roster.ReplaceAssignments(shift.ID, req.Assignments, assignedBy); err != nil {
		h.serviceError(w, r, err)
		return
	}

	updated, _ := h.roster.ShiftByID(shift.ID)
	h.successResponse(w, r, "assignments replaced", updated)
}

func (h *Handler) AddShiftOfficer(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		OfficerID string `json:"officerId" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if shift.HasOfficer(req.OfficerID) {
		h.errorResponse(w, r, "officer is already on the shift")
		return
	}

	assignedBy := r.Context().Value(SubCtxKey).(string)
	if err := h.roster.AssignOfficer(shift.ID, req.OfficerID, assignedBy); err != nil {
		h.serviceError(w, r, err)
		return
	}

	updated, _ := h.roster.ShiftByID(shift.ID)
	h.successResponse(w, r, "officer added to shift", updated)
}

func (h *Handler) RemoveShiftOfficer(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)
	officerID := chi.URLParam(r, "officerID")

	if !shift.HasOfficer(officerID) {
		h.errorResponse(w, r, "officer is not on the shift")
		return
	}

	if err := h.roster.RemoveOfficer(shift.ID, officerID); err != nil {
		h.serviceError(w, r, err)
		return
	}

	updated, _ := h.roster.ShiftByID(shift.ID)
	h.successResponse(w, r, "officer removed from shift", updated)
}
