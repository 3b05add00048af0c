package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Officer)
	h.successResponse(w, r, "my info fetched", myInfo)
}

func (h *Handler) GetMySchedule(w http.ResponseWriter, r *http.Request) {
	sub := r.Context().Value(SubCtxKey).(string)

	schedule := struct {
		Shifts  []*domain.Shift          `json:"shifts"`
		TimeOff []*domain.TimeOffRequest `json:"timeOff"`
	}{
		Shifts:  h.roster.ShiftsForOfficer(sub),
		TimeOff: h.timeoff.RequestsForOfficer(sub),
	}

	h.successResponse(w, r, "my schedule fetched", schedule)
}

func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Officer)

	var req struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(myInfo.PasswordHash), []byte(req.OldPassword)); err != nil {
		h.errorResponse(w, r, "wrong old password")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.UpdateOfficerPassword(myInfo.ID, string(hashedPassword)); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "password update failed, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "password updated", nil)
}
