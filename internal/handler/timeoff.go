package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

func (h *Handler) GetTimeOffRequests(w http.ResponseWriter, r *http.Request) {
	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		h.successResponse(w, r, "time off requests fetched", h.timeoff.Requests())
		return
	}

	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		h.errorResponse(w, r, "date must be formatted YYYY-MM-DD")
		return
	}

	// by-date lookups only surface approved requests, matching what a duty
	// roster for that day needs
	h.successResponse(w, r, "time off requests fetched", h.timeoff.RequestsOnDate(date))
}

func (h *Handler) RequestTimeOff(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Officer)

	var req struct {
		Date    time.Time `json:"date" validate:"required"`
		Type    string    `json:"type" validate:"required,oneof=vacation holiday sick"`
		ShiftID string    `json:"shiftId"`
		Notes   string    `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	request, err := h.timeoff.Request(myInfo.ID, req.Date, domain.TimeOffType(req.Type), req.ShiftID, req.Notes)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "time off requested", request)
}

func (h *Handler) ApproveTimeOff(w http.ResponseWriter, r *http.Request) {
	h.decideTimeOff(w, r, domain.TimeOffApproved)
}

func (h *Handler) DenyTimeOff(w http.ResponseWriter, r *http.Request) {
	h.decideTimeOff(w, r, domain.TimeOffDenied)
}

func (h *Handler) decideTimeOff(w http.ResponseWriter, r *http.Request, status domain.TimeOffStatus) {
	requestID := chi.URLParam(r, "id")
	approver := r.Context().Value(MyInfoCtx).(*domain.Officer)

	var err error
	if status == domain.TimeOffApproved {
		err = h.timeoff.Approve(requestID, approver.ID)
	} else {
		err = h.timeoff.Deny(requestID, approver.ID)
	}
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	var decided *domain.TimeOffRequest
	for _, request := range h.timeoff.Requests() {
		if request.ID == requestID {
			decided = request
			break
		}
	}
	if decided == nil {
		h.errorResponse(w, r, "time off request not found")
		return
	}

	// notify the requesting officer; a mail failure does not undo the decision
	if err := h.publishDecisionMail(decided); err != nil {
		h.logInternalServerError(r, err)
	}

	h.successResponse(w, r, "time off request decided", decided)
}

func (h *Handler) publishDecisionMail(request *domain.TimeOffRequest) error {
	officer, err := h.repository.GetOfficerByID(request.OfficerID)
	if err != nil {
		return err
	}

	mailMessage := domain.MailMessage{
		Type: "time_off_decision",
		To:   officer.Email,
		Data: domain.TimeOffDecisionMailData{
			Name:     officer.Name,
			Date:     request.Date.Format("2006-01-02"),
			Type:     string(request.Type),
			Decision: string(request.Status),
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"roster_mail",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}

func (h *Handler) ConvertShiftToTimeOff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShiftID   string    `json:"shiftId" validate:"required"`
		OfficerID string    `json:"officerId" validate:"required"`
		Type      string    `json:"type" validate:"required,oneof=vacation holiday sick"`
		Date      time.Time `json:"date" validate:"required"`
		Notes     string    `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, ok := h.roster.ShiftByID(req.ShiftID)
	if !ok {
		h.errorResponse(w, r, "shift not found")
		return
	}
	if !shift.HasOfficer(req.OfficerID) {
		h.errorResponse(w, r, "officer is not on the shift")
		return
	}

	request, err := h.timeoff.ConvertShiftToTimeOff(req.ShiftID, req.OfficerID, domain.TimeOffType(req.Type), req.Date, req.Notes)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift converted to time off", request)
}
