package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
	"github.com/oakmont-pd/patrol-roster/backend/internal/utils"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetAllOfficers(w http.ResponseWriter, r *http.Request) {
	officers, err := h.repository.GetAllOfficers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "officers fetched", officers)
}

func (h *Handler) CreateOfficer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name" validate:"required"`
		Badge      string `json:"badge" validate:"required"`
		Rank       string `json:"rank" validate:"required"`
		Department string `json:"department" validate:"required"`
		Email      string `json:"email" validate:"required,email"`
		Phone      string `json:"phone"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	password := utils.GenerateRandomPassword(h.config.NewOfficer.PasswordLength)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	officer := &domain.Officer{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Badge:        req.Badge,
		Rank:         req.Rank,
		Department:   req.Department,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hashedPassword),
	}
	officer.IsSupervisor = officer.IsAdmin()

	if err := h.repository.CreateOfficer(officer); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "officers_badge_key":
				h.badRequest(w, r, errors.New("badge number already in use"))
			case pgErr.ConstraintName == "officers_email_key":
				h.badRequest(w, r, errors.New("email already in use"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	mailMessage := domain.MailMessage{
		Type: "new_officer",
		To:   officer.Email,
		Data: domain.NewOfficerMailData{
			Name:     officer.Name,
			Badge:    officer.Badge,
			Email:    officer.Email,
			Password: password,
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"roster_mail",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "officer created", officer)
}

func (h *Handler) GetOfficer(w http.ResponseWriter, r *http.Request) {
	officer := r.Context().Value(OfficerInfoCtx).(*domain.Officer)
	h.successResponse(w, r, "officer fetched", officer)
}

func (h *Handler) GetOfficerShifts(w http.ResponseWriter, r *http.Request) {
	officer := r.Context().Value(OfficerInfoCtx).(*domain.Officer)
	h.successResponse(w, r, "officer shifts fetched", h.roster.ShiftsForOfficer(officer.ID))
}

func (h *Handler) GetOfficerTimeOff(w http.ResponseWriter, r *http.Request) {
	officer := r.Context().Value(OfficerInfoCtx).(*domain.Officer)
	h.successResponse(w, r, "officer time off fetched", h.timeoff.RequestsForOfficer(officer.ID))
}

// GetOfficerBalance returns one PTO balance selected by the type query
// parameter, or all three balances when the parameter is absent.
func (h *Handler) GetOfficerBalance(w http.ResponseWriter, r *http.Request) {
	officer := r.Context().Value(OfficerInfoCtx).(*domain.Officer)

	typeParam := r.URL.Query().Get("type")
	if typeParam == "" {
		h.successResponse(w, r, "balances fetched", officer.PTOBalances)
		return
	}

	typ := domain.TimeOffType(typeParam)
	switch typ {
	case domain.TimeOffVacation, domain.TimeOffHoliday, domain.TimeOffSick:
	default:
		h.errorResponse(w, r, "type must be vacation, holiday or sick")
		return
	}

	h.successResponse(w, r, "balance fetched", officer.PTOBalances.ForType(typ))
}
