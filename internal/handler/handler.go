package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/oakmont-pd/patrol-roster/backend/internal/config"
	"github.com/oakmont-pd/patrol-roster/backend/internal/repository"
	"github.com/oakmont-pd/patrol-roster/backend/internal/roster"
	"github.com/oakmont-pd/patrol-roster/backend/internal/timeoff"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	roster      *roster.Service
	timeoff     *timeoff.Service
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, rosterSvc *roster.Service, timeoffSvc *timeoff.Service, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		roster:      rosterSvc,
		timeoff:     timeoffSvc,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// everything below requires a logged-in officer
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})
		r.Get("/my-schedule", h.GetMySchedule)

		r.Route("/officers", func(r chi.Router) {
			r.With(h.requireSupervisor).Post("/", h.CreateOfficer)
			r.Get("/", h.GetAllOfficers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.officerInfo)
				r.Get("/", h.GetOfficer)
				r.Get("/shifts", h.GetOfficerShifts)
				r.Get("/time-off", h.GetOfficerTimeOff)
				r.Get("/balance", h.GetOfficerBalance)
			})
		})

		r.Get("/beats", h.GetAllBeats)
		r.Get("/patrol-cars", h.GetAllPatrolCars)

		r.Route("/shifts", func(r chi.Router) {
			r.With(h.requireSupervisor).Post("/", h.CreateShift)
			r.Get("/", h.GetShifts)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftInfo)
				r.Get("/", h.GetShift)
				r.With(h.requireSupervisor).Patch("/", h.UpdateShift)
				r.With(h.requireSupervisor).Delete("/", h.DeleteShift)
				r.With(h.requireSupervisor).Put("/assignments", h.ReplaceShiftAssignments)
				r.Route("/officers", func(r chi.Router) {
					r.Use(h.requireSupervisor)
					r.Post("/", h.AddShiftOfficer)
					r.Delete("/{officerID}", h.RemoveShiftOfficer)
				})
			})
		})

		r.Route("/time-off", func(r chi.Router) {
			r.With(h.myInfo).Post("/", h.RequestTimeOff)
			r.Get("/", h.GetTimeOffRequests)
			r.With(h.requireSupervisor).Post("/convert", h.ConvertShiftToTimeOff)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.requireSupervisor)
				r.Use(h.myInfo)
				r.Post("/approve", h.ApproveTimeOff)
				r.Post("/deny", h.DenyTimeOff)
			})
		})
	})
}
