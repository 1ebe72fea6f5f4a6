package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/staffhub-dev/roster-manager/backend/internal/availability"
	"github.com/staffhub-dev/roster-manager/backend/internal/config"
	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
	"github.com/staffhub-dev/roster-manager/backend/internal/repository"
	"github.com/staffhub-dev/roster-manager/backend/internal/roster"
)

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	repository    *repository.Repository
	store         *availability.Store
	gate          *availability.Gate
	mutator       *roster.Mutator
	translator    ut.Translator
	notifyChannel *amqp.Channel
	redisClient   *redis.Client

	Mux *chi.Mux
}

func NewHandler(
	cfg *config.Config,
	repo *repository.Repository,
	store *availability.Store,
	gate *availability.Gate,
	mutator *roster.Mutator,
	notifyCh *amqp.Channel,
	rdb *redis.Client,
) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		repository:    repo,
		store:         store,
		gate:          gate,
		mutator:       mutator,
		translator:    trans,
		notifyChannel: notifyCh,
		redisClient:   rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/employees", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateEmployee)
			r.Get("/", h.GetAllEmployeeInfo) // 排班和换班都需要看到同事信息，因此不做角色限制
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.employeeInfo)
				r.Get("/", h.GetEmployeeInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateEmployee)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteEmployee)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/password", h.UpdateEmployeePassword)
			})
		})

		r.Route("/availabilities", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMonthAvailabilities)
			r.Get("/day", h.GetDayAvailability)
			r.With(h.preventInactiveEmployee).Put("/range", h.SetAvailabilityRange)
			r.With(h.preventInactiveEmployee).Delete("/day", h.DeleteDayAvailability)
		})

		r.Route("/availability-presets", func(r chi.Router) {
			r.Get("/", h.GetAllPresets)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Post("/", h.CreatePreset)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetPreset)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Delete("/", h.DeletePreset)
				r.With(h.myInfo).With(h.preventInactiveEmployee).Post("/apply", h.ApplyPreset)
			})
		})

		r.Route("/availability-cutoff", func(r chi.Router) {
			r.Get("/", h.GetActiveCutoff)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Put("/", h.SetCutoff)
		})

		r.Route("/timesheets/{date}", func(r chi.Router) {
			r.Get("/", h.GetTimesheet)
			r.Route("/groups/{groupID}/sub-groups/{subGroupID}/shifts/{shiftID}", func(r chi.Router) {
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Patch("/status", h.SetShiftStatus)
				r.Post("/clock-in", h.ClockInShift)
				r.Post("/clock-out", h.ClockOutShift)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Post("/swap", h.SwapShift)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Post("/cancel", h.CancelShift)
			})
		})

		r.Route("/broadcasts", func(r chi.Router) {
			r.Get("/", h.GetAllBroadcasts)
			r.With(h.myInfo).With(h.RequiredRole([]domain.Role{domain.RoleManager, domain.RoleAdmin})).Post("/", h.CreateBroadcast)
		})
	})
}
