package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/leave-workflow-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-workflow-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Env            string
	Version        string
	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter
	LogLevel       slog.Level
}

func NewRouter(
	opts RouterOptions,
	jwtService jwt.Service,
	authHandler AuthHandler,
	leaveHandler LeaveHandler,
	auditHandler AuditHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
		Level:       opts.LogLevel,
	})).With(
		slog.String("app", "leave-workflow"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Handler)
	}

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService))

			r.Post("/auth/logout", authHandler.Logout)

			r.Route("/leave-requests", func(r chi.Router) {
				r.Post("/", leaveHandler.SubmitRequest)
				r.Get("/my", leaveHandler.GetMyRequests)
				r.Get("/team", leaveHandler.GetTeamRequests)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", leaveHandler.GetRequest)
					r.Get("/audit", leaveHandler.GetRequestAudit)
					r.Put("/approve", leaveHandler.ApproveRequest)
					r.Put("/reject", leaveHandler.RejectRequest)
					r.Put("/cancel", leaveHandler.CancelRequest)
				})
			})

			r.Get("/audit", auditHandler.Search)
			r.Get("/working-days", leaveHandler.CountWorkingDays)
			r.Get("/employees/me/entitlement", leaveHandler.GetMyEntitlement)
		})
	})
	return r
}
