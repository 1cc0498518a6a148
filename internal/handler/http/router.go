package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/absensi-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	FrontendOrigin string
	UploadsDir     string
	AuthRateLimit  *middleware.TokenBucket
	HealthChecks   []HealthCheck
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	scheduleHandler ScheduleHandler,
	profileHandler ProfileHandler,
	streamHandler *StreamHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
		// the event stream stays open for minutes
		Skip: func(req *http.Request, respStatus int) bool {
			return req.URL.Path == "/api/v1/attendance/stream"
		},
	}))

	r.Use(middleware.Metrics)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", Healthz(cfg.HealthChecks...))
	r.Handle("/metrics", promhttp.Handler())

	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.AuthRateLimit != nil {
					r.Use(cfg.AuthRateLimit.Handler)
				}
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/refresh", authHandler.RefreshToken)
			})

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Post("/logout", authHandler.Logout)
			})

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))
				r.Put("/password", authHandler.ChangePassword)
				r.Post("/stream-token", authHandler.StreamToken)
			})
		})

		// authenticated by the stream token in the query string
		r.Get("/attendance/stream", streamHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/today", attendanceHandler.Today)
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Post("/toggle", attendanceHandler.Toggle)
				r.Get("/history", attendanceHandler.History)
				r.Get("/recap", attendanceHandler.Recap)
			})

			r.Route("/leave", func(r chi.Router) {
				r.Get("/my", leaveHandler.ListMine)
				r.Post("/{type}", leaveHandler.Submit)
			})

			r.Get("/schedules/my", scheduleHandler.ListMine)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profileHandler.Get)
				r.Put("/", profileHandler.Update)
				r.Post("/photo", profileHandler.UploadPhoto)
			})
		})
	})
	return r
}
