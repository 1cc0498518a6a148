package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/absensi-go/internal/config"
	appHTTP "github.com/cmlabs-hris/absensi-go/internal/handler/http"
	"github.com/cmlabs-hris/absensi-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/cache"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/cron"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/sse"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/status"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/storage"
	"github.com/cmlabs-hris/absensi-go/internal/repository/postgresql"
	redisrepo "github.com/cmlabs-hris/absensi-go/internal/repository/redis"
	attendanceService "github.com/cmlabs-hris/absensi-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/absensi-go/internal/service/auth"
	"github.com/cmlabs-hris/absensi-go/internal/service/file"
	leaveService "github.com/cmlabs-hris/absensi-go/internal/service/leave"
	profileService "github.com/cmlabs-hris/absensi-go/internal/service/profile"
	scheduleService "github.com/cmlabs-hris/absensi-go/internal/service/schedule"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "absensi"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	redisClient := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if redisClient == nil {
		slog.Warn("REDIS_ADDR not set, monthly recap cache disabled")
	} else {
		defer redisClient.Close()
	}

	loc := cfg.Location()
	classifier := status.Classifier{UnknownAsUnknown: cfg.Attendance.UnknownStatus == "unknown"}

	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	submissionRepo := postgresql.NewLeaveSubmissionRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	recapCache := redisrepo.NewRecapCache(redisClient, cfg.Redis.RecapTTL)

	hub := sse.NewHub()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	fileService := file.NewFileService(fileStorage)

	authService := serviceAuth.NewAuthService(txManager, userRepo, JWTService, refreshTokenRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, scheduleRepo, recapCache, hub, attendanceService.Options{
		Location:        loc,
		ShiftLength:     cfg.Attendance.ShiftLength,
		GracePeriod:     cfg.Attendance.GracePeriod,
		DefaultLocation: cfg.Attendance.DefaultLocation,
		Classifier:      classifier,
	})
	leaveSvc := leaveService.NewLeaveService(txManager, submissionRepo, attendanceRepo, userRepo, recapCache, hub, classifier)
	scheduleSvc := scheduleService.NewScheduleService(scheduleRepo)
	profileSvc := profileService.NewProfileService(userRepo, attendanceRepo, recapCache, fileService, classifier, loc)

	healthChecks := []appHTTP.HealthCheck{{Name: "database", Checker: db}}
	if redisClient != nil {
		healthChecks = append(healthChecks, appHTTP.HealthCheck{Name: "redis", Checker: redisClient, Optional: true})
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:         logger,
			LogLevel:       cfg.SlogLevel(),
			FrontendOrigin: cfg.App.FrontendOrigin,
			UploadsDir:     fileStorage.BasePath(),
			AuthRateLimit:  middleware.NewTokenBucket(10, 10),
			HealthChecks:   healthChecks,
		},
		JWTService,
		appHTTP.NewAuthHandler(JWTService, authService),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewScheduleHandler(scheduleSvc),
		appHTTP.NewProfileHandler(profileSvc),
		appHTTP.NewStreamHandler(JWTService, hub, attendanceSvc, appHTTP.StreamOptions{
			Location:    loc,
			ShiftLength: cfg.Attendance.ShiftLength,
		}),
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc, cfg.Attendance.StaleSweepInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	// cancelled on shutdown so open event streams return
	baseCtx, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	cancelStreams()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
