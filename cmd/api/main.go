package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/terralogix/hr-backend-go/internal/config"
	appHTTP "github.com/terralogix/hr-backend-go/internal/handler/http"
	"github.com/terralogix/hr-backend-go/internal/pkg/cron"
	"github.com/terralogix/hr-backend-go/internal/pkg/database"
	"github.com/terralogix/hr-backend-go/internal/pkg/email"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"github.com/terralogix/hr-backend-go/internal/pkg/push"
	"github.com/terralogix/hr-backend-go/internal/pkg/sse"
	"github.com/terralogix/hr-backend-go/internal/pkg/storage"
	"github.com/terralogix/hr-backend-go/internal/repository/postgresql"
	announcementService "github.com/terralogix/hr-backend-go/internal/service/announcement"
	attendanceService "github.com/terralogix/hr-backend-go/internal/service/attendance"
	auditService "github.com/terralogix/hr-backend-go/internal/service/audit"
	authService "github.com/terralogix/hr-backend-go/internal/service/auth"
	dashboardService "github.com/terralogix/hr-backend-go/internal/service/dashboard"
	departmentService "github.com/terralogix/hr-backend-go/internal/service/department"
	employeeService "github.com/terralogix/hr-backend-go/internal/service/employee"
	"github.com/terralogix/hr-backend-go/internal/service/file"
	invitationService "github.com/terralogix/hr-backend-go/internal/service/invitation"
	leaveService "github.com/terralogix/hr-backend-go/internal/service/leave"
	notificationService "github.com/terralogix/hr-backend-go/internal/service/notification"
	payrollService "github.com/terralogix/hr-backend-go/internal/service/payroll"
	userService "github.com/terralogix/hr-backend-go/internal/service/user"
	"github.com/terralogix/hr-backend-go/migrations"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.AppConfig) (*slog.Logger, slog.Level) {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.Name),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)
	return logger, level
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, level := newLogger(cfg.App)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, migrations.FS); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	loc := cfg.Location()
	transactor := postgresql.NewTransactor(db)

	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payslipRepo := postgresql.NewPayslipRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	pushTokenRepo := postgresql.NewPushTokenRepository(db)
	announcementRepo := postgresql.NewAnnouncementRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	invitationRepo := postgresql.NewInvitationRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.Env == "production")
	if err != nil {
		return fmt.Errorf("failed to initialize jwt service: %w", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize local storage: %w", err)
	}
	fileService := file.NewFileService(fileStorage, cfg.Storage.MaxSize)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	hub := sse.NewHub()
	audit := auditService.NewAuditService(auditRepo)
	notifier := notificationService.NewNotificationService(notificationRepo, pushTokenRepo, hub, push.NewClient(cfg.Push), audit, cfg.Notification)

	authSvc := authService.NewAuthService(transactor, userRepo, employeeRepo, jwtService, refreshTokenRepo, fileService.URL, cfg.App.AllowRegistration)
	userSvc := userService.NewUserService(userRepo, refreshTokenRepo, emailService, audit, cfg.App.Name)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, departmentRepo, userRepo, fileService, audit)
	departmentSvc := departmentService.NewDepartmentService(departmentRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, cfg.Attendance, loc)
	payrollSvc := payrollService.NewPayrollService(payslipRepo, attendanceRepo, employeeRepo, audit, notifier, cfg.Payroll)
	leaveSvc := leaveService.NewLeaveService(leaveTypeRepo, leaveRequestRepo, attendanceRepo, transactor, audit, notifier)
	announcementSvc := announcementService.NewAnnouncementService(announcementRepo, userRepo, audit, notifier)
	invitationSvc := invitationService.NewInvitationService(invitationRepo, userRepo, transactor, emailService, audit, cfg.App.Name, cfg.App.BaseURL)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, leaveRequestRepo, attendanceRepo, loc)

	uploadsPath := "/uploads"
	if u, err := url.Parse(cfg.Storage.BaseURL); err == nil && strings.Trim(u.Path, "/") != "" {
		uploadsPath = "/" + strings.Trim(u.Path, "/")
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       level,
		UploadsDir:     fileStorage.BasePath(),
		UploadsPath:    uploadsPath,
	}, logger, jwtService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(jwtService, authSvc, invitationSvc),
		User:         appHTTP.NewUserHandler(userSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Department:   appHTTP.NewDepartmentHandler(departmentSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Notification: appHTTP.NewNotificationHandler(notifier, jwtService),
		Announcement: appHTTP.NewAnnouncementHandler(announcementSvc),
		Audit:        appHTTP.NewAuditHandler(audit),
		Invitation:   appHTTP.NewInvitationHandler(invitationSvc),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
	})

	scheduler := cron.NewScheduler()
	if cfg.Cron.Enabled {
		cron.NewAttendanceJobs(attendanceSvc, cfg.Cron, loc).RegisterJobs(scheduler)
		scheduler.Start()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Closing the hub ends open SSE streams so Shutdown does not wait on them
	hub.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown error", "error", err)
	}
	scheduler.Stop()
	notifier.Stop()
	return nil
}
