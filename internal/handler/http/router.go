package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/handler/http/middleware"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
)

// RouterConfig carries the settings the router needs beyond its handlers.
type RouterConfig struct {
	AllowedOrigins []string
	LogLevel       slog.Level

	// UploadsDir is served read-only under UploadsPath.
	UploadsDir  string
	UploadsPath string
}

type Handlers struct {
	Auth         AuthHandler
	User         UserHandler
	Employee     EmployeeHandler
	Department   DepartmentHandler
	Attendance   AttendanceHandler
	Payroll      PayrollHandler
	Leave        LeaveHandler
	Notification NotificationHandler
	Announcement AnnouncementHandler
	Audit        AuditHandler
	Invitation   InvitationHandler
	Dashboard    DashboardHandler
}

func NewRouter(cfg RouterConfig, logger *slog.Logger, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.RequestID)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	if cfg.UploadsDir != "" {
		prefix := "/" + strings.Trim(cfg.UploadsPath, "/")
		fs := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(cfg.UploadsDir)))
		r.Get(prefix+"/*", fs.ServeHTTP)
	}

	perm := middleware.RequirePermission

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/register", h.Auth.Register)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/accept-invite", h.Auth.AcceptInvitation)
		})

		// EventSource clients authenticate with a short-lived SSE token
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService))

			r.Post("/auth/logout", h.Auth.Logout)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", h.Auth.Profile)
				r.Post("/change-password", h.Auth.ChangePassword)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.List)
				r.Get("/me", h.Employee.GetMe)
				r.With(perm(user.PermissionEmployeeManage)).Post("/", h.Employee.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Employee.Get)
					r.Post("/photo", h.Employee.UploadPhoto)
					r.Group(func(r chi.Router) {
						r.Use(perm(user.PermissionEmployeeManage))
						r.Put("/", h.Employee.Update)
						r.Delete("/", h.Employee.Delete)
						r.Post("/link-user", h.Employee.LinkUser)
					})
				})
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", h.Department.List)
				r.Get("/{id}", h.Department.Get)
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionDepartmentManage))
					r.Post("/", h.Department.Create)
					r.Put("/{id}", h.Department.Update)
					r.Delete("/{id}", h.Department.Delete)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(perm(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.ListAttendance)
				r.Get("/my", h.Attendance.GetMyAttendance)
				r.Get("/export/{format}", h.Attendance.ExportMyAttendance)
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionAttendanceCreate))
					r.Post("/time-in", h.Attendance.TimeIn)
					r.Post("/time-out", h.Attendance.TimeOut)
					r.Get("/qr", h.Attendance.GenerateQR)
					r.Post("/qr/checkin", h.Attendance.QRCheckIn)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.With(perm(user.PermissionPayrollManage)).Post("/compute", h.Payroll.Compute)
			})

			r.Route("/payslips", func(r chi.Router) {
				r.Get("/", h.Payroll.ListPayslips)
				r.Get("/export/{format}", h.Payroll.ExportMyPayslips)
				r.Get("/{id}", h.Payroll.GetPayslip)
				r.Get("/{id}/pdf", h.Payroll.PayslipPDF)
				r.With(perm(user.PermissionPayrollManage)).Delete("/{id}", h.Payroll.DeletePayslip)
			})

			r.Route("/leave-types", func(r chi.Router) {
				r.Get("/", h.Leave.ListLeaveTypes)
				r.Get("/{id}", h.Leave.GetLeaveType)
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionLeaveManageTypes))
					r.Post("/", h.Leave.CreateLeaveType)
					r.Put("/{id}", h.Leave.UpdateLeaveType)
					r.Delete("/{id}", h.Leave.DeleteLeaveType)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Get("/", h.Leave.ListLeaveRequests)
				r.With(perm(user.PermissionLeaveCreate)).Post("/", h.Leave.CreateLeaveRequest)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Leave.GetLeaveRequest)
					r.Delete("/", h.Leave.DeleteLeaveRequest)
					r.With(perm(user.PermissionLeaveApprove)).Post("/approve", h.Leave.Approve)
					r.With(perm(user.PermissionLeaveApprove)).Post("/reject", h.Leave.Reject)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Get("/sse-token", h.Notification.GetSSEToken)
				r.Post("/read-all", h.Notification.MarkAllAsRead)
				r.Post("/{id}/read", h.Notification.MarkAsRead)
				r.Delete("/{id}", h.Notification.Delete)
			})
			r.Post("/push-token", h.Notification.SavePushToken)

			r.Route("/announcements", func(r chi.Router) {
				r.Get("/", h.Announcement.List)
				r.Get("/{id}", h.Announcement.Get)
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionAnnouncementManage))
					r.Post("/", h.Announcement.Create)
					r.Put("/{id}", h.Announcement.Update)
					r.Delete("/{id}", h.Announcement.Delete)
				})
			})

			r.With(perm(user.PermissionAuditView)).Get("/audit-logs", h.Audit.List)

			r.Route("/invitations", func(r chi.Router) {
				r.Use(perm(user.PermissionInvitationManage))
				r.Get("/", h.Invitation.List)
				r.Post("/", h.Invitation.Invite)
				r.Delete("/{id}", h.Invitation.Delete)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(perm(user.PermissionReportsView))
					r.Get("/dashboard-stats", h.Dashboard.GetStats)
					r.Get("/attendance-trend", h.Dashboard.GetAttendanceTrend)
				})

				r.Route("/users", func(r chi.Router) {
					r.Use(perm(user.PermissionUserManage))
					r.Get("/", h.User.List)
					r.Post("/{id}/demote", h.User.Demote)
					r.Post("/{id}/reset-password", h.User.ResetPassword)
				})

				r.Route("/payslips", func(r chi.Router) {
					r.With(perm(user.PermissionPayrollManage)).Post("/", h.Payroll.CreatePayslip)
					r.With(perm(user.PermissionPayrollViewAll)).Get("/export/{format}", h.Payroll.ExportPayslips)
					r.With(perm(user.PermissionPayrollViewAll)).Get("/{id}/pdf", h.Payroll.PayslipPDF)
				})

				r.With(perm(user.PermissionLeaveApprove)).Post("/leaves/{id}/decide", h.Leave.Decide)
				r.With(perm(user.PermissionPushSend)).Post("/send-push", h.Notification.SendPush)
			})
		})
	})
	return r
}
