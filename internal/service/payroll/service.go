package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/terralogix/hr-backend-go/internal/config"
	"github.com/terralogix/hr-backend-go/internal/domain/attendance"
	"github.com/terralogix/hr-backend-go/internal/domain/audit"
	"github.com/terralogix/hr-backend-go/internal/domain/employee"
	"github.com/terralogix/hr-backend-go/internal/domain/notification"
	"github.com/terralogix/hr-backend-go/internal/domain/payroll"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/export"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"github.com/terralogix/hr-backend-go/internal/pkg/pagination"
)

type PayrollServiceImpl struct {
	payslipRepo    payroll.PayslipRepository
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	auditService   audit.Service
	notifier       notification.Service
	defaults       payroll.Defaults
	now            func() time.Time
}

func NewPayrollService(
	payslipRepo payroll.PayslipRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	auditService audit.Service,
	notifier notification.Service,
	cfg config.PayrollConfig,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payslipRepo:    payslipRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		auditService:   auditService,
		notifier:       notifier,
		defaults: payroll.Defaults{
			LateRatePerMinute: cfg.LateRatePerMinute,
			SSS:               cfg.SSS,
			HDMF:              cfg.HDMF,
			PHIC:              cfg.PHIC,
			Tax:               cfg.Tax,
		},
		now: time.Now,
	}
}

func requirePermission(ctx context.Context, permission user.Permission) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, err
	}
	if !claims.Can(permission) {
		return jwt.Claims{}, user.ErrInsufficientPermissions
	}
	return claims, nil
}

// compute validates req, resolves the employee and runs the calculator over
// the employee's attendance in the requested period.
func (s *PayrollServiceImpl) compute(ctx context.Context, req *payroll.ComputeRequest) (employee.Employee, payroll.Result, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, payroll.Result{}, err
	}

	from, to := req.Period()
	if from.After(to) {
		return employee.Employee{}, payroll.Result{}, payroll.ErrInvalidRange
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return employee.Employee{}, payroll.Result{}, err
	}

	records, err := s.attendanceRepo.ListByEmployeeAndRange(ctx, emp.ID, from, to)
	if err != nil {
		return employee.Employee{}, payroll.Result{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	result, err := payroll.Calculate(from, to, records, req.Inputs(emp.DailyRate, s.defaults))
	if err != nil {
		return employee.Employee{}, payroll.Result{}, err
	}
	return emp, result, nil
}

// Compute implements payroll.PayrollService.
func (s *PayrollServiceImpl) Compute(ctx context.Context, req payroll.ComputeRequest) (payroll.ComputeResponse, error) {
	if _, err := requirePermission(ctx, user.PermissionPayrollManage); err != nil {
		return payroll.ComputeResponse{}, err
	}

	emp, result, err := s.compute(ctx, &req)
	if err != nil {
		return payroll.ComputeResponse{}, err
	}
	return payroll.ToComputeResponse(emp.ID, result), nil
}

// CreatePayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreatePayslip(ctx context.Context, req payroll.ComputeRequest) (payroll.PayslipResponse, error) {
	claims, err := requirePermission(ctx, user.PermissionPayrollManage)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	emp, result, err := s.compute(ctx, &req)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	issued := s.now()
	p := payroll.NewPayslip(emp.ID, result, time.Date(issued.Year(), issued.Month(), issued.Day(), 0, 0, 0, 0, time.UTC))
	p.RegularHolidays = req.RegularHolidays
	p.NameSnapshot = emp.FullName
	p.PositionSnapshot = emp.Position
	if emp.EmployeeIDNo != nil {
		p.EmployeeIDNo = *emp.EmployeeIDNo
	}
	p.CreatedBy = &claims.UserID

	created, err := s.payslipRepo.Create(ctx, p)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	s.auditService.Log(ctx, &claims.UserID, audit.ActionPayslipCreated, fmt.Sprintf(
		"Payslip %s for %s (%s to %s), net pay %s",
		created.ID, created.NameSnapshot,
		created.PeriodFrom.Format("2006-01-02"), created.PeriodTo.Format("2006-01-02"),
		created.NetPay.StringFixed(payroll.MoneyPlaces),
	))

	if emp.UserID != nil {
		link := "/payslips/" + created.ID
		body := fmt.Sprintf("Your payslip for %s to %s has been issued.",
			created.PeriodFrom.Format("Jan 2"), created.PeriodTo.Format("Jan 2, 2006"))
		err := s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
			UserID: *emp.UserID,
			Type:   notification.TypePayslipIssued,
			Title:  "New payslip available",
			Body:   body,
			Link:   &link,
			Data:   map[string]interface{}{"payslip_id": created.ID},
		})
		if err != nil {
			slog.Warn("Failed to queue payslip notification", "payslip_id", created.ID, "error", err)
		}
	}

	return payroll.ToPayslipResponse(created), nil
}

// scopeFilter restricts filter to the caller's own payslips unless they may view all.
func scopeFilter(claims jwt.Claims, filter *payroll.PayslipFilter) error {
	if claims.Can(user.PermissionPayrollViewAll) {
		return nil
	}
	if !claims.HasEmployee() {
		return payroll.ErrNoEmployeeRecord
	}
	filter.EmployeeID = &claims.EmployeeID
	return nil
}

// ListPayslips implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, filter payroll.PayslipFilter) (payroll.ListPayslipResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListPayslipResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return payroll.ListPayslipResponse{}, err
	}
	if err := scopeFilter(claims, &filter); err != nil {
		return payroll.ListPayslipResponse{}, err
	}

	payslips, total, err := s.payslipRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayslipResponse{}, err
	}

	responses := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		responses = append(responses, payroll.ToPayslipResponse(p))
	}

	return payroll.ListPayslipResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(total, filter.Limit),
		Showing:    pagination.Showing(filter.Page, filter.Limit, total),
		Payslips:   responses,
	}, nil
}

// getAccessible loads a payslip the caller may read.
func (s *PayrollServiceImpl) getAccessible(ctx context.Context, id string) (payroll.Payslip, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.Payslip{}, err
	}

	p, err := s.payslipRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.Payslip{}, err
	}

	if !claims.Can(user.PermissionPayrollViewAll) && p.EmployeeID != claims.EmployeeID {
		return payroll.Payslip{}, payroll.ErrPayslipForbidden
	}
	return p, nil
}

// GetPayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	p, err := s.getAccessible(ctx, id)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return payroll.ToPayslipResponse(p), nil
}

// DeletePayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) DeletePayslip(ctx context.Context, id string) error {
	claims, err := requirePermission(ctx, user.PermissionPayrollManage)
	if err != nil {
		return err
	}

	p, err := s.payslipRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.payslipRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditService.Log(ctx, &claims.UserID, audit.ActionPayslipDeleted, fmt.Sprintf(
		"Payslip %s for %s (%s to %s)",
		p.ID, p.NameSnapshot, p.PeriodFrom.Format("2006-01-02"), p.PeriodTo.Format("2006-01-02"),
	))
	return nil
}

func (s *PayrollServiceImpl) render(payslips []payroll.Payslip, baseName string, format export.Format) (export.File, error) {
	rows := make([]payroll.ExportRow, 0, len(payslips))
	for _, p := range payslips {
		rows = append(rows, payroll.ToExportRow(p))
	}

	switch format {
	case export.FormatCSV:
		return export.CSV(baseName, rows)
	case export.FormatExcel:
		sheet := export.Sheet{
			Name:  "Payslips",
			Title: "Payslips",
			Headers: []string{
				"Employee", "Employee ID", "Period From", "Period To", "Issued",
				"Days Worked", "Gross Pay", "Total Deductions", "Net Pay",
			},
		}
		for _, r := range rows {
			sheet.Rows = append(sheet.Rows, []interface{}{
				r.EmployeeName, r.EmployeeIDNo, r.PeriodFrom, r.PeriodTo, r.IssuedDate,
				r.DaysWorked, r.GrossPay, r.TotalDeductions, r.NetPay,
			})
		}
		return export.Excel(baseName, sheet)
	}
	return export.File{}, fmt.Errorf("%w: %s", export.ErrUnsupportedFormat, format)
}

// ExportPayslips implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportPayslips(ctx context.Context, filter payroll.PayslipFilter, format export.Format) (export.File, error) {
	if _, err := requirePermission(ctx, user.PermissionPayrollViewAll); err != nil {
		return export.File{}, err
	}
	if err := filter.Validate(); err != nil {
		return export.File{}, err
	}

	payslips, err := s.payslipRepo.ListAll(ctx, filter)
	if err != nil {
		return export.File{}, err
	}
	return s.render(payslips, "payslips_"+s.now().Format("20060102"), format)
}

// ExportMyPayslips implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportMyPayslips(ctx context.Context, format export.Format) (export.File, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return export.File{}, err
	}
	if !claims.HasEmployee() {
		return export.File{}, payroll.ErrNoEmployeeRecord
	}

	filter := payroll.PayslipFilter{EmployeeID: &claims.EmployeeID}
	if err := filter.Validate(); err != nil {
		return export.File{}, err
	}

	payslips, err := s.payslipRepo.ListAll(ctx, filter)
	if err != nil {
		return export.File{}, err
	}
	return s.render(payslips, "my_payslips_"+s.now().Format("20060102"), format)
}

// PayslipPDF implements payroll.PayrollService.
func (s *PayrollServiceImpl) PayslipPDF(ctx context.Context, id string) (export.File, error) {
	p, err := s.getAccessible(ctx, id)
	if err != nil {
		return export.File{}, err
	}

	doc := export.Document{
		Title: "PAYSLIP",
		Sections: []export.Section{
			{
				Heading: "Employee",
				Lines: []export.Line{
					{Label: "Name", Value: p.NameSnapshot},
					{Label: "Employee ID", Value: p.EmployeeIDNo},
					{Label: "Position", Value: p.PositionSnapshot},
					{Label: "Period", Value: p.PeriodFrom.Format("Jan 2, 2006") + " - " + p.PeriodTo.Format("Jan 2, 2006")},
					{Label: "Issued", Value: p.IssuedDate.Format("Jan 2, 2006")},
				},
			},
			{
				Heading: "Earnings",
				Lines: []export.Line{
					{Label: "Daily Rate", Value: money(p.DailyRate)},
					{Label: "Days Worked", Value: fmt.Sprintf("%d", p.DaysWorked)},
					{Label: "Regular Holidays", Value: fmt.Sprintf("%d", p.RegularHolidays)},
					{Label: "Overtime Pay", Value: money(p.OvertimePay)},
					{Label: "Allowance", Value: money(p.Allowance)},
					{Label: "Gross Pay", Value: money(p.GrossPay), Bold: true},
				},
			},
			{
				Heading: "Deductions",
				Lines: []export.Line{
					{Label: fmt.Sprintf("Late/Undertime (%d min)", p.LateMinutes), Value: money(p.LateUndertime)},
					{Label: "SSS", Value: money(p.SSS)},
					{Label: "SSS MPF", Value: money(p.SSSMPF)},
					{Label: "HDMF", Value: money(p.HDMF)},
					{Label: "PHIC", Value: money(p.PHIC)},
					{Label: "Withholding Tax", Value: money(p.Tax)},
					{Label: "SSS Loan", Value: money(p.SSSLoan)},
					{Label: "HDMF Loan", Value: money(p.HDMFLoan)},
					{Label: "Cash Advance", Value: money(p.CashAdvance)},
					{Label: "Total Deductions", Value: money(p.TotalDeductions), Bold: true},
				},
			},
			{
				Lines: []export.Line{
					{Label: "NET PAY", Value: money(p.NetPay), Bold: true},
				},
			},
		},
		Footer: "This is a system generated payslip.",
	}

	return export.PDF("payslip_"+p.ID, doc)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(payroll.MoneyPlaces)
}
