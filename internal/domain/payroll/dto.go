package payroll

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/terralogix/hr-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

// ComputeRequest drives both the payroll preview and payslip creation.
// Omitted amounts fall back to the employee's daily rate and the configured
// statutory defaults.
type ComputeRequest struct {
	EmployeeID        string `json:"employee_id"`
	PeriodFrom        string `json:"period_from"`
	PeriodTo          string `json:"period_to"`
	DailyRate         Amount `json:"daily_rate"`
	OvertimePay       Amount `json:"overtime_pay"`
	Allowance         Amount `json:"allowance"`
	LateRatePerMinute Amount `json:"late_rate_per_minute"`
	LateUndertime     Amount `json:"late_undertime"`
	SSS               Amount `json:"sss"`
	SSSMPF            Amount `json:"sss_mpf"`
	HDMF              Amount `json:"hdmf"`
	PHIC              Amount `json:"phic"`
	Tax               Amount `json:"tax"`
	SSSLoan           Amount `json:"sss_loan"`
	HDMFLoan          Amount `json:"hdmf_loan"`
	CashAdvance       Amount `json:"cash_advance"`
	RegularHolidays   int    `json:"regular_holidays"`

	periodFrom time.Time
	periodTo   time.Time
}

func (r *ComputeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	var ok bool
	if validator.IsEmpty(r.PeriodFrom) {
		errs.Add("period_from", "period_from is required")
	} else if r.periodFrom, ok = validator.IsValidDate(r.PeriodFrom); !ok {
		errs.Add("period_from", "period_from must be in YYYY-MM-DD format")
	}
	if validator.IsEmpty(r.PeriodTo) {
		errs.Add("period_to", "period_to is required")
	} else if r.periodTo, ok = validator.IsValidDate(r.PeriodTo); !ok {
		errs.Add("period_to", "period_to must be in YYYY-MM-DD format")
	}

	for field, a := range map[string]Amount{
		"daily_rate":           r.DailyRate,
		"overtime_pay":         r.OvertimePay,
		"allowance":            r.Allowance,
		"late_rate_per_minute": r.LateRatePerMinute,
		"late_undertime":       r.LateUndertime,
		"sss":                  r.SSS,
		"sss_mpf":              r.SSSMPF,
		"hdmf":                 r.HDMF,
		"phic":                 r.PHIC,
		"tax":                  r.Tax,
		"sss_loan":             r.SSSLoan,
		"hdmf_loan":            r.HDMFLoan,
		"cash_advance":         r.CashAdvance,
	} {
		if a.Set && a.Value.IsNegative() {
			errs.Add(field, field+" must not be negative")
		}
	}
	if r.RegularHolidays < 0 {
		errs.Add("regular_holidays", "regular_holidays must not be negative")
	}

	return errs.Err()
}

// Period returns the parsed period. Only meaningful after Validate succeeds.
func (r *ComputeRequest) Period() (from, to time.Time) {
	return r.periodFrom, r.periodTo
}

// Defaults are the amounts applied when a request omits a field.
type Defaults struct {
	LateRatePerMinute decimal.Decimal
	SSS               decimal.Decimal
	HDMF              decimal.Decimal
	PHIC              decimal.Decimal
	Tax               decimal.Decimal
}

// Inputs resolves the request against the employee's daily rate and defaults.
func (r *ComputeRequest) Inputs(employeeDailyRate decimal.Decimal, d Defaults) Inputs {
	in := Inputs{
		DailyRate:         r.DailyRate.Or(employeeDailyRate),
		OvertimePay:       r.OvertimePay.Or(decimal.Zero),
		Allowance:         r.Allowance.Or(decimal.Zero),
		LateRatePerMinute: r.LateRatePerMinute.Or(d.LateRatePerMinute),
		SSS:               r.SSS.Or(d.SSS),
		SSSMPF:            r.SSSMPF.Or(decimal.Zero),
		HDMF:              r.HDMF.Or(d.HDMF),
		PHIC:              r.PHIC.Or(d.PHIC),
		Tax:               r.Tax.Or(d.Tax),
		SSSLoan:           r.SSSLoan.Or(decimal.Zero),
		HDMFLoan:          r.HDMFLoan.Or(decimal.Zero),
		CashAdvance:       r.CashAdvance.Or(decimal.Zero),
	}
	if r.LateUndertime.Set {
		v := r.LateUndertime.Value
		in.LateUndertime = &v
	}
	return in
}

func money(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}

// rate keeps sub-cent precision and pads whole amounts to two places.
func rate(d decimal.Decimal) string {
	if d.Exponent() >= -MoneyPlaces {
		return money(d)
	}
	return d.String()
}

type ComputeResponse struct {
	EmployeeID        string `json:"employee_id"`
	PeriodFrom        string `json:"period_from"`
	PeriodTo          string `json:"period_to"`
	DaysWorked        int    `json:"days_worked"`
	TotalLateMinutes  int    `json:"total_late_minutes"`
	DailyRate         string `json:"daily_rate"`
	OvertimePay       string `json:"overtime_pay"`
	Allowance         string `json:"allowance"`
	LateRatePerMinute string `json:"late_rate_per_minute"`
	LateUndertime     string `json:"late_undertime"`
	SSS               string `json:"sss"`
	SSSMPF            string `json:"sss_mpf"`
	HDMF              string `json:"hdmf"`
	PHIC              string `json:"phic"`
	Tax               string `json:"tax"`
	SSSLoan           string `json:"sss_loan"`
	HDMFLoan          string `json:"hdmf_loan"`
	CashAdvance       string `json:"cash_advance"`
	GrossPay          string `json:"gross_pay"`
	TotalDeductions   string `json:"total_deductions"`
	NetPay            string `json:"net_pay"`
}

func ToComputeResponse(employeeID string, r Result) ComputeResponse {
	return ComputeResponse{
		EmployeeID:        employeeID,
		PeriodFrom:        r.PeriodFrom.Format(dateLayout),
		PeriodTo:          r.PeriodTo.Format(dateLayout),
		DaysWorked:        r.DaysWorked,
		TotalLateMinutes:  r.TotalLateMinutes,
		DailyRate:         money(r.DailyRate),
		OvertimePay:       money(r.OvertimePay),
		Allowance:         money(r.Allowance),
		LateRatePerMinute: rate(r.LateRatePerMinute),
		LateUndertime:     money(r.LateUndertime),
		SSS:               money(r.SSS),
		SSSMPF:            money(r.SSSMPF),
		HDMF:              money(r.HDMF),
		PHIC:              money(r.PHIC),
		Tax:               money(r.Tax),
		SSSLoan:           money(r.SSSLoan),
		HDMFLoan:          money(r.HDMFLoan),
		CashAdvance:       money(r.CashAdvance),
		GrossPay:          money(r.GrossPay),
		TotalDeductions:   money(r.TotalDeductions),
		NetPay:            money(r.NetPay),
	}
}

type PayslipResponse struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	EmployeeName    string `json:"employee_name"`
	Position        string `json:"position"`
	EmployeeIDNo    string `json:"employee_id_no"`
	PeriodFrom      string `json:"period_from"`
	PeriodTo        string `json:"period_to"`
	IssuedDate      string `json:"issued_date"`
	DailyRate       string `json:"daily_rate"`
	DaysWorked      int    `json:"days_worked"`
	LateMinutes     int    `json:"late_minutes"`
	RegularHolidays int    `json:"regular_holidays"`
	OvertimePay     string `json:"overtime_pay"`
	Allowance       string `json:"allowance"`
	LateUndertime   string `json:"late_undertime"`
	SSS             string `json:"sss"`
	SSSMPF          string `json:"sss_mpf"`
	HDMF            string `json:"hdmf"`
	PHIC            string `json:"phic"`
	Tax             string `json:"tax"`
	SSSLoan         string `json:"sss_loan"`
	HDMFLoan        string `json:"hdmf_loan"`
	CashAdvance     string `json:"cash_advance"`
	GrossPay        string `json:"gross_pay"`
	TotalDeductions string `json:"total_deductions"`
	NetPay          string `json:"net_pay"`
	CreatedAt       string `json:"created_at"`
}

func ToPayslipResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		ID:              p.ID,
		EmployeeID:      p.EmployeeID,
		EmployeeName:    p.NameSnapshot,
		Position:        p.PositionSnapshot,
		EmployeeIDNo:    p.EmployeeIDNo,
		PeriodFrom:      p.PeriodFrom.Format(dateLayout),
		PeriodTo:        p.PeriodTo.Format(dateLayout),
		IssuedDate:      p.IssuedDate.Format(dateLayout),
		DailyRate:       money(p.DailyRate),
		DaysWorked:      p.DaysWorked,
		LateMinutes:     p.LateMinutes,
		RegularHolidays: p.RegularHolidays,
		OvertimePay:     money(p.OvertimePay),
		Allowance:       money(p.Allowance),
		LateUndertime:   money(p.LateUndertime),
		SSS:             money(p.SSS),
		SSSMPF:          money(p.SSSMPF),
		HDMF:            money(p.HDMF),
		PHIC:            money(p.PHIC),
		Tax:             money(p.Tax),
		SSSLoan:         money(p.SSSLoan),
		HDMFLoan:        money(p.HDMFLoan),
		CashAdvance:     money(p.CashAdvance),
		GrossPay:        money(p.GrossPay),
		TotalDeductions: money(p.TotalDeductions),
		NetPay:          money(p.NetPay),
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
}

type PayslipFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Search     *string `json:"search,omitempty"` // employee name snapshot

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // issued_date, period_from, period_to
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *PayslipFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.SortBy == "" {
		f.SortBy = "issued_date"
	} else if !validator.IsInSlice(f.SortBy, []string{"issued_date", "period_from", "period_to"}) {
		errs.Add("sort_by", "sort_by must be one of: issued_date, period_from, period_to")
	}

	if f.SortOrder == "" {
		f.SortOrder = "desc"
	} else if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
		errs.Add("sort_order", "sort_order must be one of: asc, desc")
	}

	return errs.Err()
}

type ListPayslipResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Showing    string            `json:"showing"`
	Payslips   []PayslipResponse `json:"payslips"`
}

// ExportRow is the flat shape written to payslip CSV and Excel exports.
type ExportRow struct {
	EmployeeName    string `csv:"Employee"`
	EmployeeIDNo    string `csv:"Employee ID"`
	PeriodFrom      string `csv:"Period From"`
	PeriodTo        string `csv:"Period To"`
	IssuedDate      string `csv:"Issued"`
	DaysWorked      int    `csv:"Days Worked"`
	GrossPay        string `csv:"Gross Pay"`
	TotalDeductions string `csv:"Total Deductions"`
	NetPay          string `csv:"Net Pay"`
}

func ToExportRow(p Payslip) ExportRow {
	return ExportRow{
		EmployeeName:    p.NameSnapshot,
		EmployeeIDNo:    p.EmployeeIDNo,
		PeriodFrom:      p.PeriodFrom.Format(dateLayout),
		PeriodTo:        p.PeriodTo.Format(dateLayout),
		IssuedDate:      p.IssuedDate.Format(dateLayout),
		DaysWorked:      p.DaysWorked,
		GrossPay:        money(p.GrossPay),
		TotalDeductions: money(p.TotalDeductions),
		NetPay:          money(p.NetPay),
	}
}
