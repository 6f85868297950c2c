package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payslip is a persisted payroll result for one employee and period.
// Employee name, position and ID number are snapshotted at issue time.
type Payslip struct {
	ID               string
	EmployeeID       string
	PeriodFrom       time.Time
	PeriodTo         time.Time
	IssuedDate       time.Time
	DailyRate        decimal.Decimal
	DaysWorked       int
	LateMinutes      int
	RegularHolidays  int
	OvertimePay      decimal.Decimal
	Allowance        decimal.Decimal
	LateUndertime    decimal.Decimal
	SSS              decimal.Decimal
	SSSMPF           decimal.Decimal
	HDMF             decimal.Decimal
	PHIC             decimal.Decimal
	Tax              decimal.Decimal
	SSSLoan          decimal.Decimal
	HDMFLoan         decimal.Decimal
	CashAdvance      decimal.Decimal
	GrossPay         decimal.Decimal
	TotalDeductions  decimal.Decimal
	NetPay           decimal.Decimal
	NameSnapshot     string
	PositionSnapshot string
	EmployeeIDNo     string
	CreatedBy        *string
	CreatedAt        time.Time
}

// NewPayslip copies a calculator result into a payslip.
func NewPayslip(employeeID string, r Result, issued time.Time) Payslip {
	return Payslip{
		EmployeeID:      employeeID,
		PeriodFrom:      r.PeriodFrom,
		PeriodTo:        r.PeriodTo,
		IssuedDate:      issued,
		DailyRate:       r.DailyRate,
		DaysWorked:      r.DaysWorked,
		LateMinutes:     r.TotalLateMinutes,
		OvertimePay:     r.OvertimePay,
		Allowance:       r.Allowance,
		LateUndertime:   r.LateUndertime,
		SSS:             r.SSS,
		SSSMPF:          r.SSSMPF,
		HDMF:            r.HDMF,
		PHIC:            r.PHIC,
		Tax:             r.Tax,
		SSSLoan:         r.SSSLoan,
		HDMFLoan:        r.HDMFLoan,
		CashAdvance:     r.CashAdvance,
		GrossPay:        r.GrossPay,
		TotalDeductions: r.TotalDeductions,
		NetPay:          r.NetPay,
	}
}
