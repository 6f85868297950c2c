package payroll

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/terralogix/hr-backend-go/internal/domain/attendance"
)

// MoneyPlaces is the number of decimal places every monetary output carries.
const MoneyPlaces = 2

// Inputs are the per-invocation rates and deductions. Loans and cash advance
// are optional and default to zero.
type Inputs struct {
	DailyRate         decimal.Decimal
	OvertimePay       decimal.Decimal
	Allowance         decimal.Decimal
	LateRatePerMinute decimal.Decimal
	SSS               decimal.Decimal
	SSSMPF            decimal.Decimal
	HDMF              decimal.Decimal
	PHIC              decimal.Decimal
	Tax               decimal.Decimal
	SSSLoan           decimal.Decimal
	HDMFLoan          decimal.Decimal
	CashAdvance       decimal.Decimal

	// LateUndertime replaces the amount derived from late minutes when set.
	LateUndertime *decimal.Decimal
}

// Result is the outcome of a payroll computation. Every input earning and
// deduction is passed through so callers can persist a self-consistent payslip.
type Result struct {
	PeriodFrom       time.Time
	PeriodTo         time.Time
	DaysWorked       int
	TotalLateMinutes int

	DailyRate         decimal.Decimal
	OvertimePay       decimal.Decimal
	Allowance         decimal.Decimal
	LateRatePerMinute decimal.Decimal
	LateUndertime     decimal.Decimal
	SSS               decimal.Decimal
	SSSMPF            decimal.Decimal
	HDMF              decimal.Decimal
	PHIC              decimal.Decimal
	Tax               decimal.Decimal
	SSSLoan           decimal.Decimal
	HDMFLoan          decimal.Decimal
	CashAdvance       decimal.Decimal

	GrossPay        decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
}

// Calculate computes pay for the attendance records dated within
// [from, to]. Records outside the period are ignored. Net pay is never
// clamped and may be negative.
func Calculate(from, to time.Time, records []attendance.Attendance, in Inputs) (Result, error) {
	from, to = dateOnly(from), dateOnly(to)
	if from.After(to) {
		return Result{}, ErrInvalidRange
	}
	in = in.rounded()

	var daysWorked, lateMinutes int
	for _, r := range records {
		d := dateOnly(r.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		if countsAsWorked(r) {
			daysWorked++
		}
		if r.LateMinutes > 0 {
			lateMinutes += r.LateMinutes
		}
	}

	lateUndertime := round(decimal.NewFromInt(int64(lateMinutes)).Mul(in.LateRatePerMinute))
	if in.LateUndertime != nil {
		lateUndertime = *in.LateUndertime
	}

	gross := decimal.NewFromInt(int64(daysWorked)).Mul(in.DailyRate).
		Add(in.OvertimePay).
		Add(in.Allowance)

	deductions := decimal.Sum(lateUndertime,
		in.SSS, in.SSSMPF, in.HDMF, in.PHIC, in.Tax,
		in.SSSLoan, in.HDMFLoan, in.CashAdvance)

	return Result{
		PeriodFrom:        from,
		PeriodTo:          to,
		DaysWorked:        daysWorked,
		TotalLateMinutes:  lateMinutes,
		DailyRate:         in.DailyRate,
		OvertimePay:       in.OvertimePay,
		Allowance:         in.Allowance,
		LateRatePerMinute: in.LateRatePerMinute,
		LateUndertime:     lateUndertime,
		SSS:               in.SSS,
		SSSMPF:            in.SSSMPF,
		HDMF:              in.HDMF,
		PHIC:              in.PHIC,
		Tax:               in.Tax,
		SSSLoan:           in.SSSLoan,
		HDMFLoan:          in.HDMFLoan,
		CashAdvance:       in.CashAdvance,
		GrossPay:          gross,
		TotalDeductions:   deductions,
		NetPay:            gross.Sub(deductions),
	}, nil
}

// countsAsWorked reports whether a record contributes a paid day: the
// employee timed in, or the record is marked present or late.
func countsAsWorked(r attendance.Attendance) bool {
	if r.TimeIn != nil {
		return true
	}
	switch strings.ToLower(string(r.Status)) {
	case "present", "late":
		return true
	}
	return false
}

// rounded returns a copy with every money amount at MoneyPlaces, so totals
// derived from it match the amounts reported back. The late rate is a
// per-minute rate, not an amount, and is kept exact.
func (in Inputs) rounded() Inputs {
	out := in
	out.DailyRate = round(in.DailyRate)
	out.OvertimePay = round(in.OvertimePay)
	out.Allowance = round(in.Allowance)
	out.SSS = round(in.SSS)
	out.SSSMPF = round(in.SSSMPF)
	out.HDMF = round(in.HDMF)
	out.PHIC = round(in.PHIC)
	out.Tax = round(in.Tax)
	out.SSSLoan = round(in.SSSLoan)
	out.HDMFLoan = round(in.HDMFLoan)
	out.CashAdvance = round(in.CashAdvance)
	if in.LateUndertime != nil {
		v := round(*in.LateUndertime)
		out.LateUndertime = &v
	}
	return out
}

// round rounds half away from zero. Inputs are non-negative, so this is
// round-half-up.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
