package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terralogix/hr-backend-go/internal/domain/attendance"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func presentOn(d int, lateMinutes int) attendance.Attendance {
	in := day(d).Add(8 * time.Hour)
	status := attendance.StatusPresent
	if lateMinutes > 0 {
		status = attendance.StatusLate
	}
	return attendance.Attendance{Date: day(d), TimeIn: &in, Status: status, LateMinutes: lateMinutes}
}

func standardInputs() Inputs {
	return Inputs{
		DailyRate:         dec("500"),
		LateRatePerMinute: dec("10"),
		SSS:               dec("400"),
		HDMF:              dec("100"),
		PHIC:              dec("200"),
		Tax:               decimal.Zero,
	}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), field)
}

func TestCalculate_TenDayScenario(t *testing.T) {
	var records []attendance.Attendance
	for d := 2; d <= 11; d++ {
		late := 0
		if d == 3 || d == 7 {
			late = 15
		}
		records = append(records, presentOn(d, late))
	}

	res, err := Calculate(day(1), day(15), records, standardInputs())
	require.NoError(t, err)

	assert.Equal(t, 10, res.DaysWorked)
	assert.Equal(t, 30, res.TotalLateMinutes)
	assertMoney(t, "300.00", res.LateUndertime, "late_undertime")
	assertMoney(t, "5000.00", res.GrossPay, "gross_pay")
	assertMoney(t, "1000.00", res.TotalDeductions, "total_deductions")
	assertMoney(t, "4000.00", res.NetPay, "net_pay")
}

func TestCalculate_NegativeNetIsNotClamped(t *testing.T) {
	in := Inputs{DailyRate: dec("50"), SSS: dec("200")}

	res, err := Calculate(day(2), day(2), []attendance.Attendance{presentOn(2, 0)}, in)
	require.NoError(t, err)

	assert.Equal(t, 1, res.DaysWorked)
	assertMoney(t, "50.00", res.GrossPay, "gross_pay")
	assertMoney(t, "200.00", res.TotalDeductions, "total_deductions")
	assertMoney(t, "-150.00", res.NetPay, "net_pay")
}

func TestCalculate_EmptyPeriod(t *testing.T) {
	in := standardInputs()
	in.OvertimePay = dec("250.50")
	in.Allowance = dec("100")

	res, err := Calculate(day(1), day(30), nil, in)
	require.NoError(t, err)

	assert.Equal(t, 0, res.DaysWorked)
	assert.True(t, res.LateUndertime.IsZero())
	assertMoney(t, "350.50", res.GrossPay, "gross_pay")
}

func TestCalculate_InvalidRange(t *testing.T) {
	_, err := Calculate(day(10), day(9), nil, standardInputs())
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestCalculate_SingleDayOnlyCountsThatDate(t *testing.T) {
	records := []attendance.Attendance{presentOn(4, 5), presentOn(5, 20), presentOn(6, 0)}

	res, err := Calculate(day(5), day(5), records, standardInputs())
	require.NoError(t, err)

	assert.Equal(t, 1, res.DaysWorked)
	assert.Equal(t, 20, res.TotalLateMinutes)
	assertMoney(t, "200.00", res.LateUndertime, "late_undertime")
}

func TestCalculate_DateBoundariesAreInclusive(t *testing.T) {
	// Times of day must not push a record outside the period.
	late := presentOn(30, 0)
	late.Date = time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)
	records := []attendance.Attendance{presentOn(1, 0), late}

	res, err := Calculate(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), day(30), records, standardInputs())
	require.NoError(t, err)
	assert.Equal(t, 2, res.DaysWorked)
}

func TestCalculate_WorkedDayRules(t *testing.T) {
	timeIn := day(3).Add(9 * time.Hour)
	records := []attendance.Attendance{
		{Date: day(1), Status: "present"},
		{Date: day(2), Status: attendance.StatusLate, LateMinutes: 5},
		{Date: day(3), Status: attendance.StatusAbsent, TimeIn: &timeIn},
		{Date: day(4), Status: attendance.StatusAbsent},
		{Date: day(5), Status: attendance.StatusOnLeave},
		{Date: day(6), Status: "", LateMinutes: -7},
	}

	res, err := Calculate(day(1), day(30), records, standardInputs())
	require.NoError(t, err)

	assert.Equal(t, 3, res.DaysWorked)
	assert.Equal(t, 5, res.TotalLateMinutes)
}

func TestCalculate_Invariants(t *testing.T) {
	cases := []struct {
		name    string
		records []attendance.Attendance
		in      Inputs
	}{
		{"standard", []attendance.Attendance{presentOn(2, 3), presentOn(3, 0)}, standardInputs()},
		{"fractional", []attendance.Attendance{presentOn(2, 7)}, Inputs{
			DailyRate:         dec("612.345"),
			OvertimePay:       dec("33.335"),
			Allowance:         dec("0.005"),
			LateRatePerMinute: dec("1.115"),
			SSS:               dec("581.30"),
			HDMF:              dec("100"),
			PHIC:              dec("312.505"),
			Tax:               dec("12.345"),
			SSSLoan:           dec("1000"),
			HDMFLoan:          dec("250.25"),
			CashAdvance:       dec("99.99"),
		}},
		{"zero everything", nil, Inputs{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Calculate(day(1), day(30), tc.records, tc.in)
			require.NoError(t, err)

			assertSelfConsistent(t, res)
			assert.LessOrEqual(t, res.DaysWorked, len(tc.records))

			for _, v := range []decimal.Decimal{res.GrossPay, res.TotalDeductions, res.NetPay, res.LateUndertime, res.DailyRate, res.SSS} {
				assert.LessOrEqual(t, -v.Exponent(), int32(2), "at most two decimal places: %s", v)
			}
		})
	}
}

// assertSelfConsistent checks the totals against the amounts reported in the
// same result.
func assertSelfConsistent(t *testing.T, res Result) {
	t.Helper()
	gross := decimal.NewFromInt(int64(res.DaysWorked)).Mul(res.DailyRate).
		Add(res.OvertimePay).Add(res.Allowance)
	deductions := decimal.Sum(res.LateUndertime,
		res.SSS, res.SSSMPF, res.HDMF, res.PHIC, res.Tax,
		res.SSSLoan, res.HDMFLoan, res.CashAdvance)

	assert.True(t, res.GrossPay.Equal(gross), "gross %s, from reported fields %s", res.GrossPay, gross)
	assert.True(t, res.TotalDeductions.Equal(deductions), "deductions %s, from reported fields %s", res.TotalDeductions, deductions)
	assert.True(t, res.NetPay.Equal(res.GrossPay.Sub(res.TotalDeductions)), "net = gross - deductions")
}

func TestCalculate_SubCentInputsStayConsistent(t *testing.T) {
	records := []attendance.Attendance{presentOn(2, 0), presentOn(3, 0), presentOn(4, 0)}
	in := Inputs{DailyRate: dec("333.335"), SSS: dec("0.005"), HDMF: dec("0.005")}

	res, err := Calculate(day(1), day(30), records, in)
	require.NoError(t, err)

	assertMoney(t, "333.34", res.DailyRate, "daily_rate")
	assertMoney(t, "1000.02", res.GrossPay, "gross_pay")
	assertMoney(t, "0.01", res.SSS, "sss")
	assertMoney(t, "0.01", res.HDMF, "hdmf")
	assertMoney(t, "0.02", res.TotalDeductions, "total_deductions")
	assertMoney(t, "1000.00", res.NetPay, "net_pay")
	assertSelfConsistent(t, res)
}

func TestCalculate_LateRateIsKeptExact(t *testing.T) {
	in := Inputs{LateRatePerMinute: dec("0.125")}
	records := []attendance.Attendance{presentOn(2, 30), presentOn(3, 30)}

	res, err := Calculate(day(1), day(30), records, in)
	require.NoError(t, err)

	// 60 * 0.125, not 60 * 0.13
	assertMoney(t, "7.50", res.LateUndertime, "late_undertime")
	assert.Equal(t, "0.125", res.LateRatePerMinute.String())
}

func TestCalculate_Idempotent(t *testing.T) {
	records := []attendance.Attendance{presentOn(2, 12), presentOn(3, 0)}
	first, err := Calculate(day(1), day(30), records, standardInputs())
	require.NoError(t, err)
	second, err := Calculate(day(1), day(30), records, standardInputs())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculate_RoundsHalfUp(t *testing.T) {
	in := Inputs{LateRatePerMinute: dec("0.125")}

	// 1 minute * 0.125 = 0.125 -> 0.13
	res, err := Calculate(day(1), day(1), []attendance.Attendance{presentOn(1, 1)}, in)
	require.NoError(t, err)
	assertMoney(t, "0.13", res.LateUndertime, "late_undertime")
}

func TestCalculate_LoansAndOverridesAreDeducted(t *testing.T) {
	in := standardInputs()
	in.SSSLoan = dec("150")
	in.HDMFLoan = dec("50")
	in.CashAdvance = dec("300")
	override := dec("75")
	in.LateUndertime = &override

	res, err := Calculate(day(1), day(30), []attendance.Attendance{presentOn(2, 30)}, in)
	require.NoError(t, err)

	assertMoney(t, "75.00", res.LateUndertime, "late_undertime")
	// 75 + 400 + 100 + 200 + 0 + 150 + 50 + 300
	assertMoney(t, "1275.00", res.TotalDeductions, "total_deductions")
	assertMoney(t, "-775.00", res.NetPay, "net_pay")
}

func TestCalculate_DoesNotMutateRecords(t *testing.T) {
	records := []attendance.Attendance{presentOn(2, 3)}
	snapshot := records[0]

	_, err := Calculate(day(1), day(30), records, standardInputs())
	require.NoError(t, err)
	assert.Equal(t, snapshot, records[0])
}
