package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terralogix/hr-backend-go/internal/pkg/validator"
)

func TestComputeRequest_Validate(t *testing.T) {
	req := ComputeRequest{EmployeeID: "e1", PeriodFrom: "2025-06-01", PeriodTo: "2025-06-15"}
	require.NoError(t, req.Validate())

	from, to := req.Period()
	assert.Equal(t, "2025-06-01", from.Format(dateLayout))
	assert.Equal(t, "2025-06-15", to.Format(dateLayout))

	bad := ComputeRequest{PeriodFrom: "06/01/2025", SSS: NewAmount("-1"), RegularHolidays: -2}
	err := bad.Validate()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	m := errs.ToMap()
	for _, field := range []string{"employee_id", "period_from", "period_to", "sss", "regular_holidays"} {
		assert.Contains(t, m, field)
	}
}

func TestComputeRequest_Inputs(t *testing.T) {
	defaults := Defaults{
		LateRatePerMinute: decimal.NewFromInt(10),
		SSS:               decimal.NewFromInt(400),
		HDMF:              decimal.NewFromInt(100),
		PHIC:              decimal.NewFromInt(200),
		Tax:               decimal.Zero,
	}

	req := ComputeRequest{SSS: NewAmount("0"), Allowance: NewAmount(150), LateUndertime: NewAmount("12.5")}
	in := req.Inputs(decimal.NewFromInt(610), defaults)

	assert.Equal(t, "610", in.DailyRate.String())
	assert.True(t, in.SSS.IsZero(), "explicit zero overrides default")
	assert.Equal(t, "100", in.HDMF.String())
	assert.Equal(t, "150", in.Allowance.String())
	require.NotNil(t, in.LateUndertime)
	assert.Equal(t, "12.5", in.LateUndertime.String())

	in = (&ComputeRequest{DailyRate: NewAmount("700")}).Inputs(decimal.NewFromInt(610), defaults)
	assert.Equal(t, "700", in.DailyRate.String())
	assert.Nil(t, in.LateUndertime)
}
