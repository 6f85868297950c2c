package payroll

import "errors"

var (
	ErrInvalidRange     = errors.New("period_from must not be after period_to")
	ErrPayslipNotFound  = errors.New("payslip not found")
	ErrPayslipForbidden = errors.New("not allowed to access this payslip")
	ErrNoEmployeeRecord = errors.New("no employee record linked to this account")
)
