package payroll

import "context"

type PayslipRepository interface {
	Create(ctx context.Context, p Payslip) (Payslip, error)
	GetByID(ctx context.Context, id string) (Payslip, error)
	List(ctx context.Context, filter PayslipFilter) ([]Payslip, int64, error)
	ListAll(ctx context.Context, filter PayslipFilter) ([]Payslip, error)
	Delete(ctx context.Context, id string) error
}
