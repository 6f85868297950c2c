package payroll

import (
	"context"

	"github.com/terralogix/hr-backend-go/internal/pkg/export"
)

type PayrollService interface {
	// Compute previews a payroll result without persisting it
	Compute(ctx context.Context, req ComputeRequest) (ComputeResponse, error)

	// CreatePayslip computes from attendance and stores the payslip
	CreatePayslip(ctx context.Context, req ComputeRequest) (PayslipResponse, error)

	ListPayslips(ctx context.Context, filter PayslipFilter) (ListPayslipResponse, error)
	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	DeletePayslip(ctx context.Context, id string) error

	// ExportPayslips renders every payslip matching filter
	ExportPayslips(ctx context.Context, filter PayslipFilter, format export.Format) (export.File, error)

	// ExportMyPayslips renders the caller's own payslips
	ExportMyPayslips(ctx context.Context, format export.Format) (export.File, error)

	PayslipPDF(ctx context.Context, id string) (export.File, error)
}
