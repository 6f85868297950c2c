package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/terralogix/hr-backend-go/internal/domain/payroll"
	"github.com/terralogix/hr-backend-go/internal/pkg/database"
	"github.com/terralogix/hr-backend-go/internal/pkg/pagination"
)

type payslipRepositoryImpl struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payroll.PayslipRepository {
	return &payslipRepositoryImpl{db: db}
}

const payslipColumns = `
	id, employee_id, period_from, period_to, issued_date, daily_rate, days_worked, late_minutes,
	regular_holidays, overtime_pay, allowance, late_undertime, sss, sss_mpf, hdmf, phic, tax,
	sss_loan, hdmf_loan, cash_advance, gross_pay, total_deductions, net_pay,
	name_snapshot, position_snapshot, employee_id_no, created_by, created_at
`

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var p payroll.Payslip
	err := row.Scan(
		&p.ID,
		&p.EmployeeID,
		&p.PeriodFrom,
		&p.PeriodTo,
		&p.IssuedDate,
		&p.DailyRate,
		&p.DaysWorked,
		&p.LateMinutes,
		&p.RegularHolidays,
		&p.OvertimePay,
		&p.Allowance,
		&p.LateUndertime,
		&p.SSS,
		&p.SSSMPF,
		&p.HDMF,
		&p.PHIC,
		&p.Tax,
		&p.SSSLoan,
		&p.HDMFLoan,
		&p.CashAdvance,
		&p.GrossPay,
		&p.TotalDeductions,
		&p.NetPay,
		&p.NameSnapshot,
		&p.PositionSnapshot,
		&p.EmployeeIDNo,
		&p.CreatedBy,
		&p.CreatedAt,
	)
	return p, err
}

// Create implements payroll.PayslipRepository.
func (r *payslipRepositoryImpl) Create(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return payroll.Payslip{}, err
	}

	query := `
		INSERT INTO payslips (` + payslipColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		        $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, NOW())
		RETURNING ` + payslipColumns

	created, err := scanPayslip(q.QueryRow(ctx, query,
		id,
		p.EmployeeID,
		p.PeriodFrom,
		p.PeriodTo,
		p.IssuedDate,
		p.DailyRate,
		p.DaysWorked,
		p.LateMinutes,
		p.RegularHolidays,
		p.OvertimePay,
		p.Allowance,
		p.LateUndertime,
		p.SSS,
		p.SSSMPF,
		p.HDMF,
		p.PHIC,
		p.Tax,
		p.SSSLoan,
		p.HDMFLoan,
		p.CashAdvance,
		p.GrossPay,
		p.TotalDeductions,
		p.NetPay,
		p.NameSnapshot,
		p.PositionSnapshot,
		p.EmployeeIDNo,
		p.CreatedBy,
	))
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}
	return created, nil
}

// GetByID implements payroll.PayslipRepository.
func (r *payslipRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayslip(q.QueryRow(ctx, `SELECT `+payslipColumns+` FROM payslips WHERE id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}
	return p, nil
}

var payslipSortColumns = map[string]string{
	"issued_date": "issued_date",
	"period_from": "period_from",
	"period_to":   "period_to",
}

func payslipWhere(filter payroll.PayslipFilter) (string, []interface{}) {
	conditions := []string{"TRUE"}
	args := []interface{}{}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, likePattern(*filter.Search))
		conditions = append(conditions, fmt.Sprintf("name_snapshot ILIKE $%d", len(args)))
	}

	return strings.Join(conditions, " AND "), args
}

func (r *payslipRepositoryImpl) query(ctx context.Context, filter payroll.PayslipFilter, paged bool) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	where, args := payslipWhere(filter)
	sortColumn, ok := payslipSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "issued_date"
	}

	query := fmt.Sprintf(`SELECT %s FROM payslips WHERE %s ORDER BY %s %s, created_at DESC`,
		payslipColumns, where, sortColumn, orderDirection(filter.SortOrder))
	if paged {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}
	return payslips, rows.Err()
}

// List implements payroll.PayslipRepository.
func (r *payslipRepositoryImpl) List(ctx context.Context, filter payroll.PayslipFilter) ([]payroll.Payslip, int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args := payslipWhere(filter)
	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM payslips WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payslips: %w", err)
	}

	payslips, err := r.query(ctx, filter, true)
	if err != nil {
		return nil, 0, err
	}
	return payslips, total, nil
}

// ListAll implements payroll.PayslipRepository.
func (r *payslipRepositoryImpl) ListAll(ctx context.Context, filter payroll.PayslipFilter) ([]payroll.Payslip, error) {
	return r.query(ctx, filter, false)
}

// Delete implements payroll.PayslipRepository.
func (r *payslipRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payslips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payslip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayslipNotFound
	}
	return nil
}
