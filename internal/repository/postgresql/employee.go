package postgresql

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/terralogix/hr-backend-go/internal/domain/employee"
	"github.com/terralogix/hr-backend-go/internal/pkg/database"
	"github.com/terralogix/hr-backend-go/internal/pkg/pagination"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	e.id, e.user_id, e.department_id, e.employee_id_no, e.full_name, e.position, e.email,
	e.contact_number, e.date_hired, e.daily_rate, e.profile_photo_url, e.created_at, e.updated_at,
	d.name, u.role
`

const employeeJoins = `
	FROM employees e
	LEFT JOIN departments d ON d.id = e.department_id
	LEFT JOIN users u ON u.id = e.user_id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.DepartmentID,
		&e.EmployeeIDNo,
		&e.FullName,
		&e.Position,
		&e.Email,
		&e.ContactNumber,
		&e.DateHired,
		&e.DailyRate,
		&e.ProfilePhotoURL,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.DepartmentName,
		&e.Role,
	)
	return e, err
}

// mapEmployeeWriteError translates constraint failures into domain errors.
func mapEmployeeWriteError(err error) error {
	switch {
	case isUniqueViolation(err, "employees_employee_id_no_key"):
		return employee.ErrEmployeeIDNoExists
	case isUniqueViolation(err, "employees_user_id_key"):
		return employee.ErrUserAlreadyLinked
	}
	return err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return employee.Employee{}, err
	}

	query := `
		INSERT INTO employees (
			id, user_id, department_id, employee_id_no, full_name, position, email,
			contact_number, date_hired, daily_rate
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = q.Exec(ctx, query,
		id,
		newEmployee.UserID,
		newEmployee.DepartmentID,
		newEmployee.EmployeeIDNo,
		newEmployee.FullName,
		newEmployee.Position,
		newEmployee.Email,
		newEmployee.ContactNumber,
		newEmployee.DateHired,
		newEmployee.DailyRate,
	)
	if err != nil {
		if mapped := mapEmployeeWriteError(err); mapped != err {
			return employee.Employee{}, mapped
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+employeeJoins+`WHERE e.id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return found, nil
}

// GetByUserID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+employeeJoins+`WHERE e.user_id = $1`, userID))
	if err != nil {
		if isNotFound(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee for user %s: %w", userID, err)
	}
	return found, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})

	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			updates["department_id"] = nil
		} else {
			updates["department_id"] = *req.DepartmentID
		}
	}
	if req.EmployeeIDNo != nil {
		if *req.EmployeeIDNo == "" {
			updates["employee_id_no"] = nil
		} else {
			updates["employee_id_no"] = *req.EmployeeIDNo
		}
	}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.ContactNumber != nil {
		updates["contact_number"] = *req.ContactNumber
	}
	if req.DateHired != nil {
		parsed, _ := time.Parse("2006-01-02", *req.DateHired)
		updates["date_hired"] = parsed
	}
	if req.DailyRate != nil {
		updates["daily_rate"] = *req.DailyRate
	}

	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()

	cols := make([]string, 0, len(updates))
	for col := range updates {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	setClauses := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for i, col := range cols {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, updates[col])
	}

	sql := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d RETURNING id", strings.Join(setClauses, ", "), len(cols)+1)
	args = append(args, id)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if isNotFound(err) {
			return employee.ErrEmployeeNotFound
		}
		if mapped := mapEmployeeWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update employee with id %s: %w", id, err)
	}
	return nil
}

// UpdatePhoto implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdatePhoto(ctx context.Context, id string, photoKey *string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET profile_photo_url = $1, updated_at = NOW() WHERE id = $2`, photoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update photo of employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// LinkUser implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) LinkUser(ctx context.Context, id string, userID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET user_id = $1, updated_at = NOW() WHERE id = $2`, userID, id)
	if err != nil {
		if mapped := mapEmployeeWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to link user to employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

var employeeSortColumns = map[string]string{
	"full_name":  "e.full_name",
	"position":   "e.position",
	"date_hired": "e.date_hired",
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(e.full_name ILIKE $%d OR e.email ILIKE $%d OR e.position ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, likePattern(*filter.Search))
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.OnlyID != nil {
		conditions = append(conditions, fmt.Sprintf("e.id = $%d", argIdx))
		args = append(args, *filter.OnlyID)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees e WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	sortColumn, ok := employeeSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "e.full_name"
	}

	query := fmt.Sprintf(`SELECT %s %s
		WHERE %s
		ORDER BY %s %s, e.id
		LIMIT $%d OFFSET $%d
	`, employeeColumns, employeeJoins, whereClause, sortColumn, orderDirection(filter.SortOrder), argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, total, rows.Err()
}
