package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/terralogix/hr-backend-go/internal/domain/attendance"
	"github.com/terralogix/hr-backend-go/internal/pkg/database"
	"github.com/terralogix/hr-backend-go/internal/pkg/pagination"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.time_in, a.time_out, a.status, a.late_minutes,
	a.time_in_lat, a.time_in_long, a.time_out_lat, a.time_out_long, a.created_at, a.updated_at,
	e.full_name, e.position
`

const attendanceJoins = `
	FROM attendances a
	JOIN employees e ON e.id = a.employee_id
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Date,
		&a.TimeIn,
		&a.TimeOut,
		&a.Status,
		&a.LateMinutes,
		&a.TimeInLat,
		&a.TimeInLong,
		&a.TimeOutLat,
		&a.TimeOutLong,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.EmployeeName,
		&a.EmployeePosition,
	)
	return a, err
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return attendance.Attendance{}, err
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, date, time_in, time_out, status, late_minutes,
			time_in_lat, time_in_long, time_out_lat, time_out_long
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = q.Exec(ctx, query,
		id,
		a.EmployeeID,
		a.Date,
		a.TimeIn,
		a.TimeOut,
		a.Status,
		a.LateMinutes,
		a.TimeInLat,
		a.TimeInLong,
		a.TimeOutLat,
		a.TimeOutLong,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return attendance.Attendance{}, attendance.ErrAlreadyTimedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET time_in = $1, time_out = $2, status = $3, late_minutes = $4,
		    time_in_lat = $5, time_in_long = $6, time_out_lat = $7, time_out_long = $8,
		    updated_at = NOW()
		WHERE id = $9
	`
	tag, err := q.Exec(ctx, query,
		a.TimeIn,
		a.TimeOut,
		a.Status,
		a.LateMinutes,
		a.TimeInLat,
		a.TimeInLong,
		a.TimeOutLat,
		a.TimeOutLong,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance %s: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx, `SELECT `+attendanceColumns+attendanceJoins+`WHERE a.id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx,
		`SELECT `+attendanceColumns+attendanceJoins+`WHERE a.employee_id = $1 AND a.date = $2`,
		employeeID, date.Format("2006-01-02"),
	))
	if err != nil {
		if isNotFound(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

// ListByEmployeeAndRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		`SELECT `+attendanceColumns+attendanceJoins+`
		WHERE a.employee_id = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date ASC`,
		employeeID, from.Format("2006-01-02"), to.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for employee %s: %w", employeeID, err)
	}
	return collectAttendances(rows)
}

var attendanceSortColumns = map[string]string{
	"date":          "a.date",
	"employee_name": "e.full_name",
	"time_in":       "a.time_in",
	"status":        "a.status",
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("e.full_name ILIKE $%d", argIdx))
		args = append(args, likePattern(*filter.Search))
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+attendanceJoins+"WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	sortColumn, ok := attendanceSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "a.date"
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY %s %s, e.full_name ASC`,
		attendanceColumns, attendanceJoins, whereClause, sortColumn, orderDirection(filter.SortOrder))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	records, err := collectAttendances(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// MarkAbsent implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) MarkAbsent(ctx context.Context, date time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (id, employee_id, date, status, late_minutes)
		SELECT gen_random_uuid(), e.id, $1::date, $2, 0
		FROM employees e
		WHERE e.date_hired <= $1::date
		ON CONFLICT (employee_id, date) DO NOTHING
	`
	tag, err := q.Exec(ctx, query, date.Format("2006-01-02"), attendance.StatusAbsent)
	if err != nil {
		return 0, fmt.Errorf("failed to mark absences: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CreateOnLeave implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CreateOnLeave(ctx context.Context, employeeID string, dates []time.Time) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (id, employee_id, date, status, late_minutes)
		VALUES ($1, $2, $3, $4, 0)
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	var inserted int64
	for _, d := range dates {
		id, err := newID()
		if err != nil {
			return inserted, err
		}
		tag, err := q.Exec(ctx, query, id, employeeID, d.Format("2006-01-02"), attendance.StatusOnLeave)
		if err != nil {
			return inserted, fmt.Errorf("failed to create leave attendance for %s: %w", d.Format("2006-01-02"), err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// Trend implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Trend(ctx context.Context, from, to time.Time) ([]attendance.TrendPoint, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT date, COUNT(*)
		FROM attendances
		WHERE date BETWEEN $1 AND $2 AND status IN ($3, $4)
		GROUP BY date
		ORDER BY date
	`, from.Format("2006-01-02"), to.Format("2006-01-02"), attendance.StatusPresent, attendance.StatusLate)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance trend: %w", err)
	}
	defer rows.Close()

	var points []attendance.TrendPoint
	for rows.Next() {
		var p attendance.TrendPoint
		if err := rows.Scan(&p.Date, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan trend point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
