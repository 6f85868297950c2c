package attendance

import (
	"strings"
	"time"

	"github.com/terralogix/hr-backend-go/internal/pkg/validator"
)

type TimeInRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (r *TimeInRequest) Validate() error {
	return validateCoordinates(r.Latitude, r.Longitude)
}

type TimeOutRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (r *TimeOutRequest) Validate() error {
	return validateCoordinates(r.Latitude, r.Longitude)
}

func validateCoordinates(lat, long *float64) error {
	var errs validator.ValidationErrors
	if lat != nil && (*lat < -90 || *lat > 90) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if long != nil && (*long < -180 || *long > 180) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}
	if (lat == nil) != (long == nil) {
		errs.Add("location", "latitude and longitude must be provided together")
	}
	return errs.Err()
}

type QRCodeResponse struct {
	Payload string `json:"payload"`
	Image   string `json:"image"` // base64 PNG
}

type QRCheckInRequest struct {
	QRData    string   `json:"qr_data"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (r *QRCheckInRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.QRData) {
		errs.Add("qr_data", "qr_data is required")
	}
	if err := validateCoordinates(r.Latitude, r.Longitude); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	return errs.Err()
}

type QRCheckInResponse struct {
	Message    string             `json:"message"`
	Attendance AttendanceResponse `json:"attendance"`
}

type AttendanceResponse struct {
	ID               string   `json:"id"`
	EmployeeID       string   `json:"employee_id"`
	EmployeeName     *string  `json:"employee_name,omitempty"`
	EmployeePosition *string  `json:"employee_position,omitempty"`
	Date             string   `json:"date"`
	TimeIn           *string  `json:"time_in,omitempty"`
	TimeOut          *string  `json:"time_out,omitempty"`
	TimeInLat        *float64 `json:"time_in_lat,omitempty"`
	TimeInLong       *float64 `json:"time_in_long,omitempty"`
	TimeOutLat       *float64 `json:"time_out_lat,omitempty"`
	TimeOutLong      *float64 `json:"time_out_long,omitempty"`
	WorkingHours     *float64 `json:"working_hours,omitempty"`
	Status           string   `json:"status"`
	LateMinutes      int      `json:"late_minutes"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

func ToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:               a.ID,
		EmployeeID:       a.EmployeeID,
		EmployeeName:     a.EmployeeName,
		EmployeePosition: a.EmployeePosition,
		Date:             a.Date.Format("2006-01-02"),
		TimeInLat:        a.TimeInLat,
		TimeInLong:       a.TimeInLong,
		TimeOutLat:       a.TimeOutLat,
		TimeOutLong:      a.TimeOutLong,
		WorkingHours:     a.WorkedHours(),
		Status:           string(a.Status),
		LateMinutes:      a.LateMinutes,
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        a.UpdatedAt.Format(time.RFC3339),
	}
	if a.TimeIn != nil {
		s := a.TimeIn.Format(time.RFC3339)
		resp.TimeIn = &s
	}
	if a.TimeOut != nil {
		s := a.TimeOut.Format(time.RFC3339)
		resp.TimeOut = &s
	}
	return resp
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Search     *string `json:"search,omitempty"`     // employee name
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_name, time_in, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, ValidStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(ValidStatuses, ", "))
	}

	var start, end time.Time
	var startOK, endOK bool
	if f.StartDate != nil && *f.StartDate != "" {
		if start, startOK = validator.IsValidDate(*f.StartDate); !startOK {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if end, endOK = validator.IsValidDate(*f.EndDate); !endOK {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if startOK && endOK && start.After(end) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "employee_name", "time_in", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs.Add("sort_by", "sort_by must be one of: date, employee_name, time_in, status")
		}
	} else {
		f.SortBy = "date"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs.Add("sort_order", "sort_order must be one of: asc, desc")
		}
	} else {
		f.SortOrder = "desc"
	}

	return errs.Err()
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ExportRow is the flat shape written to CSV and Excel exports.
type ExportRow struct {
	Date        string `csv:"Date"`
	TimeIn      string `csv:"Time In"`
	TimeOut     string `csv:"Time Out"`
	Status      string `csv:"Status"`
	LateMinutes int    `csv:"Late Minutes"`
}

func ToExportRow(a Attendance) ExportRow {
	row := ExportRow{
		Date:        a.Date.Format("2006-01-02"),
		Status:      string(a.Status),
		LateMinutes: a.LateMinutes,
	}
	if a.TimeIn != nil {
		row.TimeIn = a.TimeIn.Format("15:04:05")
	}
	if a.TimeOut != nil {
		row.TimeOut = a.TimeOut.Format("15:04:05")
	}
	return row
}
