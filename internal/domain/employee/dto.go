package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/terralogix/hr-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	UserID        *string         `json:"user_id,omitempty" validate:"omitempty,uuid"`
	DepartmentID  *string         `json:"department_id,omitempty" validate:"omitempty,uuid"`
	EmployeeIDNo  *string         `json:"employee_id_no,omitempty" validate:"omitempty,max=50"`
	FullName      string          `json:"full_name" validate:"required,max=255"`
	Position      string          `json:"position" validate:"max=255"`
	Email         string          `json:"email" validate:"omitempty,email"`
	ContactNumber string          `json:"contact_number"`
	DateHired     string          `json:"date_hired" validate:"required,date"`
	DailyRate     decimal.Decimal `json:"daily_rate"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, fieldErrs...)
		} else {
			return err
		}
	}

	if r.ContactNumber != "" && !validator.IsValidPhoneNumber(r.ContactNumber) {
		errs.Add("contact_number", "invalid contact number")
	}
	if r.DailyRate.IsNegative() {
		errs.Add("daily_rate", "daily_rate must not be negative")
	}
	if d, ok := validator.IsValidDate(r.DateHired); ok && d.After(time.Now()) {
		errs.Add("date_hired", "date_hired cannot be in the future")
	}

	return errs.Err()
}

type UpdateEmployeeRequest struct {
	ID            string           `json:"-"`
	DepartmentID  *string          `json:"department_id,omitempty"`
	EmployeeIDNo  *string          `json:"employee_id_no,omitempty"`
	FullName      *string          `json:"full_name,omitempty"`
	Position      *string          `json:"position,omitempty"`
	Email         *string          `json:"email,omitempty"`
	ContactNumber *string          `json:"contact_number,omitempty"`
	DateHired     *string          `json:"date_hired,omitempty"`
	DailyRate     *decimal.Decimal `json:"daily_rate,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs.Add("full_name", "full_name cannot be empty")
	}
	if r.DepartmentID != nil && *r.DepartmentID != "" && !validator.IsValidUUID(*r.DepartmentID) {
		errs.Add("department_id", "invalid department_id")
	}
	if r.Email != nil && *r.Email != "" && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "invalid email format")
	}
	if r.ContactNumber != nil && *r.ContactNumber != "" && !validator.IsValidPhoneNumber(*r.ContactNumber) {
		errs.Add("contact_number", "invalid contact number")
	}
	if r.DateHired != nil {
		if d, ok := validator.IsValidDate(*r.DateHired); !ok {
			errs.Add("date_hired", "date_hired must be in YYYY-MM-DD format")
		} else if d.After(time.Now()) {
			errs.Add("date_hired", "date_hired cannot be in the future")
		}
	}
	if r.DailyRate != nil && r.DailyRate.IsNegative() {
		errs.Add("daily_rate", "daily_rate must not be negative")
	}

	return errs.Err()
}

// IsEmpty reports whether the request carries no changes.
func (r *UpdateEmployeeRequest) IsEmpty() bool {
	return r.DepartmentID == nil && r.EmployeeIDNo == nil && r.FullName == nil && r.Position == nil &&
		r.Email == nil && r.ContactNumber == nil && r.DateHired == nil && r.DailyRate == nil
}

type EmployeeResponse struct {
	ID              string  `json:"id"`
	UserID          *string `json:"user_id,omitempty"`
	DepartmentID    *string `json:"department_id,omitempty"`
	DepartmentName  *string `json:"department_name,omitempty"`
	EmployeeIDNo    *string `json:"employee_id_no,omitempty"`
	FullName        string  `json:"full_name"`
	Position        string  `json:"position"`
	Role            *string `json:"role,omitempty"`
	Email           string  `json:"email"`
	ContactNumber   string  `json:"contact_number"`
	DateHired       string  `json:"date_hired"`
	DailyRate       string  `json:"daily_rate"`
	ProfilePhotoURL *string `json:"profile_photo_url,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// ToResponse maps an employee; photoURL resolves stored photo keys to URLs.
func ToResponse(e Employee, photoURL func(string) string) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		DepartmentID:   e.DepartmentID,
		DepartmentName: e.DepartmentName,
		EmployeeIDNo:   e.EmployeeIDNo,
		FullName:       e.FullName,
		Position:       e.Position,
		Role:           e.Role,
		Email:          e.Email,
		ContactNumber:  e.ContactNumber,
		DateHired:      e.DateHired.Format("2006-01-02"),
		DailyRate:      e.DailyRate.StringFixed(2),
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      e.UpdatedAt.Format(time.RFC3339),
	}
	if e.ProfilePhotoURL != nil && photoURL != nil {
		u := photoURL(*e.ProfilePhotoURL)
		resp.ProfilePhotoURL = &u
	}
	return resp
}

type EmployeeFilter struct {
	Search       *string `json:"search,omitempty"` // full name, email, position
	DepartmentID *string `json:"department_id,omitempty"`
	OnlyID       *string `json:"-"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // full_name, position, date_hired
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *EmployeeFilter) Validate() error {
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

	if f.SortBy == "" {
		f.SortBy = "full_name"
	} else if !validator.IsInSlice(f.SortBy, []string{"full_name", "position", "date_hired"}) {
		errs.Add("sort_by", "sort_by must be one of: full_name, position, date_hired")
	}

	if f.SortOrder == "" {
		f.SortOrder = "asc"
	} else if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
		errs.Add("sort_order", "sort_order must be one of: asc, desc")
	}

	return errs.Err()
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}
