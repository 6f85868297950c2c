package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID              string
	UserID          *string
	DepartmentID    *string
	EmployeeIDNo    *string
	FullName        string
	Position        string
	Email           string
	ContactNumber   string
	DateHired       time.Time
	DailyRate       decimal.Decimal
	ProfilePhotoURL *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	DepartmentName *string
	Role           *string
}
