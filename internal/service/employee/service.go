package employee

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/terralogix/hr-backend-go/internal/domain/audit"
	"github.com/terralogix/hr-backend-go/internal/domain/department"
	"github.com/terralogix/hr-backend-go/internal/domain/employee"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"github.com/terralogix/hr-backend-go/internal/pkg/pagination"
	"github.com/terralogix/hr-backend-go/internal/pkg/validator"
	"github.com/terralogix/hr-backend-go/internal/service/file"
)

type EmployeeServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	departmentRepo department.DepartmentRepository
	userRepo       user.UserRepository
	fileService    file.FileService
	auditService   audit.Service
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	departmentRepo department.DepartmentRepository,
	userRepo user.UserRepository,
	fileService file.FileService,
	auditService audit.Service,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
		userRepo:       userRepo,
		fileService:    fileService,
		auditService:   auditService,
	}
}

func (s *EmployeeServiceImpl) toResponse(e employee.Employee) employee.EmployeeResponse {
	return employee.ToResponse(e, s.fileService.URL)
}

func requireManage(ctx context.Context) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, err
	}
	if !claims.Can(user.PermissionEmployeeManage) {
		return jwt.Claims{}, user.ErrInsufficientPermissions
	}
	return claims, nil
}

// canAccess reports whether the caller may read or change employee id.
func canAccess(claims jwt.Claims, id string, permission user.Permission) bool {
	return claims.Can(permission) || (claims.HasEmployee() && claims.EmployeeID == id)
}

func (s *EmployeeServiceImpl) checkDepartment(ctx context.Context, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	_, err := s.departmentRepo.GetByID(ctx, *id)
	return err
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !canAccess(claims, id, user.PermissionEmployeeViewAll) {
		return employee.EmployeeResponse{}, employee.ErrUnauthorized
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.toResponse(emp), nil
}

// GetMyEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetMyEmployee(ctx context.Context) (employee.EmployeeResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByUserID(ctx, claims.UserID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.toResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	claims, err := requireManage(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if req.UserID != nil {
		if _, err := s.userRepo.GetByID(ctx, *req.UserID); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	dateHired, _ := validator.IsValidDate(req.DateHired)
	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		UserID:        req.UserID,
		DepartmentID:  req.DepartmentID,
		EmployeeIDNo:  req.EmployeeIDNo,
		FullName:      strings.TrimSpace(req.FullName),
		Position:      strings.TrimSpace(req.Position),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		ContactNumber: req.ContactNumber,
		DateHired:     dateHired,
		DailyRate:     req.DailyRate.Round(2),
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	s.auditService.Log(ctx, &claims.UserID, audit.ActionEmployeeCreated,
		fmt.Sprintf("Employee %s (%s) created", created.FullName, created.ID))

	return s.toResponse(created), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if _, err := requireManage(ctx); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if !req.IsEmpty() {
		if err := s.employeeRepo.Update(ctx, req.ID, req); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	updated, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.toResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	claims, err := requireManage(ctx)
	if err != nil {
		return err
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}

	if emp.ProfilePhotoURL != nil {
		if err := s.fileService.DeleteFile(ctx, *emp.ProfilePhotoURL); err != nil {
			slog.Warn("Failed to delete profile photo", "employee_id", id, "error", err)
		}
	}

	s.auditService.Log(ctx, &claims.UserID, audit.ActionEmployeeDeleted,
		fmt.Sprintf("Employee %s (%s) deleted", emp.FullName, emp.ID))
	return nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	if !claims.Can(user.PermissionEmployeeViewAll) {
		if !claims.HasEmployee() {
			return employee.ListEmployeeResponse{
				Page:      filter.Page,
				Limit:     filter.Limit,
				Showing:   pagination.Showing(filter.Page, filter.Limit, 0),
				Employees: []employee.EmployeeResponse{},
			}, nil
		}
		filter.OnlyID = &claims.EmployeeID
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, s.toResponse(e))
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(total, filter.Limit),
		Showing:    pagination.Showing(filter.Page, filter.Limit, total),
		Employees:  responses,
	}, nil
}

// UploadPhoto implements employee.EmployeeService. The previous photo is
// removed once the new key is stored.
func (s *EmployeeServiceImpl) UploadPhoto(ctx context.Context, id string, f io.Reader, filename string) (employee.EmployeeResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !canAccess(claims, id, user.PermissionEmployeeManage) {
		return employee.EmployeeResponse{}, employee.ErrUnauthorized
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	key, err := s.fileService.UploadProfilePhoto(ctx, id, f, filename)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.employeeRepo.UpdatePhoto(ctx, id, &key); err != nil {
		if delErr := s.fileService.DeleteFile(ctx, key); delErr != nil {
			slog.Warn("Failed to clean up uploaded photo", "key", key, "error", delErr)
		}
		return employee.EmployeeResponse{}, err
	}

	if emp.ProfilePhotoURL != nil && *emp.ProfilePhotoURL != key {
		if err := s.fileService.DeleteFile(ctx, *emp.ProfilePhotoURL); err != nil {
			slog.Warn("Failed to delete previous profile photo", "employee_id", id, "error", err)
		}
	}

	emp.ProfilePhotoURL = &key
	return s.toResponse(emp), nil
}

// LinkUser implements employee.EmployeeService.
func (s *EmployeeServiceImpl) LinkUser(ctx context.Context, id string, userID string) (employee.EmployeeResponse, error) {
	if _, err := requireManage(ctx); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	linked, err := s.employeeRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil && linked.ID != id:
		return employee.EmployeeResponse{}, employee.ErrUserAlreadyLinked
	case err != nil && !errors.Is(err, employee.ErrEmployeeNotFound):
		return employee.EmployeeResponse{}, err
	}

	if err := s.employeeRepo.LinkUser(ctx, id, userID); err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.GetEmployee(ctx, id)
}
