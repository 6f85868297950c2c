package department

import (
	"context"

	"github.com/terralogix/hr-backend-go/internal/domain/department"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
)

type DepartmentServiceImpl struct {
	department.DepartmentRepository
}

func NewDepartmentService(repo department.DepartmentRepository) department.DepartmentService {
	return &DepartmentServiceImpl{DepartmentRepository: repo}
}

func requireManage(ctx context.Context) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	if !claims.Can(user.PermissionDepartmentManage) {
		return user.ErrInsufficientPermissions
	}
	return nil
}

func (s *DepartmentServiceImpl) Create(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := requireManage(ctx); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	exists, err := s.DepartmentRepository.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	if exists {
		return department.DepartmentResponse{}, department.ErrDepartmentNameExists
	}

	created, err := s.DepartmentRepository.Create(ctx, department.Department{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.ToResponse(created), nil
}

func (s *DepartmentServiceImpl) GetByID(ctx context.Context, id string) (department.DepartmentResponse, error) {
	d, err := s.DepartmentRepository.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.ToResponse(d), nil
}

func (s *DepartmentServiceImpl) List(ctx context.Context) ([]department.DepartmentResponse, error) {
	departments, err := s.DepartmentRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		responses = append(responses, department.ToResponse(d))
	}
	return responses, nil
}

func (s *DepartmentServiceImpl) Update(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := requireManage(ctx); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	current, err := s.DepartmentRepository.GetByID(ctx, req.ID)
	if err != nil {
		return department.DepartmentResponse{}, err
	}

	if req.Name != nil && *req.Name != current.Name {
		exists, err := s.DepartmentRepository.ExistsByName(ctx, *req.Name, req.ID)
		if err != nil {
			return department.DepartmentResponse{}, err
		}
		if exists {
			return department.DepartmentResponse{}, department.ErrDepartmentNameExists
		}
		current.Name = *req.Name
	}
	if req.Description != nil {
		current.Description = req.Description
	}

	if err := s.DepartmentRepository.Update(ctx, current); err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.ToResponse(current), nil
}

// Delete removes the department; employees keep their records with no department.
func (s *DepartmentServiceImpl) Delete(ctx context.Context, id string) error {
	if err := requireManage(ctx); err != nil {
		return err
	}
	return s.DepartmentRepository.Delete(ctx, id)
}
