package employee

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terralogix/hr-backend-go/internal/domain/audit"
	"github.com/terralogix/hr-backend-go/internal/domain/department"
	"github.com/terralogix/hr-backend-go/internal/domain/employee"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"github.com/terralogix/hr-backend-go/internal/pkg/validator"
)

type fakeEmployeeRepository struct {
	items map[string]employee.Employee
	last  employee.EmployeeFilter
}

func newFakeEmployeeRepository(items ...employee.Employee) *fakeEmployeeRepository {
	repo := &fakeEmployeeRepository{items: map[string]employee.Employee{}}
	for _, e := range items {
		repo.items[e.ID] = e
	}
	return repo
}

func (f *fakeEmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.items[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepository) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	for _, e := range f.items {
		if e.UserID != nil && *e.UserID == userID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	e.ID = "emp-new"
	f.items[e.ID] = e
	return e, nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) error {
	e, ok := f.items[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if req.FullName != nil {
		e.FullName = *req.FullName
	}
	if req.Position != nil {
		e.Position = *req.Position
	}
	f.items[id] = e
	return nil
}

func (f *fakeEmployeeRepository) UpdatePhoto(ctx context.Context, id string, key *string) error {
	e := f.items[id]
	e.ProfilePhotoURL = key
	f.items[id] = e
	return nil
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeEmployeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	f.last = filter
	var out []employee.Employee
	for _, e := range f.items {
		if filter.OnlyID != nil && e.ID != *filter.OnlyID {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEmployeeRepository) LinkUser(ctx context.Context, id string, userID string) error {
	e := f.items[id]
	e.UserID = &userID
	f.items[id] = e
	return nil
}

type fakeDepartmentRepository struct {
	department.DepartmentRepository
}

func (fakeDepartmentRepository) GetByID(ctx context.Context, id string) (department.Department, error) {
	if id != departmentID {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return department.Department{ID: id, Name: "Operations"}, nil
}

type fakeUserRepository struct {
	user.UserRepository
}

func (fakeUserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	if !strings.HasPrefix(id, "u-") {
		return user.User{}, user.ErrUserNotFound
	}
	return user.User{ID: id}, nil
}

type fakeFileService struct {
	deleted []string
}

func (f *fakeFileService) UploadProfilePhoto(ctx context.Context, employeeID string, r io.Reader, filename string) (string, error) {
	return "profile_photos/" + employeeID + "/new.jpg", nil
}

func (f *fakeFileService) DeleteFile(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeFileService) URL(key string) string {
	return "http://files.test/" + key
}

type fakeAudit struct {
	audit.Service
	actions []string
}

func (f *fakeAudit) Log(ctx context.Context, userID *string, action, details string) {
	f.actions = append(f.actions, action)
}

const departmentID = "11111111-1111-4111-8111-111111111111"

func ptr(s string) *string { return &s }

func hrContext() context.Context {
	return jwt.NewContext(context.Background(), jwt.Claims{UserID: "u-hr", Role: user.RoleHR})
}

func staffContext(employeeID string) context.Context {
	return jwt.NewContext(context.Background(), jwt.Claims{UserID: "u-staff", EmployeeID: employeeID, Role: user.RoleStaff})
}

func newTestService(repo *fakeEmployeeRepository) (*EmployeeServiceImpl, *fakeFileService, *fakeAudit) {
	files := &fakeFileService{}
	auditSvc := &fakeAudit{}
	svc := NewEmployeeService(repo, fakeDepartmentRepository{}, fakeUserRepository{}, files, auditSvc).(*EmployeeServiceImpl)
	return svc, files, auditSvc
}

func TestCreateEmployee(t *testing.T) {
	repo := newFakeEmployeeRepository()
	svc, _, auditSvc := newTestService(repo)

	resp, err := svc.CreateEmployee(hrContext(), employee.CreateEmployeeRequest{
		DepartmentID: ptr(departmentID),
		FullName:     " Juan Dela Cruz ",
		Position:     "Driver",
		Email:        "Juan@Example.com",
		DateHired:    "2024-01-15",
		DailyRate:    decimal.RequireFromString("645.555"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Juan Dela Cruz", resp.FullName)
	assert.Equal(t, "juan@example.com", resp.Email)
	assert.Equal(t, "645.56", resp.DailyRate)
	assert.Equal(t, "2024-01-15", resp.DateHired)
	assert.Equal(t, []string{audit.ActionEmployeeCreated}, auditSvc.actions)
}

func TestCreateEmployee_Errors(t *testing.T) {
	valid := employee.CreateEmployeeRequest{FullName: "A", DateHired: "2024-01-15"}

	tests := []struct {
		name    string
		ctx     context.Context
		mutate  func(r *employee.CreateEmployeeRequest)
		wantErr error
	}{
		{"staff forbidden", staffContext("emp-1"), func(r *employee.CreateEmployeeRequest) {}, user.ErrInsufficientPermissions},
		{"unknown department", hrContext(), func(r *employee.CreateEmployeeRequest) {
			r.DepartmentID = ptr("00000000-0000-4000-8000-000000000000")
		}, department.ErrDepartmentNotFound},
		{"unknown user", hrContext(), func(r *employee.CreateEmployeeRequest) {
			r.UserID = ptr("00000000-0000-4000-8000-000000000001")
		}, user.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(newFakeEmployeeRepository())
			req := valid
			tt.mutate(&req)

			_, err := svc.CreateEmployee(tt.ctx, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateEmployee_ValidationErrors(t *testing.T) {
	svc, _, _ := newTestService(newFakeEmployeeRepository())

	future := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	_, err := svc.CreateEmployee(hrContext(), employee.CreateEmployeeRequest{
		DateHired: future,
		DailyRate: decimal.NewFromInt(-1),
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "full_name")
	assert.Contains(t, fields, "daily_rate")
	assert.Contains(t, fields, "date_hired")
}

func TestGetEmployee_Access(t *testing.T) {
	repo := newFakeEmployeeRepository(
		employee.Employee{ID: "emp-1", FullName: "Own"},
		employee.Employee{ID: "emp-2", FullName: "Other"},
	)
	svc, _, _ := newTestService(repo)

	resp, err := svc.GetEmployee(staffContext("emp-1"), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Own", resp.FullName)

	_, err = svc.GetEmployee(staffContext("emp-1"), "emp-2")
	assert.ErrorIs(t, err, employee.ErrUnauthorized)

	_, err = svc.GetEmployee(hrContext(), "emp-2")
	assert.NoError(t, err)
}

func TestListEmployees_StaffSeesOnlySelf(t *testing.T) {
	repo := newFakeEmployeeRepository(
		employee.Employee{ID: "emp-1"},
		employee.Employee{ID: "emp-2"},
	)
	svc, _, _ := newTestService(repo)

	resp, err := svc.ListEmployees(staffContext("emp-1"), employee.EmployeeFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Employees, 1)
	assert.Equal(t, "emp-1", resp.Employees[0].ID)
	assert.Equal(t, 20, repo.last.Limit)

	resp, err = svc.ListEmployees(hrContext(), employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, 1, resp.TotalPages)
}

func TestListEmployees_NoEmployeeRecord(t *testing.T) {
	svc, _, _ := newTestService(newFakeEmployeeRepository(employee.Employee{ID: "emp-1"}))

	resp, err := svc.ListEmployees(staffContext(""), employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Empty(t, resp.Employees)
}

func TestUploadPhoto_ReplacesPrevious(t *testing.T) {
	repo := newFakeEmployeeRepository(employee.Employee{ID: "emp-1", ProfilePhotoURL: ptr("profile_photos/emp-1/old.jpg")})
	svc, files, _ := newTestService(repo)

	resp, err := svc.UploadPhoto(staffContext("emp-1"), "emp-1", strings.NewReader("img"), "me.png")
	require.NoError(t, err)

	require.NotNil(t, resp.ProfilePhotoURL)
	assert.Equal(t, "http://files.test/profile_photos/emp-1/new.jpg", *resp.ProfilePhotoURL)
	assert.Equal(t, []string{"profile_photos/emp-1/old.jpg"}, files.deleted)

	_, err = svc.UploadPhoto(staffContext("emp-2"), "emp-1", strings.NewReader("img"), "me.png")
	assert.ErrorIs(t, err, employee.ErrUnauthorized)
}

func TestDeleteEmployee(t *testing.T) {
	repo := newFakeEmployeeRepository(employee.Employee{ID: "emp-1", ProfilePhotoURL: ptr("k.jpg")})
	svc, files, auditSvc := newTestService(repo)

	require.NoError(t, svc.DeleteEmployee(hrContext(), "emp-1"))
	assert.Empty(t, repo.items)
	assert.Equal(t, []string{"k.jpg"}, files.deleted)
	assert.Equal(t, []string{audit.ActionEmployeeDeleted}, auditSvc.actions)

	assert.ErrorIs(t, svc.DeleteEmployee(hrContext(), "emp-1"), employee.ErrEmployeeNotFound)
}

func TestLinkUser(t *testing.T) {
	repo := newFakeEmployeeRepository(
		employee.Employee{ID: "emp-1"},
		employee.Employee{ID: "emp-2", UserID: ptr("u-taken")},
	)
	svc, _, _ := newTestService(repo)

	resp, err := svc.LinkUser(hrContext(), "emp-1", "u-new")
	require.NoError(t, err)
	require.NotNil(t, resp.UserID)
	assert.Equal(t, "u-new", *resp.UserID)

	_, err = svc.LinkUser(hrContext(), "emp-1", "u-taken")
	assert.ErrorIs(t, err, employee.ErrUserAlreadyLinked)

	_, err = svc.LinkUser(hrContext(), "emp-1", "nobody")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
