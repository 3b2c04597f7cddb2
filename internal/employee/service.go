package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-admin-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-admin-go/internal/employee/entity"
	employeerepo "github.com/ovaphlow/pitchfork/service-admin-go/internal/employee/repo"
	"github.com/ovaphlow/pitchfork/service-admin-go/internal/result"
	"github.com/ovaphlow/pitchfork/service-admin-go/pkg/utilities"
)

// DefaultPassword is the initial password of every new employee.
const DefaultPassword = "123456"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Store is the credential store the service reads and writes.
type Store interface {
	Create(ctx context.Context, e *entity.Employee) (int64, error)
	GetByUsername(ctx context.Context, username string) (*entity.Employee, error)
	GetByID(ctx context.Context, id int64) (*entity.Employee, error)
	Page(ctx context.Context, name string, limit, offset int) ([]entity.Employee, int64, error)
	UpdatePassword(ctx context.Context, id int64, digest string, updateUser int64) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status int, updateUser int64) (int64, error)
	Update(ctx context.Context, e *entity.Employee) (int64, error)
}

// EmployeeService authenticates employees and administers their accounts.
type EmployeeService struct {
	repo   Store
	hasher PasswordHasher
	ids    *utilities.IDGenerator
	now    func() time.Time
}

func NewEmployeeService(db *sqlx.DB, r Store, hasher PasswordHasher, ids *utilities.IDGenerator) *EmployeeService {
	if r == nil {
		r = employeerepo.NewEmployeeRepo(db)
	}
	if hasher == nil {
		hasher = MD5Hasher{}
	}
	if ids == nil {
		ids, _ = utilities.NewIDGenerator(1)
	}
	return &EmployeeService{repo: r, hasher: hasher, ids: ids, now: time.Now}
}

// Login checks username, then password, then status, stopping at the first
// failure. The returned employee still carries its digest.
func (s *EmployeeService) Login(ctx context.Context, username, password string) (*entity.Employee, error) {
	e, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load employee %q: %w", username, err)
	}
	if !s.hasher.Verify(e.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !e.Enabled() {
		return nil, ErrAccountLocked
	}
	return e, nil
}

// EditPassword replaces the digest of employee id after checking the old
// password. Every failure, including a missing row, is ErrPasswordEditFailed.
func (s *EmployeeService) EditPassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrInvalidInput
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPasswordEditFailed
		}
		return fmt.Errorf("%w: %v", ErrPasswordEditFailed, err)
	}
	if !s.hasher.Verify(e.Password, oldPassword) {
		return ErrPasswordEditFailed
	}
	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordEditFailed, err)
	}
	n, err := s.repo.UpdatePassword(ctx, id, digest, actor(ctx, id))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordEditFailed, err)
	}
	if n == 0 {
		return ErrPasswordEditFailed
	}
	return nil
}

// Create adds an enabled employee with the default password and returns its id.
func (s *EmployeeService) Create(ctx context.Context, in *entity.Employee) (int64, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || strings.TrimSpace(in.Name) == "" {
		return 0, ErrInvalidInput
	}
	if in.Role == "" {
		in.Role = entity.RoleStaff
	}
	if !entity.ValidRole(in.Role) {
		return 0, ErrInvalidInput
	}
	digest, err := s.hasher.Hash(DefaultPassword)
	if err != nil {
		return 0, err
	}
	now := s.now()
	uid := actor(ctx, 0)
	in.ID = s.ids.Next()
	in.Password = digest
	in.Status = entity.StatusEnabled
	in.CreateTime, in.UpdateTime = now, now
	in.CreateUser, in.UpdateUser = uid, uid

	n, err := s.repo.Create(ctx, in)
	if err != nil {
		if errors.Is(err, employeerepo.ErrDuplicate) {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}
	if n == 0 {
		return 0, ErrPersistence
	}
	return in.ID, nil
}

// Page lists employees matching name. Digests are stripped from the records.
func (s *EmployeeService) Page(ctx context.Context, name string, page, pageSize int) (result.PageResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	rows, total, err := s.repo.Page(ctx, strings.TrimSpace(name), pageSize, (page-1)*pageSize)
	if err != nil {
		return result.PageResult{}, err
	}
	for i := range rows {
		rows[i].Password = ""
	}
	return result.PageResult{Total: total, Records: rows}, nil
}

// SetStatus enables (1) or disables (0) an account.
func (s *EmployeeService) SetStatus(ctx context.Context, id int64, status int) error {
	if !entity.ValidStatus(status) {
		return ErrInvalidInput
	}
	n, err := s.repo.UpdateStatus(ctx, id, status, actor(ctx, 0))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPersistence
	}
	return nil
}

// Get returns one employee with the digest masked.
func (s *EmployeeService) Get(ctx context.Context, id int64) (*entity.Employee, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	e.Password = "****"
	return e, nil
}

// Update changes profile fields of an existing employee.
func (s *EmployeeService) Update(ctx context.Context, in *entity.Employee) error {
	if in.ID == 0 {
		return ErrInvalidInput
	}
	if in.Role != "" && !entity.ValidRole(in.Role) {
		return ErrInvalidInput
	}
	in.Password = ""
	in.UpdateTime = s.now()
	in.UpdateUser = actor(ctx, 0)
	n, err := s.repo.Update(ctx, in)
	if err != nil {
		if errors.Is(err, employeerepo.ErrDuplicate) {
			return ErrUsernameTaken
		}
		return err
	}
	if n == 0 {
		return ErrPersistence
	}
	return nil
}

// actor returns the acting employee from ctx, or fallback when the call did
// not pass the request filter.
func actor(ctx context.Context, fallback int64) int64 {
	if id, ok := auth.EmployeeIDFrom(ctx); ok {
		return id
	}
	return fallback
}
