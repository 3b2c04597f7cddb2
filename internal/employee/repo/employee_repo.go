package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ovaphlow/pitchfork/service-admin-go/internal/employee/entity"
)

// ErrDuplicate is returned when an insert or update hits a unique constraint.
var ErrDuplicate = errors.New("duplicate key")

const columns = `id, username, name, password, phone, sex, id_number, status, role,
	create_time, update_time, create_user, update_user`

// EmployeeRepo provides data access for the employee table using sqlx.
// Lookups that match nothing return sql.ErrNoRows unchanged.
type EmployeeRepo struct {
	db *sqlx.DB
}

func NewEmployeeRepo(db *sqlx.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

// Create inserts a new employee row and returns the number of rows affected.
func (r *EmployeeRepo) Create(ctx context.Context, e *entity.Employee) (int64, error) {
	const q = `INSERT INTO employee (id, username, name, password, phone, sex, id_number, status, role,
		create_time, update_time, create_user, update_user)
		VALUES (:id, :username, :name, :password, :phone, :sex, :id_number, :status, :role,
		:create_time, :update_time, :create_user, :update_user)`
	res, err := r.db.NamedExecContext(ctx, q, e)
	if err != nil {
		return 0, translate(err)
	}
	return res.RowsAffected()
}

// GetByUsername fetches by exact, case-sensitive username.
func (r *EmployeeRepo) GetByUsername(ctx context.Context, username string) (*entity.Employee, error) {
	q := `SELECT ` + columns + ` FROM employee WHERE username = $1`
	var row entity.Employee
	if err := r.db.GetContext(ctx, &row, q, username); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByID fetches a full employee row.
func (r *EmployeeRepo) GetByID(ctx context.Context, id int64) (*entity.Employee, error) {
	q := `SELECT ` + columns + ` FROM employee WHERE id = $1`
	var row entity.Employee
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// Page returns one page of employees whose name contains name (all when
// empty), newest first, plus the total number of matches.
func (r *EmployeeRepo) Page(ctx context.Context, name string, limit, offset int) ([]entity.Employee, int64, error) {
	const filter = ` FROM employee WHERE ($1::text = '' OR name LIKE '%' || $1::text || '%')`
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*)`+filter, name); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}
	rows := []entity.Employee{}
	if total == 0 {
		return rows, 0, nil
	}
	q := `SELECT ` + columns + filter + ` ORDER BY create_time DESC, id DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, q, name, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("select employees: %w", err)
	}
	return rows, total, nil
}

// UpdatePassword stores a new digest and returns the rows affected.
func (r *EmployeeRepo) UpdatePassword(ctx context.Context, id int64, digest string, updateUser int64) (int64, error) {
	const q = `UPDATE employee SET password = $2, update_time = NOW(), update_user = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, digest, updateUser)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateStatus enables or disables an account and returns the rows affected.
func (r *EmployeeRepo) UpdateStatus(ctx context.Context, id int64, status int, updateUser int64) (int64, error) {
	const q = `UPDATE employee SET status = $2, update_time = NOW(), update_user = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, status, updateUser)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Update overwrites the profile fields that are non-empty in e. Password and
// status have their own statements and are never touched here.
func (r *EmployeeRepo) Update(ctx context.Context, e *entity.Employee) (int64, error) {
	const q = `UPDATE employee SET
		username = COALESCE(NULLIF(:username, ''), username),
		name = COALESCE(NULLIF(:name, ''), name),
		phone = COALESCE(NULLIF(:phone, ''), phone),
		sex = COALESCE(NULLIF(:sex, ''), sex),
		id_number = COALESCE(NULLIF(:id_number, ''), id_number),
		role = COALESCE(NULLIF(:role, ''), role),
		update_time = :update_time,
		update_user = :update_user
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, q, e)
	if err != nil {
		return 0, translate(err)
	}
	return res.RowsAffected()
}

// translate maps unique violations to ErrDuplicate.
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	}
	return err
}
