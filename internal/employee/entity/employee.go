package entity

import "time"

const (
	StatusDisabled = 0
	StatusEnabled  = 1
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Employee represents a back-office account row in the `employee` table.
// Password always holds the digest produced by the configured hasher.
type Employee struct {
	ID         int64     `db:"id" json:"id"`
	Username   string    `db:"username" json:"username"`
	Name       string    `db:"name" json:"name"`
	Password   string    `db:"password" json:"password,omitempty"`
	Phone      string    `db:"phone" json:"phone"`
	Sex        string    `db:"sex" json:"sex"`
	IDNumber   string    `db:"id_number" json:"idNumber"`
	Status     int       `db:"status" json:"status"`
	Role       string    `db:"role" json:"role"`
	CreateTime time.Time `db:"create_time" json:"createTime"`
	UpdateTime time.Time `db:"update_time" json:"updateTime"`
	CreateUser int64     `db:"create_user" json:"createUser"`
	UpdateUser int64     `db:"update_user" json:"updateUser"`
}

// Enabled reports whether the account may log in.
func (e *Employee) Enabled() bool { return e.Status == StatusEnabled }

// ValidStatus reports whether s is one of the two account states.
func ValidStatus(s int) bool { return s == StatusEnabled || s == StatusDisabled }

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool { return r == RoleAdmin || r == RoleStaff }
