package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// User is a roster entry from the user directory: the set of people the
// monitoring and report components account for, whether or not they have any
// attendance activity.
type User struct {
	ID         string
	FullName   string
	Role       Role
	Department *string
	BranchID   *string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
