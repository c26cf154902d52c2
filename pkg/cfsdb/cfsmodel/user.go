package cfsmodel

import "time"

// Role is a user's platform-wide role. Ordering matters: permission checks
// compare roles, so higher roles must sort after lower ones.
type Role int

const (
	RoleUnknown Role = iota
	RoleGuest
	RoleStudent
	RoleNonEditingTeacher
	RoleTeacher
	RoleDegAdmin
	RoleCtrAdmin
	RoleInsAdmin
	RoleSysAdmin
)

func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleStudent:
		return "student"
	case RoleNonEditingTeacher:
		return "non_editing_teacher"
	case RoleTeacher:
		return "teacher"
	case RoleDegAdmin:
		return "degree_admin"
	case RoleCtrAdmin:
		return "centre_admin"
	case RoleInsAdmin:
		return "institution_admin"
	case RoleSysAdmin:
		return "system_admin"
	default:
		return "unknown"
	}
}

type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	ApiToken  string `json:"-"`
	Password  string `json:"-"`
	Role      Role   `json:"role"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
