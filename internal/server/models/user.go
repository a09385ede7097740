package models

import "time"

// Role is the closed set of user roles gating mutations.
type Role string

const (
	RoleAgent           Role = "agent"
	RoleSupervisor      Role = "supervisor"
	RoleValidationAgent Role = "validation_agent"
	RoleAdmin           Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAgent, RoleSupervisor, RoleValidationAgent, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64
	UserName     string
	PasswordHash []byte
	Role         Role
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	IsActive     bool
	CreatedAt    time.Time
}

// Actor is the authenticated identity passed explicitly into every mutating
// service operation. The core trusts this input completely.
type Actor struct {
	ID   int64
	Role Role
}
