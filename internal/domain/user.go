package domain

import "time"

// Role is the closed set of roles known to the helpdesk.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleUser      Role = "user"
	RoleDeveloper Role = "developer"
	RoleTester    Role = "tester"
)

// IsValid reports whether the role is a member of the closed enum.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser, RoleDeveloper, RoleTester:
		return true
	}
	return false
}

// User is the domain model for accounts that create or work tickets.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        *string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRef is the projected view of a referenced user, resolved explicitly
// by the service layer after each query.
type UserRef struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// Ref returns the projection of the user.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Caller is the resolved identity attached to every core operation.
// It is taken from the verified token as-is; the core trusts it.
type Caller struct {
	ID   string
	Role Role
}
