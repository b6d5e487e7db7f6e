package domain

import "time"

// UserRole determines what a user may see and do.
type UserRole string

const (
	UserRoleRenter UserRole = "renter"
	UserRoleOwner  UserRole = "owner"
	UserRoleAdmin  UserRole = "admin"
)

// User represents a marketplace account. Authentication itself is handled by
// an external identity provider; this record only carries identity and role.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      UserRole
	CreatedAt time.Time
}
