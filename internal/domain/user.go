package domain

import "time"

// UserRole is the role carried in a session.
type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleDriver UserRole = "DRIVER"
	UserRoleUser   UserRole = "USER"
)

// User represents an account. Accounts are owned by the auth service.
type User struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Role      UserRole
	CreatedAt time.Time
}
