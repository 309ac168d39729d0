package domain

import "time"

// Tenant is the isolation boundary: every account, entry, invoice and
// payment belongs to exactly one tenant.
type Tenant struct {
	TenantID  string    `json:"tenantID"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRole defines the role a user holds within their tenant.
type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleMember UserRole = "MEMBER"
)

// User is a login principal scoped to a single tenant.
type User struct {
	UserID       string    `json:"userID"`
	TenantID     string    `json:"tenantID"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
