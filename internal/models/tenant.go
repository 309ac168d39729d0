package models

import "time"

// Tenant is the database representation of a registered company.
type Tenant struct {
	TenantID  string
	Name      string
	Slug      string
	CreatedAt time.Time
}

// User is the database representation of a login principal.
type User struct {
	UserID       string
	TenantID     string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	CreatedAt    time.Time
}
