package dto

import (
	"github.com/tallybooks/tallybooks/internal/core/domain"
)

// RegisterCompanyRequest defines the data needed to register a new company.
// Registration creates the tenant, its admin user and the default chart of
// accounts in one step.
type RegisterCompanyRequest struct {
	CompanyName string `json:"companyName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Name        string `json:"name"`
}

// LoginRequest defines the credentials for a login attempt.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	UserID   string          `json:"id"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Role     domain.UserRole `json:"role"`
	TenantID string          `json:"tenantId"`
}

// TenantResponse is the public view of a tenant.
type TenantResponse struct {
	TenantID string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
}

// AuthResponse is returned from both registration and login.
type AuthResponse struct {
	AccessToken string         `json:"accessToken"`
	User        UserResponse   `json:"user"`
	Tenant      TenantResponse `json:"tenant"`
}

// ToUserResponse converts a domain.User to its public view.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:   u.UserID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		TenantID: u.TenantID,
	}
}

// ToTenantResponse converts a domain.Tenant to its public view.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID: t.TenantID,
		Name:     t.Name,
		Slug:     t.Slug,
	}
}
