package models

import "time"

// AccountType mirrors domain.AccountType for DB storage.
type AccountType string

// Account is the database representation of a chart-of-accounts row.
type Account struct {
	AccountID       string
	TenantID        string
	Code            string
	Name            string
	AccountType     AccountType
	ParentAccountID string // empty when the column is NULL
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
