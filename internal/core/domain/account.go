package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account represents a single node of a tenant's chart of accounts.
// (tenantID, code) is unique; ParentAccountID is empty for root accounts.
type Account struct {
	AccountID       string      `json:"accountID"`
	TenantID        string      `json:"tenantID"`
	Code            string      `json:"code"`
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID string      `json:"parentAccountID,omitempty"`
	IsActive        bool        `json:"isActive"`
	AuditFields
}

// AccountTreeNode is an account with its children attached, code-ordered.
type AccountTreeNode struct {
	Account
	Children []AccountTreeNode `json:"children"`
}
