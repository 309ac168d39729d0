package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/tallybooks/tallybooks/internal/core/domain"
)

// chartAccountDef is one row of the fixed default chart of accounts.
type chartAccountDef struct {
	code       string
	name       string
	accType    domain.AccountType
	parentCode string
}

// defaultChartOfAccounts is seeded verbatim at company registration and via
// the explicit reseed operation. Order matters: parents precede children so
// parent ids can be resolved in a single pass.
var defaultChartOfAccounts = []chartAccountDef{
	{"1000", "Assets", domain.Asset, ""},
	{"1100", "Current Assets", domain.Asset, "1000"},
	{"1101", "Cash", domain.Asset, "1100"},
	{"1102", "Bank Account", domain.Asset, "1100"},
	{"1103", "Accounts Receivable", domain.Asset, "1100"},
	{"1200", "Fixed Assets", domain.Asset, "1000"},
	{"1201", "Equipment", domain.Asset, "1200"},
	{"1202", "Vehicles", domain.Asset, "1200"},
	{"2000", "Liabilities", domain.Liability, ""},
	{"2100", "Current Liabilities", domain.Liability, "2000"},
	{"2101", "Accounts Payable", domain.Liability, "2100"},
	{"2102", "Taxes Payable", domain.Liability, "2100"},
	{"3000", "Equity", domain.Equity, ""},
	{"3001", "Owner's Equity", domain.Equity, "3000"},
	{"4000", "Revenue", domain.Revenue, ""},
	{"4001", "Sales Revenue", domain.Revenue, "4000"},
	{"5000", "Expenses", domain.Expense, ""},
	{"5001", "Cost of Goods Sold", domain.Expense, "5000"},
	{"5002", "Salaries Expense", domain.Expense, "5000"},
	{"5003", "Rent Expense", domain.Expense, "5000"},
	{"5004", "Utilities Expense", domain.Expense, "5000"},
}

// DefaultChartAccounts materializes the fixed default chart for a tenant,
// resolving each entry's parent id by the already-generated id of its
// parent's code. The returned slice preserves seeding order.
func DefaultChartAccounts(tenantID string, now time.Time) []domain.Account {
	idByCode := make(map[string]string, len(defaultChartOfAccounts))
	accounts := make([]domain.Account, 0, len(defaultChartOfAccounts))

	for _, def := range defaultChartOfAccounts {
		id := uuid.NewString()
		idByCode[def.code] = id
		accounts = append(accounts, domain.Account{
			AccountID:       id,
			TenantID:        tenantID,
			Code:            def.code,
			Name:            def.name,
			AccountType:     def.accType,
			ParentAccountID: idByCode[def.parentCode],
			IsActive:        true,
			AuditFields: domain.AuditFields{
				CreatedAt: now,
				UpdatedAt: now,
			},
		})
	}
	return accounts
}
