package dto

// TrialBalanceParams defines query parameters for the trial balance report.
// Both bounds are optional and inclusive.
type TrialBalanceParams struct {
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}
