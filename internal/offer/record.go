package offer

import "offer-automation/internal/templates"

// CandidateRecord is the structured result of extraction. It lives for one
// request; dates, salaries and phone numbers stay free text.
type CandidateRecord struct {
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	Phone           string       `json:"phone"`
	Position        string       `json:"position"`
	StartDate       string       `json:"start_date"`
	Salary          string       `json:"salary"`
	Company         string       `json:"company"`
	Template        templates.ID `json:"template"`
	ProbationPeriod string       `json:"probation_period,omitempty"`
	ProbationSalary string       `json:"probation_salary,omitempty"`
	OngoingSalary   string       `json:"ongoing_salary,omitempty"`
	TestDate        string       `json:"test_date,omitempty"`
}

// Validate checks the minimum needed to render an offer.
func (r *CandidateRecord) Validate() error {
	if r == nil || trimmed(r.Name) == "" {
		return &ValidationError{Field: "name", Message: "Missing candidate data"}
	}
	return nil
}
