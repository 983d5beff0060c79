package document

import (
	"time"

	"offer-automation/internal/offer"
)

// Field names. Each field is declared once and expanded to all of its
// placeholder spellings when a template is rendered.
const (
	CandidateName   = "candidate_name"
	CandidateEmail  = "candidate_email"
	CandidatePhone  = "candidate_phone"
	JobTitle        = "job_title"
	JoiningDate     = "joining_date"
	ProbationSalary = "probation_salary"
	ProbationPeriod = "probation_period"
	CurrentDate     = "current_date"
	InterviewDate   = "interview_date"
	AcceptanceDate  = "acceptance_date"
	OfferValidity   = "offer_validity_days"
	OngoingSalary   = "ongoing_salary"
	Company         = "company"
)

const (
	DefaultProbationMonths = "3"
	DefaultValidityDays    = "7"
	DateLayout             = "2 January 2006"
)

// Field is one semantic value with the placeholder spellings templates use for it.
type Field struct {
	Name    string
	Aliases []string
}

// Fields lists every placeholder the merger fills, in render order.
var Fields = []Field{
	{CandidateName, []string{"Candidate Name", "CANDIDATE_NAME"}},
	{CandidateEmail, []string{"Candidate Email", "CANDIDATE_EMAIL"}},
	{CandidatePhone, []string{"Candidate Phone", "CANDIDATE_PHONE"}},
	{JobTitle, []string{"Job Title", "JOB_TITLE"}},
	{JoiningDate, []string{"Joining Date", "JOINING_DATE"}},
	{ProbationSalary, []string{"Probation Monthly Salary", "MONTHLY_SALARY"}},
	{ProbationPeriod, []string{"Probation Period Months", "Probation period", "PROBATION_PERIOD"}},
	{CurrentDate, []string{"Current Date", "CURRENT_DATE"}},
	{InterviewDate, []string{"Interview Date", "INTERVIEW_DATE"}},
	{AcceptanceDate, []string{"Acceptance Date", "ACCEPTANCE_DATE"}},
	{OfferValidity, []string{"Offer Validity Days", "OFFER_EXPIRY_DAYS"}},
	{OngoingSalary, []string{"ongoing_salary", "ONGOING_SALARY"}},
	{Company, []string{"company", "COMPANY"}},
}

// Values maps field names to their rendered text.
type Values map[string]string

// Set overrides one field.
func (v Values) Set(field, value string) Values {
	v[field] = value
	return v
}

// Placeholders expands v into placeholder text -> value for every alias.
func (v Values) Placeholders() map[string]string {
	out := make(map[string]string, len(Fields)*2)
	for _, f := range Fields {
		for _, alias := range f.Aliases {
			out["{{"+alias+"}}"] = v[f.Name]
		}
	}
	return out
}

// FormatDate renders t the way offer letters print dates, e.g. "1 March 2026".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValuesFor fills every field from rec, applying the fixed defaults.
func ValuesFor(rec offer.CandidateRecord, now time.Time, defaultCompany string) Values {
	today := FormatDate(now)

	return Values{
		CandidateName:   rec.Name,
		CandidateEmail:  rec.Email,
		CandidatePhone:  rec.Phone,
		JobTitle:        rec.Position,
		JoiningDate:     rec.StartDate,
		ProbationSalary: firstNonEmpty(rec.ProbationSalary, rec.Salary),
		ProbationPeriod: firstNonEmpty(rec.ProbationPeriod, DefaultProbationMonths),
		CurrentDate:     today,
		InterviewDate:   firstNonEmpty(rec.TestDate, today),
		AcceptanceDate:  "",
		OfferValidity:   DefaultValidityDays,
		OngoingSalary:   firstNonEmpty(rec.OngoingSalary, rec.Salary),
		Company:         firstNonEmpty(rec.Company, defaultCompany),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
