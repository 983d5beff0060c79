package offer

import (
	"fmt"
	"strings"

	"offer-automation/internal/templates"
)

// buildSystemPrompt renders the extraction rules for catalog. The prompt is
// built once per Resolver since the catalog never changes.
func buildSystemPrompt(c *templates.Catalog) string {
	var rules strings.Builder
	n := 0

	// group aliases per target, keeping first-seen order
	var order []templates.ID
	aliases := map[templates.ID][]string{}
	for _, m := range c.Mappings() {
		if _, seen := aliases[m.Template]; !seen {
			order = append(order, m.Template)
		}
		aliases[m.Template] = append(aliases[m.Template], fmt.Sprintf("%q", m.Alias))
	}
	for _, id := range order {
		n++
		fmt.Fprintf(&rules, "%d. %s MUST map to template ID: %q.\n", n, strings.Join(aliases[id], ", "), id)
	}

	if bases := c.SeniorBases(); len(bases) > 0 {
		names := make([]string, len(bases))
		for i, b := range bases {
			names[i] = fmt.Sprintf("%q", b)
		}
		n++
		fmt.Fprintf(&rules, "%d. For %s, if the position is senior (contains any of: %s), use the \"_senior\" suffix (e.g. \"%s_senior\").\n",
			n, strings.Join(names, " or "), strings.Join(c.SeniorKeywords(), ", "), bases[0])
	}

	ids := make([]string, 0, len(c.Templates()))
	for _, id := range c.Templates() {
		ids = append(ids, string(id))
	}

	return fmt.Sprintf(`You are an HR data extraction agent. Extract candidate data from unstructured text and pick the company offer letter template.

COMPANY MAPPING RULES (company names are case-insensitive):
%s
Be precise: a template for the wrong company produces the wrong legal document.

JSON fields to extract:
- name: Full name
- email: Email address (or "")
- phone: Phone number (or "")
- position: Job title
- start_date: Joining date as written (e.g. "1 March, 2026")
- salary: Monthly salary as written (e.g. "45,000")
- company: Exact company name from the text
- template: One of: %s
- probation_period: Probation length in months, only if stated
- probation_salary: Salary during probation, only if stated
- ongoing_salary: Salary after probation, only if stated
- test_date: Interview or test date, only if stated

If no company rule applies use %q.
Return ONLY raw JSON (no markdown, no explanation).`, rules.String(), strings.Join(ids, ", "), c.Default())
}

// userMessage wraps the raw text for the user turn.
func userMessage(text string) string {
	return "Candidate Text: " + text
}
