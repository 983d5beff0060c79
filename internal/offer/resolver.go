package offer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"offer-automation/internal/templates"
)

// Completer is the extraction collaborator: one system prompt, one user
// message, one text answer.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Resolver turns free text into a CandidateRecord. Text fields come from the
// model as-is; the template is always re-derived from company and position.
type Resolver struct {
	llm     Completer
	catalog *templates.Catalog
	prompt  string
	cache   *Cache
}

func NewResolver(llm Completer, catalog *templates.Catalog) *Resolver {
	return &Resolver{
		llm:     llm,
		catalog: catalog,
		prompt:  buildSystemPrompt(catalog),
	}
}

// WithCache reuses results for repeated text. A nil cache disables reuse.
func (r *Resolver) WithCache(c *Cache) *Resolver {
	r.cache = c
	return r
}

// Catalog returns the routing table the resolver was built with.
func (r *Resolver) Catalog() *templates.Catalog {
	return r.catalog
}

// Resolve extracts and corrects a candidate record from text.
func (r *Resolver) Resolve(ctx context.Context, text string) (*CandidateRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ExtractionError{Op: "input", Err: ErrEmptyText}
	}
	if !utf8.ValidString(text) {
		return nil, &ExtractionError{Op: "input", Err: errors.New("candidate text is not valid UTF-8")}
	}

	if r.cache != nil {
		if rec, ok := r.cache.Get(text); ok {
			log.Debug().Str("template", string(rec.Template)).Msg("extraction cache hit")
			return rec, nil
		}
	}

	raw, err := r.llm.Complete(ctx, r.prompt, userMessage(text))
	if err != nil {
		return nil, &ExtractionError{Op: "llm", Err: err}
	}

	rec, err := decodeRecord(stripFences(raw))
	if err != nil {
		log.Debug().Str("raw", raw).Msg("unparseable extraction output")
		return nil, &ExtractionError{Op: "parse", Err: err}
	}

	proposed := rec.Template
	rec.Template = r.catalog.Route(rec.Company, rec.Position, proposed)

	if rec.Template != proposed {
		log.Info().
			Str("company", rec.Company).
			Str("position", rec.Position).
			Str("proposed", string(proposed)).
			Str("template", string(rec.Template)).
			Msg("template corrected")
	}

	if r.cache != nil {
		r.cache.Set(text, rec)
	}

	return rec, nil
}

// stripFences removes a leading ```json or ``` and a trailing ``` fence.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// decodeRecord parses a JSON object into a record. Scalars of any JSON type
// are kept as their literal text, so a numeric salary survives unchanged.
func decodeRecord(text string) (*CandidateRecord, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("failed to parse LLM response: expected a JSON object")
	}
	if dec.More() {
		return nil, fmt.Errorf("failed to parse LLM response: trailing data after JSON object")
	}

	get := func(key string) string {
		return scalar(fields[key])
	}

	return &CandidateRecord{
		Name:            get("name"),
		Email:           get("email"),
		Phone:           get("phone"),
		Position:        get("position"),
		StartDate:       get("start_date"),
		Salary:          get("salary"),
		Company:         get("company"),
		Template:        templates.ID(get("template")),
		ProbationPeriod: get("probation_period"),
		ProbationSalary: get("probation_salary"),
		OngoingSalary:   get("ongoing_salary"),
		TestDate:        get("test_date"),
	}, nil
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(bytes.TrimSpace(b))
	}
}
