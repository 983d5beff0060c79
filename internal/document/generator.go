package document

import (
	"bytes"
	"fmt"
	"time"

	"code.sajari.com/docconv"
	"github.com/rs/zerolog/log"

	"offer-automation/internal/offer"
	"offer-automation/internal/templates"
)

// Offer is a rendered offer letter.
type Offer struct {
	Template *templates.Selection
	FileName string
	Data     []byte
}

// Generator selects the branded template for a record and merges it.
type Generator struct {
	catalog        *templates.Catalog
	selector       *templates.Selector
	defaultCompany string
	now            func() time.Time
}

func NewGenerator(catalog *templates.Catalog, selector *templates.Selector, defaultCompany string) *Generator {
	return &Generator{
		catalog:        catalog,
		selector:       selector,
		defaultCompany: defaultCompany,
		now:            time.Now,
	}
}

// WithClock replaces the clock used for the current date.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Today is the current date as printed in offers.
func (g *Generator) Today() string {
	return FormatDate(g.now())
}

// Generate renders the offer for rec. overrides replace computed fields.
func (g *Generator) Generate(rec offer.CandidateRecord, overrides Values) (*Offer, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	// records come straight from clients here, so the id is checked again
	id := rec.Template
	if !g.catalog.Valid(id) {
		log.Warn().Str("template", string(id)).Msg("unknown template, using default")
		id = g.catalog.Default()
	}

	sel, err := g.selector.Select(id)
	if err != nil {
		return nil, err
	}

	values := ValuesFor(rec, g.now(), g.defaultCompany)
	for k, v := range overrides {
		values.Set(k, v)
	}

	data, err := Render(sel.Path, values)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", sel.Path, err)
	}

	log.Info().
		Str("template", string(id)).
		Str("file", sel.Path).
		Int64("template_size", sel.Size).
		Bool("fallback", sel.Fallback).
		Int("bytes", len(data)).
		Msg("offer letter rendered")

	return &Offer{
		Template: sel,
		FileName: FileName(rec.Name, false),
		Data:     data,
	}, nil
}

// Text extracts the plain text of a rendered offer for previews.
func Text(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("extract offer text: %w", err)
	}
	return text, nil
}
