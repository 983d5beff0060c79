package api

import (
	"offer-automation/internal/document"
	"offer-automation/internal/intake"
	"offer-automation/internal/offer"
	"offer-automation/internal/signature"
	"offer-automation/internal/templates"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

type API struct {
	resolver   *offer.Resolver
	generator  *document.Generator
	selector   *templates.Selector
	catalog    *templates.Catalog
	parser     *intake.Parser
	signatures *signature.Store
	metrics    *Metrics
	parseRate  int // extraction calls per minute, 0 = unlimited
}

// Deps are the collaborators the handlers need.
type Deps struct {
	Resolver   *offer.Resolver
	Generator  *document.Generator
	Selector   *templates.Selector
	Signatures *signature.Store
	Metrics    *Metrics
	ParseRate  int
}

func NewAPI(d Deps) *API {
	metrics := d.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	return &API{
		resolver:   d.Resolver,
		generator:  d.Generator,
		selector:   d.Selector,
		catalog:    d.Resolver.Catalog(),
		parser:     intake.NewParser(),
		signatures: d.Signatures,
		metrics:    metrics,
		parseRate:  d.ParseRate,
	}
}
