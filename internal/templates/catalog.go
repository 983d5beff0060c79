package templates

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// ID identifies a branded offer letter template.
type ID string

const (
	Hookkapaani        ID = "hookkapaani"
	Decoarte           ID = "decoarte"
	Melange            ID = "melange"
	MelangeSenior      ID = "melange_senior"
	Urbanmistrii       ID = "urbanmistrii"
	UrbanmistriiSenior ID = "urbanmistrii_senior"
)

const seniorSuffix = "_senior"

// Mapping routes a lowercase company-name fragment to a base template.
type Mapping struct {
	Alias    string `yaml:"alias" json:"alias"`
	Template ID     `yaml:"template" json:"template"`
}

// CatalogConfig is the raw shape of a catalog, either built in or read from YAML.
// Mapping order is significant: the first alias contained in a company name wins.
type CatalogConfig struct {
	Templates      []ID      `yaml:"templates"`
	Mappings       []Mapping `yaml:"mappings"`
	SeniorKeywords []string  `yaml:"senior_keywords"`
	SeniorBases    []ID      `yaml:"senior_bases"`
	Default        ID        `yaml:"default"`
}

// DefaultCatalogConfig returns the built-in company table.
func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Templates: []ID{
			Hookkapaani,
			Decoarte,
			Melange,
			MelangeSenior,
			Urbanmistrii,
			UrbanmistriiSenior,
		},
		Mappings: []Mapping{
			{Alias: "hookkapaani", Template: Hookkapaani},
			{Alias: "hookkapani", Template: Hookkapaani},
			{Alias: "hookkapaani studios", Template: Hookkapaani},
			{Alias: "decoarte", Template: Decoarte},
			{Alias: "melange", Template: Melange},
			{Alias: "urbanmistrii", Template: Urbanmistrii},
			{Alias: "urban mistrii", Template: Urbanmistrii},
			{Alias: "urbanmistri", Template: Urbanmistrii},
		},
		SeniorKeywords: []string{"senior", "lead", "manager", "director", "head", "vp", "chief", "principal"},
		SeniorBases:    []ID{Melange, Urbanmistrii},
		Default:        Hookkapaani,
	}
}

// Catalog is the immutable routing table shared by every request.
type Catalog struct {
	templates      []ID
	members        map[ID]struct{}
	mappings       []Mapping
	seniorKeywords []string
	seniorBases    map[ID]struct{}
	def            ID
}

// NewCatalog validates cfg and freezes it into a Catalog.
func NewCatalog(cfg CatalogConfig) (*Catalog, error) {
	if len(cfg.Templates) == 0 {
		return nil, fmt.Errorf("catalog: no templates declared")
	}

	c := &Catalog{
		members:     make(map[ID]struct{}, len(cfg.Templates)),
		seniorBases: make(map[ID]struct{}, len(cfg.SeniorBases)),
		def:         cfg.Default,
	}

	for _, id := range cfg.Templates {
		if id == "" {
			return nil, fmt.Errorf("catalog: empty template id")
		}
		if _, dup := c.members[id]; dup {
			return nil, fmt.Errorf("catalog: duplicate template %q", id)
		}
		c.members[id] = struct{}{}
		c.templates = append(c.templates, id)
	}

	if !c.Valid(cfg.Default) {
		return nil, fmt.Errorf("catalog: default template %q is not declared", cfg.Default)
	}

	for _, m := range cfg.Mappings {
		alias := strings.ToLower(strings.TrimSpace(m.Alias))
		if alias == "" {
			return nil, fmt.Errorf("catalog: empty alias for template %q", m.Template)
		}
		if !c.Valid(m.Template) {
			return nil, fmt.Errorf("catalog: alias %q maps to undeclared template %q", m.Alias, m.Template)
		}
		c.mappings = append(c.mappings, Mapping{Alias: alias, Template: m.Template})
	}

	for _, base := range cfg.SeniorBases {
		if !c.Valid(base) || !c.Valid(base+seniorSuffix) {
			return nil, fmt.Errorf("catalog: senior base %q needs both %q and %q declared", base, base, base+seniorSuffix)
		}
		c.seniorBases[base] = struct{}{}
	}

	for _, kw := range cfg.SeniorKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			c.seniorKeywords = append(c.seniorKeywords, kw)
		}
	}

	return c, nil
}

// DefaultCatalog returns the built-in catalog. It panics only if the built-in table is broken.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultCatalogConfig())
	if err != nil {
		panic(err)
	}
	return c
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var cfg CatalogConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	return NewCatalog(cfg)
}

// Templates returns the template ids in declaration order.
func (c *Catalog) Templates() []ID {
	return append([]ID(nil), c.templates...)
}

// Mappings returns the company table in scan order.
func (c *Catalog) Mappings() []Mapping {
	return append([]Mapping(nil), c.mappings...)
}

// SeniorKeywords returns the lowercase keywords that trigger a senior variant.
func (c *Catalog) SeniorKeywords() []string {
	return append([]string(nil), c.seniorKeywords...)
}

// SeniorBases returns the base templates that have a senior variant, in declaration order.
func (c *Catalog) SeniorBases() []ID {
	var out []ID
	for _, id := range c.templates {
		if _, ok := c.seniorBases[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Default is the template used when nothing valid was resolved.
func (c *Catalog) Default() ID {
	return c.def
}

// Valid reports whether id belongs to the enumeration.
func (c *Catalog) Valid(id ID) bool {
	_, ok := c.members[id]
	return ok
}

// Match returns the base template of the first alias contained in company.
func (c *Catalog) Match(company string) (ID, bool) {
	lower := strings.ToLower(company)
	if lower == "" {
		return "", false
	}
	for _, m := range c.mappings {
		if strings.Contains(lower, m.Alias) {
			return m.Template, true
		}
	}
	return "", false
}

// IsSenior reports whether position contains any seniority keyword.
func (c *Catalog) IsSenior(position string) bool {
	lower := strings.ToLower(position)
	for _, kw := range c.seniorKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Route re-derives the template for a candidate. The company table overrides
// whatever the model proposed; senior titles escalate bases that have a senior
// variant; anything left outside the enumeration collapses to the default.
func (c *Catalog) Route(company, position string, proposed ID) ID {
	id := proposed

	if base, ok := c.Match(company); ok {
		id = base
		if _, senior := c.seniorBases[base]; senior && c.IsSenior(position) {
			id = base + seniorSuffix
		}
	}

	if !c.Valid(id) {
		return c.def
	}
	return id
}
