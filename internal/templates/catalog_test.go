package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteCompanyOverridesModel(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		name     string
		company  string
		position string
		proposed ID
		want     ID
	}{
		{"exact name", "Hookkapaani", "Designer", Melange, Hookkapaani},
		{"misspelling", "HOOKKAPANI pvt ltd", "Designer", Decoarte, Hookkapaani},
		{"studio suffix", "Hookkapaani Studios", "Intern", "", Hookkapaani},
		{"decoarte", "The Decoarte Company", "Architect", Urbanmistrii, Decoarte},
		{"melange junior", "The Melange Studio", "Junior Architect", MelangeSenior, Melange},
		{"urban spaced", "Urban Mistrii", "Site Engineer", Hookkapaani, Urbanmistrii},
		{"urban short", "urbanmistri", "Draftsman", "bogus", Urbanmistrii},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Route(tt.company, tt.position, tt.proposed))
		})
	}
}

func TestRouteSeniorEscalation(t *testing.T) {
	c := DefaultCatalog()

	keywords := []string{"Senior Designer", "Team LEAD", "Project Manager", "Director", "Head of Design", "VP Sales", "Chief Architect", "Principal Engineer"}
	for _, pos := range keywords {
		assert.Equal(t, MelangeSenior, c.Route("Melange", pos, Melange), pos)
		assert.Equal(t, UrbanmistriiSenior, c.Route("Urbanmistrii", pos, Hookkapaani), pos)
		assert.Equal(t, Hookkapaani, c.Route("Hookkapaani", pos, Hookkapaani), pos)
		assert.Equal(t, Decoarte, c.Route("Decoarte", pos, Decoarte), pos)
	}
}

func TestRouteNoMatchKeepsValidProposal(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, MelangeSenior, c.Route("Acme Corp", "Intern", MelangeSenior))
	assert.Equal(t, Melange, c.Route("Acme Corp", "Senior Manager", Melange), "escalation needs a company match")
	assert.Equal(t, Hookkapaani, c.Route("Acme Corp", "Intern", "acme"))
	assert.Equal(t, Hookkapaani, c.Route("", "", ""))
}

func TestMatchFirstAliasWins(t *testing.T) {
	c, err := NewCatalog(CatalogConfig{
		Templates: []ID{"a", "b"},
		Mappings: []Mapping{
			{Alias: "Melange Studio", Template: "b"},
			{Alias: "melange", Template: "a"},
		},
		Default: "a",
	})
	require.NoError(t, err)

	id, ok := c.Match("The MELANGE studio")
	require.True(t, ok)
	assert.Equal(t, ID("b"), id)

	id, ok = c.Match("melange interiors")
	require.True(t, ok)
	assert.Equal(t, ID("a"), id)

	_, ok = c.Match("other")
	assert.False(t, ok)
}

func TestNewCatalogValidation(t *testing.T) {
	base := DefaultCatalogConfig

	tests := []struct {
		name   string
		mutate func(*CatalogConfig)
	}{
		{"no templates", func(c *CatalogConfig) { c.Templates = nil }},
		{"bad default", func(c *CatalogConfig) { c.Default = "nope" }},
		{"bad mapping", func(c *CatalogConfig) { c.Mappings = append(c.Mappings, Mapping{Alias: "x", Template: "nope"}) }},
		{"empty alias", func(c *CatalogConfig) { c.Mappings = append(c.Mappings, Mapping{Alias: " ", Template: Melange}) }},
		{"senior without variant", func(c *CatalogConfig) { c.SeniorBases = append(c.SeniorBases, Decoarte) }},
		{"duplicate template", func(c *CatalogConfig) { c.Templates = append(c.Templates, Melange) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			_, err := NewCatalog(cfg)
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
templates: [alpha, alpha_senior, beta]
mappings:
  - alias: Alpha Works
    template: alpha
  - alias: beta
    template: beta
senior_keywords: [Senior]
senior_bases: [alpha]
default: beta
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)

	assert.Equal(t, []ID{"alpha", "alpha_senior", "beta"}, c.Templates())
	assert.Equal(t, ID("beta"), c.Default())
	assert.Equal(t, []string{"senior"}, c.SeniorKeywords())
	assert.Equal(t, ID("alpha_senior"), c.Route("alpha works ltd", "Senior Dev", ""))
	assert.Equal(t, ID("beta"), c.Route("unknown", "", "gamma"))
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates: [a]\ndefault: b\n"), 0o644))
	_, err = LoadCatalog(path)
	assert.Error(t, err)
}

func TestCatalogAccessorsCopy(t *testing.T) {
	c := DefaultCatalog()

	ids := c.Templates()
	ids[0] = "mutated"
	assert.Equal(t, Hookkapaani, c.Templates()[0])

	assert.Equal(t, []ID{Melange, Urbanmistrii}, c.SeniorBases())
	assert.Len(t, c.Mappings(), 8)
}
