package document

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offer-automation/internal/document/doctest"
	"offer-automation/internal/offer"
	"offer-automation/internal/templates"
)

const templateBody = "Dear {{Candidate Name}}, welcome to {{COMPANY}} as {{Job Title}} from {{JOINING_DATE}}."

func TestRenderBytesReplacesBothSpellings(t *testing.T) {
	tpl := doctest.Build("{{company}} | {{CURRENT_DATE}}",
		templateBody,
		"Probation: {{Probation Period Months}} months at {{MONTHLY_SALARY}}. Valid {{Offer Validity Days}} days.",
		"Signed: {{Acceptance Date}} / {{CANDIDATE_NAME}}",
	)

	v := ValuesFor(offer.CandidateRecord{
		Name:      "Priya & Co",
		Position:  "Senior Manager",
		StartDate: "1 March 2026",
		Salary:    "80,000",
		Company:   "Urbanmistrii",
	}, fixedNow, "StructCrew")

	out, err := RenderBytes(tpl, v)
	require.NoError(t, err)

	body, err := doctest.Part(out, "word/document.xml")
	require.NoError(t, err)
	assert.Contains(t, body, "Dear Priya &amp; Co, welcome to Urbanmistrii as Senior Manager from 1 March 2026.")
	assert.Contains(t, body, "Probation: 3 months at 80,000. Valid 7 days.")
	assert.Contains(t, body, "Signed:  / Priya &amp; Co")
	assert.NotContains(t, body, "{{")

	header, err := doctest.Part(out, "word/header1.xml")
	require.NoError(t, err)
	assert.Contains(t, header, "Urbanmistrii | 1 March 2026")

	methods, err := doctest.Methods(out)
	require.NoError(t, err)
	assert.Equal(t, zip.Deflate, methods["word/document.xml"])
}

func TestRenderBytesRejectsGarbage(t *testing.T) {
	_, err := RenderBytes([]byte("not a zip"), Values{})
	assert.Error(t, err)
}

func TestRenderMissingFile(t *testing.T) {
	_, err := Render(filepath.Join(t.TempDir(), "nope.docx"), Values{})
	assert.Error(t, err)
}

func newTestGenerator(t *testing.T, root string) *Generator {
	t.Helper()
	return NewGenerator(templates.DefaultCatalog(), templates.NewSelector(root, "offer_template.docx"), "StructCrew").
		WithClock(func() time.Time { return fixedNow })
}

func TestGenerateAllOptionalFieldsAbsent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, doctest.Write(filepath.Join(root, "offer_template.docx"), "",
		"{{Candidate Name}} / {{Probation period}} / {{OFFER_EXPIRY_DAYS}} / {{COMPANY}}"))

	o, err := newTestGenerator(t, root).Generate(offer.CandidateRecord{Name: "Priya Sharma"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "offer_letter_Priya_Sharma.docx", o.FileName)
	assert.True(t, o.Template.Fallback)
	assert.Equal(t, templates.Hookkapaani, o.Template.ID)

	body, err := doctest.Part(o.Data, "word/document.xml")
	require.NoError(t, err)
	assert.Contains(t, body, "Priya Sharma / 3 / 7 / StructCrew")
}

func TestGenerateUsesBrandedTemplateAndOverrides(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, string(templates.UrbanmistriiSenior))
	require.NoError(t, doctest.Write(filepath.Join(dir, "small.docx"), "", "small"))
	require.NoError(t, doctest.Write(filepath.Join(dir, "full.docx"), "",
		"Branded senior offer for {{Candidate Name}}, accepted {{ACCEPTANCE_DATE}}, padding padding padding padding"))

	o, err := newTestGenerator(t, root).Generate(offer.CandidateRecord{
		Name:     "Priya",
		Template: templates.UrbanmistriiSenior,
	}, Values{AcceptanceDate: "3 March 2026"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "full.docx"), o.Template.Path)
	body, err := doctest.Part(o.Data, "word/document.xml")
	require.NoError(t, err)
	assert.Contains(t, body, "Branded senior offer for Priya, accepted 3 March 2026")
}

func TestGenerateUnknownTemplateUsesDefaultId(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, doctest.Write(filepath.Join(root, string(templates.Hookkapaani), "hk.docx"), "", "HK {{Candidate Name}}"))

	o, err := newTestGenerator(t, root).Generate(offer.CandidateRecord{Name: "A", Template: "../../etc"}, nil)
	require.NoError(t, err)
	assert.Equal(t, templates.Hookkapaani, o.Template.ID)
}

func TestGenerateErrors(t *testing.T) {
	g := newTestGenerator(t, t.TempDir())

	_, err := g.Generate(offer.CandidateRecord{}, nil)
	var vErr *offer.ValidationError
	assert.True(t, errors.As(err, &vErr))

	_, err = g.Generate(offer.CandidateRecord{Name: "A", Template: templates.Melange}, nil)
	var nf *templates.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestGenerateCorruptTemplate(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "offer_template.docx"), []byte("junk"), 0o644))

	_, err := newTestGenerator(t, root).Generate(offer.CandidateRecord{Name: "A"}, nil)
	assert.Error(t, err)
}

func TestTextOfRenderedOffer(t *testing.T) {
	out, err := RenderBytes(doctest.Build("", templateBody), Values{CandidateName: "Priya", Company: "Decoarte", JobTitle: "Designer"})
	require.NoError(t, err)

	text, err := Text(out)
	require.NoError(t, err)
	assert.Contains(t, text, "Dear Priya, welcome to Decoarte as Designer from .")
}
