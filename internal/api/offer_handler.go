package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"offer-automation/internal/document"
	"offer-automation/internal/offer"
	"offer-automation/internal/templates"
)

// PreviewData is the text preview of a rendered offer.
type PreviewData struct {
	Name          string       `json:"name"`
	Position      string       `json:"position"`
	StartDate     string       `json:"start_date"`
	InterviewDate string       `json:"interview_date"`
	Salary        string       `json:"salary"`
	Template      templates.ID `json:"template"`
	TemplateFile  string       `json:"template_file"`
	Text          string       `json:"text"`
}

// PreviewResponse wraps PreviewData.
type PreviewResponse struct {
	Success bool         `json:"success" example:"true"`
	Data    *PreviewData `json:"data"`
}

// TemplateInfo describes the file currently resolved for a template id.
type TemplateInfo struct {
	ID       templates.ID `json:"id"`
	File     string       `json:"file,omitempty"`
	Size     int64        `json:"size,omitempty"`
	Fallback bool         `json:"fallback"`
	Error    string       `json:"error,omitempty"`
}

// TemplatesResponse lists template resolutions.
type TemplatesResponse struct {
	Success bool           `json:"success" example:"true"`
	Default templates.ID   `json:"default"`
	Data    []TemplateInfo `json:"data"`
}

// decodeRecord reads a CandidateRecord body and checks the name.
func decodeRecord(w http.ResponseWriter, r *http.Request) (*offer.CandidateRecord, bool) {
	var rec offer.CandidateRecord
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "Missing candidate data")
		return nil, false
	}
	if err := rec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return &rec, true
}

// GenerateHandler renders the offer letter for a candidate
// @Summary Generate offer letter
// @Description Merge the candidate record into its branded template and download the .docx
// @Tags offers
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param candidate body offer.CandidateRecord true "Candidate record"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /generate-docx [post]
func (a *API) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	rec, ok := decodeRecord(w, r)
	if !ok {
		return
	}

	o, err := a.generate(*rec, nil)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", document.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", o.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(o.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(o.Data); err != nil {
		log.Error().Err(err).Msg("failed to write offer letter")
	}
}

// PreviewHandler renders the offer and returns its text
// @Summary Preview offer letter
// @Description Render the offer exactly as for download and return its plain text
// @Tags offers
// @Accept json
// @Produce json
// @Param candidate body offer.CandidateRecord true "Candidate record"
// @Success 200 {object} PreviewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /offer-preview [post]
func (a *API) PreviewHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	rec, ok := decodeRecord(w, r)
	if !ok {
		return
	}

	o, err := a.generate(*rec, nil)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	text, err := document.Text(o.Data)
	if err != nil {
		log.Error().Err(err).Msg("offer preview failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	interview := rec.TestDate
	if interview == "" {
		interview = a.generator.Today()
	}

	writeJSON(w, http.StatusOK, PreviewResponse{
		Success: true,
		Data: &PreviewData{
			Name:          rec.Name,
			Position:      rec.Position,
			StartDate:     rec.StartDate,
			InterviewDate: interview,
			Salary:        rec.Salary,
			Template:      o.Template.ID,
			TemplateFile:  o.Template.Path,
			Text:          text,
		},
	})
}

// TemplatesHandler lists template ids and the file each resolves to
// @Summary List templates
// @Description List every template id with the document file the selector currently picks for it
// @Tags templates
// @Produce json
// @Success 200 {object} TemplatesResponse
// @Router /templates [get]
func (a *API) TemplatesHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	ids := a.catalog.Templates()
	items := make([]TemplateInfo, 0, len(ids))
	for _, id := range ids {
		info := TemplateInfo{ID: id}
		sel, err := a.selector.Select(id)
		if err != nil {
			info.Error = err.Error()
		} else {
			info.File = sel.Path
			info.Size = sel.Size
			info.Fallback = sel.Fallback
		}
		items = append(items, info)
	}

	writeJSON(w, http.StatusOK, TemplatesResponse{
		Success: true,
		Default: a.catalog.Default(),
		Data:    items,
	})
}

func (a *API) generate(rec offer.CandidateRecord, overrides document.Values) (*document.Offer, error) {
	o, err := a.generator.Generate(rec, overrides)
	if err != nil {
		// client-supplied ids are not label values until checked
		id := rec.Template
		if !a.catalog.Valid(id) {
			id = a.catalog.Default()
		}
		a.metrics.document(string(id), "error")
		log.Error().Err(err).Str("candidate", rec.Name).Str("template", string(rec.Template)).Msg("offer generation failed")
		return nil, err
	}
	a.metrics.document(string(o.Template.ID), "success")
	return o, nil
}
