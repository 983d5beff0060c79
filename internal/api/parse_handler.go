package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"offer-automation/internal/intake"
	"offer-automation/internal/offer"
)

// ParseRequest carries raw candidate text.
type ParseRequest struct {
	Prompt string `json:"prompt" example:"Offer for Priya Sharma as Senior Manager at Urbanmistrii, joining 1 March 2026, salary 80,000"`
}

// ParseHandler extracts a candidate record from free text
// @Summary Extract candidate data
// @Description Extract structured candidate fields from free text with the LLM and resolve the offer template
// @Tags offers
// @Accept json
// @Produce json
// @Param request body ParseRequest true "Candidate text"
// @Success 200 {object} ParseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /parse [post]
func (a *API) ParseHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	// prompt is decoded loosely so a non-string value is a 400, not a decode error
	var body struct {
		Prompt any `json:"prompt"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&body); err != nil {
		a.metrics.extraction("input_error")
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	prompt, ok := body.Prompt.(string)
	if !ok || prompt == "" {
		a.metrics.extraction("input_error")
		writeError(w, http.StatusBadRequest, "No prompt provided")
		return
	}

	rec, err := a.resolve(r, prompt)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ParseResponse{Success: true, Data: rec})
}

// ParseFileHandler extracts a candidate record from an uploaded brief
// @Summary Extract candidate data from a file
// @Description Upload a candidate brief (PDF, DOCX, DOC, ODT, RTF or TXT), extract its text and resolve it like /parse
// @Tags offers
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Candidate brief"
// @Success 200 {object} ParseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /parse/file [post]
func (a *API) ParseFileHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	if err := r.ParseMultipartForm(intake.MaxUploadSize); err != nil {
		a.metrics.extraction("input_error")
		writeError(w, http.StatusBadRequest, "file too large or invalid (max 10MB)")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		a.metrics.extraction("input_error")
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if !intake.Supported(header.Filename) {
		a.metrics.extraction("input_error")
		writeError(w, http.StatusBadRequest, "invalid file type (supported: PDF, DOCX, DOC, ODT, RTF, TXT)")
		return
	}

	brief, err := a.parser.ParseFile(header.Filename, file)
	if err != nil {
		a.metrics.extraction("input_error")
		status := http.StatusInternalServerError
		if errors.Is(err, intake.ErrUnsupportedType) {
			status = http.StatusBadRequest
		}
		writeError(w, status, fmt.Sprintf("failed to read brief: %v", err))
		return
	}

	log.Info().Str("file", brief.Filename).Int("text_length", len(brief.FullText)).Msg("brief parsed")

	rec, err := a.resolve(r, brief.FullText)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ParseResponse{
		Success: true,
		Data:    rec,
		Source: &SourceInfo{
			Filename:   brief.Filename,
			FileType:   brief.FileType,
			FileSize:   brief.FileSize,
			TextLength: len(brief.FullText),
		},
	})
}

func (a *API) resolve(r *http.Request, text string) (*offer.CandidateRecord, error) {
	rec, err := a.resolver.Resolve(r.Context(), text)
	if err != nil {
		outcome := "error"
		var exErr *offer.ExtractionError
		if errors.As(err, &exErr) {
			outcome = exErr.Op + "_error"
		}
		a.metrics.extraction(outcome)
		log.Error().Err(err).Str("outcome", outcome).Msg("candidate extraction failed")
		return nil, err
	}

	a.metrics.extraction("success")
	log.Info().Str("template", string(rec.Template)).Str("company", rec.Company).Msg("candidate extracted")
	return rec, nil
}
