package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"offer-automation/internal/document"
	"offer-automation/internal/offer"
	"offer-automation/internal/signature"
)

// SignatureRequest is a candidate's signed acceptance.
type SignatureRequest struct {
	Candidate *offer.CandidateRecord `json:"candidate"`
	Signature string                 `json:"signature" example:"data:image/png;base64,iVBORw0KGgo..."`
	Date      string                 `json:"date" example:"3 March 2026"`
}

// SignatureResponse points at the signed offer.
type SignatureResponse struct {
	Success        bool   `json:"success" example:"true"`
	ID             string `json:"id"`
	Message        string `json:"message"`
	SignedOfferURL string `json:"signed_offer_url"`
}

// SubmitSignatureHandler stores a signature and produces the signed offer
// @Summary Submit signature
// @Description Store the candidate's PNG signature and render the offer with the acceptance date filled in and the signature embedded
// @Tags signatures
// @Accept json
// @Produce json
// @Param request body SignatureRequest true "Signature submission"
// @Success 200 {object} SignatureResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /submit-signature [post]
func (a *API) SubmitSignatureHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req SignatureRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4*maxJSONBody)).Decode(&req); err != nil {
		a.metrics.signature("invalid")
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Candidate.Validate(); err != nil {
		a.metrics.signature("invalid")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, err := signature.DecodePNG(req.Signature)
	if err != nil {
		a.metrics.signature("invalid")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	date := req.Date
	if date == "" {
		date = a.generator.Today()
	}

	o, err := a.generate(*req.Candidate, document.Values{document.AcceptanceDate: date})
	if err != nil {
		a.metrics.signature("error")
		writeError(w, statusFor(err), err.Error())
		return
	}

	signed, err := document.Sign(o.Data, img, date)
	if err != nil {
		a.metrics.signature("error")
		log.Error().Err(err).Str("candidate", req.Candidate.Name).Msg("failed to embed signature")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	receipt, err := a.signatures.Save(img, document.FileName(req.Candidate.Name, true), signed)
	if err != nil {
		a.metrics.signature("error")
		log.Error().Err(err).Msg("failed to store signature")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.metrics.signature("success")

	writeJSON(w, http.StatusOK, SignatureResponse{
		Success:        true,
		ID:             receipt.ID,
		Message:        "Signature submitted successfully",
		SignedOfferURL: "/api/signed-offer/" + receipt.ID,
	})
}

// SignedOfferHandler downloads a signed offer
// @Summary Download signed offer
// @Tags signatures
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param id path string true "Submission id"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /signed-offer/{id} [get]
func (a *API) SignedOfferHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	path, err := a.signatures.Offer(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, signature.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Signed offer not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	f, err := os.Open(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	name := filepath.Base(path)
	w.Header().Set("Content-Type", document.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}
