package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"offer-automation/internal/offer"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Missing candidate data"`
}

// ParseResponse carries an extracted candidate record.
type ParseResponse struct {
	Success bool                   `json:"success" example:"true"`
	Data    *offer.CandidateRecord `json:"data"`
	Source  *SourceInfo            `json:"source,omitempty"`
}

// SourceInfo describes an uploaded brief.
type SourceInfo struct {
	Filename   string `json:"filename"`
	FileType   string `json:"file_type"`
	FileSize   int64  `json:"file_size"`
	TextLength int    `json:"text_length"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var vErr *offer.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest
	}
	var exErr *offer.ExtractionError
	if errors.As(err, &exErr) && exErr.Op == "input" {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}
