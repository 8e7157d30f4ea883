package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/pkg/logger"
)

const maxJSONBody = 1 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string   `json:"error"`
	Kind   string   `json:"kind,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError maps a PortalError kind to its status. Anything else is a 500 with a generic message.
func respondError(w http.ResponseWriter, log *logger.Logger, err error) {
	var pe *models.PortalError
	if !errors.As(err, &pe) {
		log.Error().Err(err).Msg("unhandled error")
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	status := statusFor(pe.Kind)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("kind", string(pe.Kind)).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("kind", string(pe.Kind)).Msg("request rejected")
	}

	respondJSON(w, status, ErrorResponse{Error: pe.Message, Kind: string(pe.Kind), Fields: pe.Fields})
}

func statusFor(kind models.ErrorKind) int {
	switch kind {
	case models.KindInputTooLarge:
		return http.StatusRequestEntityTooLarge
	case models.KindUnsupportedType:
		return http.StatusUnsupportedMediaType
	case models.KindExtractionFailed:
		return http.StatusUnprocessableEntity
	case models.KindValidationFailed:
		return http.StatusBadRequest
	case models.KindStorageFailed:
		return http.StatusServiceUnavailable
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// decodeJSON reads a bounded JSON body into dest
func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return models.NewValidationFailed([]string{"request body is required"})
		}
		return models.NewValidationFailed([]string{"request body is not valid JSON: " + err.Error()})
	}
	return nil
}

// respondAttachment writes body as a downloadable file
func respondAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
