package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rpggio/zotswipe/internal/domain/listing"
	"github.com/rpggio/zotswipe/internal/domain/menu"
)

// Error codes returned in ErrorBody.Code.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeNotSubmittable   = "NOT_SUBMITTABLE"
	CodeNotFound         = "NOT_FOUND"
	CodeMalformed        = "MALFORMED_RECORD"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeUnknownLocation  = "UNKNOWN_LOCATION"
	CodeMenuUnavailable  = "MENU_UNAVAILABLE"
	CodeInternal         = "INTERNAL"
)

// ErrorBody is the JSON error payload.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error ErrorBody `json:"error"`
}

const maxBodyBytes = 1 << 20

// decodeJSON parses a single JSON object from body.
func decodeJSON(body io.Reader, out any) error {
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	return nil
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// writeDomainError maps a domain error onto a status and error code.
func writeDomainError(w http.ResponseWriter, err error) {
	status, body := classify(err)
	writeJSON(w, status, errorResponse{Error: body})
}

func classify(err error) (int, ErrorBody) {
	switch {
	case errors.Is(err, listing.ErrValidation):
		return http.StatusUnprocessableEntity, ErrorBody{Code: CodeNotSubmittable, Message: listing.SubmitMessage}
	case errors.Is(err, listing.ErrNotFound):
		return http.StatusNotFound, ErrorBody{Code: CodeNotFound, Message: "listing not found"}
	case errors.Is(err, listing.ErrDecode):
		return http.StatusInternalServerError, ErrorBody{Code: CodeMalformed, Message: "stored listing is malformed"}
	case errors.Is(err, listing.ErrPersistence):
		return http.StatusServiceUnavailable, ErrorBody{Code: CodeStoreUnavailable, Message: "listing store unavailable"}
	case errors.Is(err, menu.ErrUnknownLocation):
		return http.StatusNotFound, ErrorBody{Code: CodeUnknownLocation, Message: "unknown dining hall"}
	case errors.Is(err, menu.ErrUpstream), errors.Is(err, menu.ErrDecode):
		return http.StatusBadGateway, ErrorBody{Code: CodeMenuUnavailable, Message: "menu service unavailable"}
	default:
		return http.StatusInternalServerError, ErrorBody{Code: CodeInternal, Message: "internal error"}
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(errorResponse{Error: ErrorBody{Code: CodeInternal, Message: "failed to encode response"}})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}
