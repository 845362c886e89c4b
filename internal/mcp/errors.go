package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/zotswipe/internal/domain/listing"
	"github.com/rpggio/zotswipe/internal/domain/menu"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrInvalidParams is returned when tool arguments fail to decode.
var ErrInvalidParams = errors.New("invalid tool arguments")

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, ErrInvalidParams):
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error(), RecoveryHint: "Check the tool input schema"}
	case errors.Is(err, listing.ErrValidation):
		return &APIError{Code: "NOT_SUBMITTABLE", Message: listing.SubmitMessage, RecoveryHint: "Call get_listing_form for valid options"}
	case errors.Is(err, listing.ErrNotFound):
		return &APIError{Code: "LISTING_NOT_FOUND", Message: "listing not found", RecoveryHint: "Call list_recent_listings for current ids"}
	case errors.Is(err, listing.ErrDecode):
		return &APIError{Code: "LISTING_MALFORMED", Message: "stored listing is malformed"}
	case errors.Is(err, listing.ErrPersistence):
		return &APIError{Code: "STORE_UNAVAILABLE", Message: "listing store unavailable", RecoveryHint: "Retry later"}
	case errors.Is(err, menu.ErrUnknownLocation):
		return &APIError{Code: "UNKNOWN_LOCATION", Message: "unknown dining hall", RecoveryHint: "Call get_all_menus to list halls"}
	case errors.Is(err, menu.ErrUpstream), errors.Is(err, menu.ErrDecode):
		return &APIError{Code: "MENU_UNAVAILABLE", Message: "menu service unavailable", RecoveryHint: "Retry later"}
	default:
		return nil
	}
}
