package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/phrasebook/internal/api/shared"
	"github.com/phrazzld/phrasebook/internal/domain"
	"github.com/phrazzld/phrasebook/internal/domain/srs"
	"github.com/phrazzld/phrasebook/internal/generation"
	"github.com/phrazzld/phrasebook/internal/service/auth"
	"github.com/phrazzld/phrasebook/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case err == nil:
		return http.StatusOK

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case domain.IsValidationError(err),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, srs.ErrInvalidOutcome),
		errors.Is(err, generation.ErrEmptyText),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	// Autofill errors
	case errors.Is(err, generation.ErrUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		validationErrs validator.ValidationErrors
		domainErr      *domain.ValidationError
	)

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, store.ErrPhraseNotFound):
		return "Phrase not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, store.ErrDuplicate):
		return "Phrase already exists"

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid phrase ID"
	case errors.As(err, &domainErr):
		// Domain validation messages name only the field and the rule.
		return "Invalid " + domainErr.Field + ": " + domainErr.Message
	case errors.Is(err, domain.ErrInvalidStatus):
		return "Invalid status"
	case errors.Is(err, srs.ErrInvalidOutcome):
		return `Invalid action: must be "know" or "dontKnow"`
	case errors.Is(err, generation.ErrEmptyText):
		return "Invalid text: required field"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid phrase data"

	case errors.Is(err, generation.ErrUnavailable):
		return "Autofill is not configured"
	case errors.Is(err, generation.ErrSuggestionFailed):
		return "Failed to generate suggestion"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short message naming
// the first offending field.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}
	fe := errs[0]
	return fmt.Sprintf("Invalid %s: %s", jsonFieldName(fe), getValidationTagMessage(fe.Tag(), fe.Param()))
}

func jsonFieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "PersonalNote":
		return "personalNote"
	case "":
		return "request"
	}
	name := []byte(fe.Field())
	if name[0] >= 'A' && name[0] <= 'Z' {
		name[0] += 'a' - 'A'
	}
	return string(name)
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "required field"
	case "max":
		return "must be at most " + param + " characters"
	case "min":
		return "too short"
	case "oneof":
		return "must be one of " + param
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status code and safe message for err. A non-empty
// fallback replaces the generic message for unexpected (500) errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
