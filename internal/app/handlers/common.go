package handlers

import (
	"errors"
	"net/http"

	"github.com/quillsign/quillsign/internal/domain/services"
	"github.com/quillsign/quillsign/internal/infrastructure/repositories/postgresql"
)

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
}

// classifyError maps domain errors onto the API's error taxonomy: bad input
// is 400, missing things are 404, out-of-order operations are 409,
// credential failures are 401, and access problems are 403.
func classifyError(err error) (int, string) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, "invalid_request"
	case isNotFoundError(err):
		return http.StatusNotFound, "not_found"
	case isSequenceError(err):
		return http.StatusConflict, "conflict"
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrSessionExpired):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, services.ErrNotInvolved),
		errors.Is(err, services.ErrCannotSign):
		return http.StatusForbidden, "access_denied"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		services.ErrIncompleteRow,
		services.ErrDuplicateEmail,
		services.ErrNoRecipients,
		services.ErrBadReorder,
		services.ErrNoSignees,
		services.ErrUnknownAssignee,
		services.ErrInvalidPage,
		services.ErrInvalidFieldType,
		services.ErrTextTooLong,
		services.ErrInvalidTextColor,
		services.ErrEmptyPrefillText,
		services.ErrDegenerateGeometry,
		services.ErrEmptyArtifact,
		services.ErrEmptyReason,
		services.ErrReasonTooLong,
		services.ErrEmptyReasonText,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isNotFoundError(err error) bool {
	for _, target := range []error{
		postgresql.ErrDocumentNotFound,
		postgresql.ErrFieldNotFound,
		postgresql.ErrNotificationNotFound,
		postgresql.ErrUserNotFound,
		services.ErrSessionNotFound,
		services.ErrFieldNotFound,
		services.ErrReasonNotFound,
		services.ErrNotificationNotNew,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isSequenceError(err error) bool {
	for _, target := range []error{
		services.ErrAlreadySent,
		services.ErrSessionFinished,
		services.ErrNotYourTurn,
		services.ErrWrongStep,
		services.ErrNothingPending,
		services.ErrElementNotSigned,
		services.ErrLastElement,
		services.ErrNotAllSigned,
		services.ErrNoElements,
		services.ErrReasonExists,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
