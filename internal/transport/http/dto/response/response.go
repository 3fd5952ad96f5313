package response

import (
	"net/http"

	"pgm_storefront/internal/domain/models"
)

// Envelope is the Result shape every gateway answer is written in.
type Envelope = models.Result[any]

const (
	ErrInvalidRequest       = "invalid_request"
	ErrAuthenticationFailed = "authentication_failed"
	ErrSessionExpired       = "session_expired"
	ErrUpstream             = "upstream_error"
	ErrMalformedResponse    = "malformed_response"
	ErrInternal             = "internal_error"
)

var (
	InvalidRequestFormat = Failure(ErrInvalidRequest, http.StatusBadRequest)
	SessionExpired       = Failure(ErrSessionExpired, http.StatusUnauthorized)
)

func Success(data any, status int) Envelope {
	return models.Ok(&data, status)
}

func Failure(err string, status int) Envelope {
	return models.Fail[any](err, status)
}

// FailureWithDetails appends details to the error code, "code: details".
func FailureWithDetails(err, details string, status int) Envelope {
	if details == "" {
		return Failure(err, status)
	}
	return Failure(err+": "+details, status)
}
