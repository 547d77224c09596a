package api

import (
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/cylin-ms/scenara-sub003/internal/adapters/ingest"
	"github.com/cylin-ms/scenara-sub003/internal/app"
	"github.com/cylin-ms/scenara-sub003/internal/config"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrBodyTooBig = errors.New("request body too large")
)

// Error codes of the JSON error body.
const (
	codeBadRequest        = "bad_request"
	codeBodyTooLarge      = "body_too_large"
	codeInvalidConfig     = "invalid_config"
	codeMalformedRecord   = "malformed_record"
	codeSourceUnavailable = "source_unavailable"
	codeCancelled         = "cancelled"
	codeInternal          = "internal"
	codeMethodNotAllowed  = "method_not_allowed"
)

// classify maps an analysis error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBodyTooBig):
		return http.StatusRequestEntityTooLarge, codeBodyTooLarge
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, config.ErrInvalidConfig):
		return http.StatusBadRequest, codeInvalidConfig
	case errors.Is(err, ingest.ErrMalformedRecord):
		return http.StatusUnprocessableEntity, codeMalformedRecord
	case errors.Is(err, ingest.ErrSourceUnavailable):
		return http.StatusServiceUnavailable, codeSourceUnavailable
	case errors.Is(err, app.ErrCancelled):
		return http.StatusServiceUnavailable, codeCancelled
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
