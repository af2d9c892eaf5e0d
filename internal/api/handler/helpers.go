package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/edvin/sqlgate/internal/api/response"
	"github.com/edvin/sqlgate/internal/core"
)

// writeServiceError maps a classified service error to its HTTP status and
// writes the client-facing message. Unclassified errors are logged with their
// full cause and reported as a generic 500 so driver detail never reaches a
// client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *core.Error
	if errors.As(err, &svcErr) {
		response.WriteError(w, statusForKind(svcErr.Kind), svcErr.Message)
		return
	}

	zerolog.Ctx(r.Context()).Error().Err(err).Msg("unhandled service error")
	response.WriteError(w, http.StatusInternalServerError, "internal server error")
}

func statusForKind(kind core.Kind) int {
	switch kind {
	case core.KindValidation:
		return http.StatusUnprocessableEntity
	case core.KindAuthenticationFailed, core.KindUnauthenticated:
		return http.StatusUnauthorized
	case core.KindForbidden:
		return http.StatusForbidden
	case core.KindConflict:
		return http.StatusBadRequest
	case core.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
