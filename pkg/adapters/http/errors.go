package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/lectern/internal/compiler"
	"github.com/aretw0/lectern/pkg/domain"
)

var errBadRequest = errors.New("bad request")

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var decodeErr *compiler.DecodeError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoSubTopics),
		errors.Is(err, domain.ErrSubTopicNotFound),
		errors.Is(err, domain.ErrSubTopicEmpty):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnknownCommand),
		errors.Is(err, domain.ErrUnsupportedCommand),
		errors.Is(err, errBadRequest),
		errors.As(err, &decodeErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoDeck):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	} else {
		s.logger.Debug("Request rejected", "status", status, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
