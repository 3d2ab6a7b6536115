package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hireflow/hireflow/pkg/flow"
	"github.com/hireflow/hireflow/pkg/services"
)

// mapServiceError maps service and engine errors to an HTTP status plus a
// client-safe message.
func mapServiceError(err error) (int, string) {
	var validErr *services.ValidationError
	if errors.As(err, &validErr) {
		return http.StatusBadRequest, validErr.Error()
	}
	if errors.Is(err, flow.ErrInvalidContext) {
		return http.StatusBadRequest, err.Error()
	}
	if errors.Is(err, services.ErrNotFound) {
		return http.StatusNotFound, "resource not found"
	}
	if errors.Is(err, services.ErrAlreadyExists) {
		return http.StatusConflict, "resource already exists"
	}

	// Unexpected error
	slog.Error("Unexpected service error", "error", err)
	return http.StatusInternalServerError, "internal server error"
}
