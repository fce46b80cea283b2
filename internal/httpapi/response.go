package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/dmehra2102/todotracker/internal/domain"
)

type fieldErrors map[string]string

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

// writeFieldErrors answers 400 with a field -> message map.
func writeFieldErrors(w http.ResponseWriter, errs fieldErrors) {
	writeJSON(w, http.StatusBadRequest, errs)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// fieldFor names the request field a domain validation error belongs to.
func fieldFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyText), errors.Is(err, domain.ErrTextTooShort), errors.Is(err, domain.ErrTextTooLong):
		return "text"
	case errors.Is(err, domain.ErrInvalidPriority):
		return "priority"
	case errors.Is(err, domain.ErrInvalidDueDate), errors.Is(err, domain.ErrDueDateInPast), errors.Is(err, domain.ErrDueDateBeforeCreation):
		return "dueDate"
	case errors.Is(err, domain.ErrInvalidSort):
		return "sortBy"
	case errors.Is(err, domain.ErrInvalidPageSize):
		return "size"
	case errors.Is(err, domain.ErrInvalidPage):
		return "page"
	default:
		return "error"
	}
}

// writeDomainError maps service errors onto HTTP statuses. Unexpected errors
// are logged and hidden behind a generic 500.
func writeDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case domain.IsValidationError(err):
		writeFieldErrors(w, fieldErrors{fieldFor(err): err.Error()})
	case errors.Is(err, domain.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrVersionMismatch), errors.Is(err, domain.ErrTaskAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request timed out")
	default:
		logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
