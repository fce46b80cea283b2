package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dmehra2102/todotracker/internal/app"
)

type handler struct {
	tasks       *app.TaskService
	validate    *validator.Validate
	logger      *zap.Logger
	healthCheck func(context.Context) error
}

func newHandler(tasks *app.TaskService, logger *zap.Logger, healthCheck func(context.Context) error) *handler {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name, _, _ := strings.Cut(fld.Tag.Get("json"), ","); name != "" && name != "-" {
			return name
		}
		if name := fld.Tag.Get("query"); name != "" {
			return name
		}
		return fld.Name
	})

	return &handler{
		tasks:       tasks,
		validate:    validate,
		logger:      logger,
		healthCheck: healthCheck,
	}
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if h.healthCheck != nil {
		if err := h.healthCheck(r.Context()); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) createTask(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), app.TaskInput{
		Text:     req.Text,
		Priority: req.Priority,
		DueDate:  req.DueDate,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (h *handler) getTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *handler) updateTask(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), chi.URLParam(r, "id"), app.TaskInput{
		Text:     req.Text,
		Priority: req.Priority,
		DueDate:  req.DueDate,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *handler) completeTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.CompleteTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *handler) uncompleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.UncompleteTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listTasks(w http.ResponseWriter, r *http.Request) {
	q, errs := parseListQuery(r)
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}
	if err := h.validate.Struct(q); err != nil {
		writeFieldErrors(w, validationErrors(err))
		return
	}

	params := app.ListParams{
		Text:     q.Text,
		Priority: q.Priority,
		Done:     q.Done,
		SortBy:   q.SortBy,
		Page:     q.Page,
	}
	if q.Size != nil {
		params.Size = *q.Size
	}

	page, err := h.tasks.ListTasks(r.Context(), params)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(page))
}

func (h *handler) statistics(w http.ResponseWriter, r *http.Request) {
	result, err := h.tasks.Statistics(r.Context())
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatisticsResponse(result))
}

// decodeTaskRequest reads and validates a task body. On failure the 400
// response has already been written.
func (h *handler) decodeTaskRequest(w http.ResponseWriter, r *http.Request) (*taskRequest, bool) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, fieldErrors{"body": fmt.Sprintf("malformed JSON: %v", err)})
		return nil, false
	}
	if err := h.validate.Struct(&req); err != nil {
		writeFieldErrors(w, validationErrors(err))
		return nil, false
	}
	return &req, true
}

// parseListQuery converts the query string, reporting every malformed value.
func parseListQuery(r *http.Request) (*listQuery, fieldErrors) {
	values := r.URL.Query()
	q := &listQuery{
		Text:     values.Get("text"),
		Priority: values.Get("priority"),
		SortBy:   values.Get("sortBy"),
	}
	errs := fieldErrors{}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			errs["page"] = fmt.Sprintf("must be an integer, got %q", raw)
		}
		q.Page = page
	}

	if raw := values.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			errs["size"] = fmt.Sprintf("must be an integer, got %q", raw)
		}
		q.Size = &size
	}

	if raw := values.Get("done"); raw != "" {
		done, err := strconv.ParseBool(raw)
		if err != nil {
			errs["done"] = fmt.Sprintf("must be true or false, got %q", raw)
		}
		q.Done = &done
	}

	return q, errs
}

func validationErrors(err error) fieldErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fieldErrors{"body": err.Error()}
	}

	out := make(fieldErrors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = validationMessage(fe)
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must use the YYYY-MM-DD format"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
