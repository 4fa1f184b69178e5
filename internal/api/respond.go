package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/safar/gymwear-api/internal/database"
	"github.com/safar/gymwear-api/internal/logger"
	"github.com/safar/gymwear-api/internal/notify"
	"github.com/safar/gymwear-api/internal/receipt"
	"github.com/safar/gymwear-api/internal/store"
)

type errorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent, so an encode failure cannot be reported.
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, status, errorResponse{
		Error:     message,
		RequestID: logger.CorrelationID(r.Context()),
	})
}

// statusFor maps store, database and core errors to an HTTP status and a
// client-safe message.
func statusFor(err error) (int, string) {
	var genErr *receipt.GenerationError
	var notifyErr *notify.NotificationError

	switch {
	case database.IsNotFound(err):
		return http.StatusNotFound, err.Error()
	case database.IsUniqueViolation(err):
		return http.StatusConflict, "resource already exists"
	case database.IsForeignKeyViolation(err):
		return http.StatusConflict, "referenced resource does not exist or is still in use"
	case database.IsConstraintViolation(err):
		return http.StatusBadRequest, "value violates a data constraint"
	case errors.As(err, &genErr):
		return http.StatusInternalServerError, "failed to generate receipt"
	case errors.As(err, &notifyErr):
		var apiErr *notify.APIStatusError
		if errors.As(notifyErr.Err, &apiErr) {
			return http.StatusBadGateway, fmt.Sprintf("failed to send email: email api returned status %d", apiErr.StatusCode)
		}
		return http.StatusBadGateway, "failed to send email: " + notifyErr.Err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context(), h.logger).ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
		)
	}
	respondError(w, r, status, message)
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:     "request validation failed",
			Fields:    valErr.Fields(),
			RequestID: logger.CorrelationID(r.Context()),
		})
		return
	}
	respondError(w, r, http.StatusBadRequest, err.Error())
}

func parseID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		respondError(w, r, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func parsePage(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return store.NormalizePage(page, pageSize)
}
