package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"storefront/internal/auth"
	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful can reach the client.
		return
	}
}

// writeError writes the standard error body, tagged with the request id.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	requestID := middleware.RequestIDFromContext(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("code", code).
		Int("status", status).
		Str("request_id", requestID).
		Msg(message)

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: requestID,
	})
}

// writeServiceError maps domain errors to their status codes. Anything else
// is logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "An unexpected error occurred", logger)
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Kind {
	case model.KindValidation:
		status = http.StatusBadRequest
	case model.KindNotFound:
		status = http.StatusNotFound
	case model.KindConflict:
		status = http.StatusConflict
	case model.KindUnauthorised:
		status = http.StatusUnauthorized
	}

	writeError(w, r, status, domainErr.Code, domainErr.Message, logger)
}

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewDomainError(model.KindValidation, model.ErrCodeInvalidJSON, "Request body is required")
		}
		return model.NewDomainError(model.KindValidation, model.ErrCodeInvalidJSON, "Request body is not valid JSON")
	}
	return nil
}

// requireUser returns the authenticated user id, writing a 401 when the
// request carries none.
func requireUser(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (int64, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "Authentication required", logger)
		return 0, false
	}
	return userID, true
}

func pathInt64(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, model.NewValidationError("Invalid " + name)
	}
	return id, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, model.NewValidationError("Invalid " + name)
	}
	return id, nil
}
