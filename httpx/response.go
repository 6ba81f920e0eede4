// Package httpx writes JSON responses and the error envelope shared by all
// API handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/logging"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Page is the envelope for paginated lists.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// avoid writing partial JSON
			http.Error(w, `{"code":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// JSONError writes the error envelope. details is omitted when nil.
func JSONError(w http.ResponseWriter, status int, code, msg string, details any) {
	JSON(w, status, ErrorResponse{Code: code, Message: msg, Details: details})
}

// Error renders err. *apperr.Error values keep their status, code and field
// details; anything else becomes a 500 whose cause is only logged.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal("An unexpected error occurred", err)
	}
	status := appErr.StatusCode()

	entry := logging.Logger.WithFields(logrus.Fields{
		"status": status,
		"code":   appErr.Code,
		"method": r.Method,
		"path":   r.URL.Path,
	})
	if appErr.Err != nil {
		entry = entry.WithError(appErr.Err)
	}
	if status >= http.StatusInternalServerError {
		entry.Error(appErr.Message)
	} else {
		entry.Info(appErr.Message)
	}

	var details any
	if len(appErr.Fields) > 0 {
		details = appErr.Fields
	}
	JSONError(w, status, appErr.Code, appErr.Message, details)
}

// DecodeJSON reads the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &apperr.Error{
			Kind:    apperr.KindValidation,
			Code:    apperr.CodeInvalidPayload,
			Message: "invalid JSON payload",
			Err:     err,
		}
	}
	return nil
}
