package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"peoplehub/internal/apperr"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Envelope struct {
	Success   bool                `json:"success"`
	Status    string              `json:"status"`
	Message   string              `json:"message,omitempty"`
	Data      any                 `json:"data,omitempty"`
	Error     *Error              `json:"error,omitempty"`
	Errors    []apperr.FieldIssue `json:"errors,omitempty"`
	RequestID string              `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Status: StatusSuccess, Data: data, RequestID: requestID})
}

func SuccessMessage(w http.ResponseWriter, message string, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Status: StatusSuccess, Message: message, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Status: StatusSuccess, Message: "created", Data: data, RequestID: requestID})
}

func Accepted(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusAccepted, Envelope{Success: true, Status: StatusSuccess, Message: "accepted", Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{
		Success:   false,
		Status:    StatusError,
		Message:   message,
		Error:     &Error{Code: code, Message: message},
		RequestID: requestID,
	})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, issues []apperr.FieldIssue, requestID string) {
	WriteJSON(w, status, Envelope{
		Success:   false,
		Status:    StatusError,
		Message:   message,
		Error:     &Error{Code: code, Message: message},
		Errors:    issues,
		RequestID: requestID,
	})
}

// StatusFor maps an error kind to its HTTP status. Unclassified errors are 500.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict, apperr.KindInvalidState:
		return http.StatusConflict
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// FailError writes a classified domain error, or a generic 500 with the
// fallback message when err carries no kind.
func FailError(w http.ResponseWriter, err error, fallback, requestID string) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		slog.Error(fallback, "err", err, "request_id", requestID)
		Fail(w, http.StatusInternalServerError, "internal_error", fallback, requestID)
		return
	}
	status := StatusFor(appErr.Kind)
	if appErr.Duplicate {
		status = http.StatusBadRequest
	}
	FailWithDetails(w, status, string(appErr.Kind), appErr.Message, appErr.Fields, requestID)
}
