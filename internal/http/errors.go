package httpx

import (
	"log/slog"
	"net/http"

	apperrors "github.com/medexjob/medexjob-api/internal/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// WriteAppError maps a service error to an HTTP status and JSON body.
// Unclassified errors become 500 "<op>_failed" with a generic message and
// are logged; their details never reach the client.
func WriteAppError(w http.ResponseWriter, op string, err error) {
	status, body := classifyError(op, err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "op", op, "error", err)
	}
	WriteJSON(w, status, body)
}

func classifyError(op string, err error) (int, errorBody) {
	err = apperrors.MapDBError(err)
	msg := apperrors.Message(err)
	reason := apperrors.GetReason(err)

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest, errorBody{
			Error: "validation_failed", Message: msg, Field: apperrors.GetField(err), Reason: reason,
		}
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized, errorBody{Error: "unauthorized", Message: msg, Reason: reason}
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden, errorBody{Error: orDefault(reason, "forbidden"), Message: msg}
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound, errorBody{Error: orDefault(reason, "not_found"), Message: msg}
	case apperrors.ErrCodeConflict, apperrors.ErrCodeForeignKey:
		return http.StatusConflict, errorBody{Error: orDefault(reason, "conflict"), Message: msg}
	case apperrors.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge, errorBody{
			Error: "file_too_large", Message: msg, Field: apperrors.GetField(err),
		}
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, errorBody{Error: "timeout", Message: msg}
	case apperrors.ErrCodeCanceled:
		return http.StatusServiceUnavailable, errorBody{Error: "canceled", Message: msg}
	}
	return http.StatusInternalServerError, errorBody{Error: op + "_failed", Message: "internal server error"}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func writeUnauthorized(w http.ResponseWriter) {
	WriteJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized", Message: "authentication required"})
}

func writeForbidden(w http.ResponseWriter) {
	WriteJSON(w, http.StatusForbidden, errorBody{Error: "forbidden", Message: "insufficient permissions"})
}

func writeBadRequest(w http.ResponseWriter, field, message string) {
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: "validation_failed", Message: message, Field: field})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorBody{Error: code, Message: message})
}
