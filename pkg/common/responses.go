package common

import (
	"encoding/json"
	"net/http"

	appErrors "atlas-backend/pkg/errors"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// RespondAppError maps an application error onto the HTTP surface.
// Unrecognized errors read as internal failures with no detail leaked.
func RespondAppError(w http.ResponseWriter, err error) {
	appErr := appErrors.GetAppError(err)
	if appErr == nil {
		RespondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	status := appErr.HTTPStatus
	if status == 0 {
		switch appErr.Type {
		case appErrors.ErrorTypeValidation:
			status = http.StatusBadRequest
		case appErrors.ErrorTypeNotFound:
			status = http.StatusNotFound
		case appErrors.ErrorTypeConflict:
			status = http.StatusConflict
		case appErrors.ErrorTypeUnauthorized:
			status = http.StatusUnauthorized
		case appErrors.ErrorTypeTimeout:
			status = http.StatusGatewayTimeout
		case appErrors.ErrorTypeExternal:
			status = http.StatusBadGateway
		default:
			status = http.StatusInternalServerError
		}
	}

	code := appErr.Code
	if code == "" {
		code = string(appErr.Type)
	}
	RespondError(w, status, code, appErr.Message)
}

// ParseJSONBody parses JSON request body with size limit
func ParseJSONBody(r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	return decoder.Decode(v)
}
