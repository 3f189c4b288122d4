package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/go-playground/validator/v10"
)

// APIResponse is the envelope of every JSON response. Failures carry the
// short error in Error and the longer explanation in Message.
type APIResponse struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

// interface {} == any
func WriteJson(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data) //struct to json
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	WriteJson(w, statusCode, APIResponse{
		Success: true,
		Data:    data,
	})
}

func SuccessWithMessage(w http.ResponseWriter, statusCode int, data any, message string) {
	WriteJson(w, statusCode, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func Error(w http.ResponseWriter, err error) {
	resp := APIResponse{Success: false}
	statusCode := http.StatusInternalServerError

	if appErr, ok := errors.IsAppError(err); ok {
		statusCode = appErr.StatusCode
		resp.Code = appErr.Code
		resp.Error = appErr.Message
		resp.Message = appErr.Detail
		resp.Details = appErr.Details
	} else {
		resp.Code = errors.ErrCodeInternal
		resp.Error = "An unexpected error occurred"
	}

	WriteJson(w, statusCode, resp)
}

// package sends the list of errors
func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {
	var errMsgs []string

	for _, err := range errs {
		errMsgs = append(errMsgs, FieldMessage(err))
	}

	WriteJson(w, http.StatusBadRequest, APIResponse{
		Success: false,
		Code:    errors.ErrCodeValidation,
		Error:   "Validation failed",
		Message: errMsgs[0],
		Details: errMsgs,
	})
}

// FieldMessage renders one validator failure as a sentence.
func FieldMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("Field %s is required", err.Field())
	case "email":
		return fmt.Sprintf("Field %s must be a valid email address", err.Field())
	case "url":
		return fmt.Sprintf("Field %s must be a valid URL", err.Field())
	case "min":
		return fmt.Sprintf("Field %s must be at least %s", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("Field %s must be at most %s characters", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("Field %s must not be less than %s", err.Field(), err.Param())
	case "gt":
		return fmt.Sprintf("Field %s must be greater than %s", err.Field(), err.Param())
	case "lt":
		return fmt.Sprintf("Field %s must be less than %s", err.Field(), err.Param())
	default:
		return fmt.Sprintf("Field %s is invalid: %s=%s", err.Field(), err.Tag(), err.Param())
	}
}
