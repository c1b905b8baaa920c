// Package web defines common components for a web application.
package web

import "github.com/go-playground/validator/v10"

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Error string `json:"error"`
}

// Error wraps a given err into a json friendly struct.
func Error(err error) JSONError {
	return JSONError{Error: err.Error()}
}

// Response holds the common response type for all APIs.
type Response struct {
	Data  any       `json:"data,omitempty"`
	Error JSONError `json:"error,omitempty"`
}

// GetErrorMsg returns a human readable message for a failed binding
// validation. The caller prepends the field name.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "oneof":
		return " must be one of: " + fe.Param()
	case "gt":
		return " must be greater than " + fe.Param()
	case "min":
		return " must be at least " + fe.Param() + " characters long"
	default:
		return " is invalid"
	}
}
