package domain

// APIError represents a standardized API error with HTTP status code
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// ValidationMessages maps validator tags to user-facing messages
var ValidationMessages = map[string]string{
	"required":  "This field is required",
	"email":     "Must be a valid email address",
	"max":       "Exceeds maximum length",
	"min":       "Below minimum length",
	"gte":       "Must be greater than or equal to minimum value",
	"gt":        "Must be greater than minimum value",
	"lte":       "Must be less than or equal to maximum value",
	"lt":        "Must be less than maximum value",
	"uuid":      "Must be a valid UUID",
	"url":       "Must be a valid URL",
	"oneof":     "Must be one of the allowed values",
	"alphanum":  "Must contain only alphanumeric characters",
	"numeric":   "Must be a numeric value",
	"len":       "Must be exactly the specified length",
	"latitude":  "Must be a valid latitude",
	"longitude": "Must be a valid longitude",
	"date":      "Must be a date in DD/MM/YYYY format",
	"dive":      "One or more items are invalid",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}

// Common error types for RFC 7807 Problem Details
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeBadGateway   = "bad_gateway"
	ErrorTypeInternal     = "internal_error"
)
