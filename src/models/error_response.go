package models

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// FieldError is a single violated validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse lists every violated rule of a request.
type ValidationErrorResponse struct {
	Status string       `json:"status" example:"fail"`
	Errors []FieldError `json:"errors"`
}

// SuccessResponse is the standard success body.
type SuccessResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}
