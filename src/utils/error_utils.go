// error_utils.go
package utils

import (
	"fmt"
	"net/http"

	"learnhub-backend/src/models"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

// AppError is a request-scoped failure carrying an HTTP status.
type AppError struct {
	Status  int
	Message string
	Errors  []models.FieldError
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewAppError(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message)
}

// ValidationFailed carries every violated field rule at once.
func ValidationFailed(errs []models.FieldError) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: "Validation Error", Errors: errs}
}

// StatusOf returns the status carried by err, or 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

func HandleError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Status:  status,
		Message: message,
	})
}

// HandleValidationError writes the collected field errors.
func HandleValidationError(c *fiber.Ctx, errs []models.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ValidationErrorResponse{
		Status: "fail",
		Errors: errs,
	})
}

// HandleServiceError maps a service error onto the response.
func HandleServiceError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return HandleError(c, fiber.StatusInternalServerError, "Internal server error")
	}
	if len(appErr.Errors) > 0 {
		return HandleValidationError(c, appErr.Errors)
	}
	return HandleError(c, appErr.Status, appErr.Message)
}
