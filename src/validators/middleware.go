package validators

import (
	"learnhub-backend/src/models"
	"learnhub-backend/src/utils"

	"github.com/gofiber/fiber/v2"
)

// ValidatedDataKey is the Locals key holding the validated request value.
const ValidatedDataKey = "validatedData"

// Body decodes the request body into T, runs check and stores the result.
func Body[T any](check func(*T) []models.FieldError) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(T)
		if err := c.BodyParser(req); err != nil {
			return utils.HandleError(c, fiber.StatusBadRequest, "Invalid request body")
		}
		if errs := check(req); len(errs) > 0 {
			return utils.HandleValidationError(c, errs)
		}
		c.Locals(ValidatedDataKey, req)
		return c.Next()
	}
}

var (
	CreateCourse   = Body(ValidateCreate)
	UpdateCourse   = Body(ValidateUpdate)
	RateCourse     = Body(ValidateRating)
	CreateCategory = Body(ValidateCategory)
)

// Query validates listing parameters and stores a *models.CourseQuery.
func Query() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in models.CourseQueryInput
		if err := c.QueryParser(&in); err != nil {
			return utils.HandleError(c, fiber.StatusBadRequest, "Invalid query parameters")
		}
		q, errs := ValidateQuery(in)
		if len(errs) > 0 {
			return utils.HandleValidationError(c, errs)
		}
		c.Locals(ValidatedDataKey, &q)
		return c.Next()
	}
}

// ID rejects requests whose :id parameter is not an ObjectID.
func ID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if errs := ValidateID(c.Params("id")); len(errs) > 0 {
			return utils.HandleValidationError(c, errs)
		}
		return c.Next()
	}
}

// Data returns the value stored by Body or Query.
func Data[T any](c *fiber.Ctx) *T {
	v, _ := c.Locals(ValidatedDataKey).(*T)
	return v
}
