package routes

import (
	"time"

	"learnhub-backend/src/authz"
	"learnhub-backend/src/constants"
	"learnhub-backend/src/controllers"
	"learnhub-backend/src/middleware"
	"learnhub-backend/src/utils"
	"learnhub-backend/src/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Deps are the handlers and guards shared by the route groups.
type Deps struct {
	Courses     *controllers.CourseController
	Categories  *controllers.CategoryController
	AdminJobs   *controllers.AdminJobsController
	Health      fiber.Handler
	JWT         *utils.JWT
	RateLimiter *middleware.RateLimiter
	RateLimit   int
	RateWindow  time.Duration
}

func InitRoutes(app *fiber.App, d Deps) {
	app.Get("/health", d.Health)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")
	courseRoutes(api, d)
	categoryRoutes(api, d)
	if d.AdminJobs != nil {
		adminRoutes(api, d)
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API is running")
	})
}

var courseManagers = []string{constants.RoleMentor, constants.RoleAdmin, constants.RoleSuperAdmin}

func courseRoutes(api fiber.Router, d Deps) {
	auth := middleware.AuthJWT(d.JWT)
	managers := middleware.RestrictTo(courseManagers...)
	h := d.Courses

	r := api.Group("/courses")

	// static paths before /:id
	r.Get("/enrolled", auth, h.GetEnrolledCourses)
	r.Get("/mentor/courses", auth, middleware.RequireAction(authz.ViewMentorCourses), validators.Query(), h.GetMentorCourses)

	r.Get("/", validators.Query(), h.GetCourses)
	r.Post("/", auth, middleware.RequireAction(authz.CreateCourse), validators.CreateCourse, h.CreateCourse)
	r.Get("/:id", validators.ID(), h.GetCourseByID)
	r.Patch("/:id", auth, managers, validators.ID(), validators.UpdateCourse, h.UpdateCourse)
	r.Delete("/:id", auth, managers, validators.ID(), h.DeleteCourse)
	r.Patch("/:id/publish", auth, managers, validators.ID(), h.PublishCourse)
	r.Patch("/:id/unpublish", auth, managers, validators.ID(), h.UnpublishCourse)

	r.Post("/:id/enroll", auth, d.RateLimiter.Limit("enroll", d.RateLimit, d.RateWindow),
		middleware.RequireAction(authz.EnrollCourse), validators.ID(), h.EnrollInCourse)
	r.Post("/:id/rate", auth, d.RateLimiter.Limit("rate", d.RateLimit, d.RateWindow),
		middleware.RequireAction(authz.RateCourse), validators.ID(), validators.RateCourse, h.RateCourse)
}

func categoryRoutes(api fiber.Router, d Deps) {
	h := d.Categories
	r := api.Group("/categories")
	r.Get("/", h.GetCategories)
	r.Get("/:id", h.GetCategoryByID)
	r.Post("/", middleware.AuthJWT(d.JWT), middleware.RequireAction(authz.CreateCategory), validators.CreateCategory, h.CreateCategory)
}

func adminRoutes(api fiber.Router, d Deps) {
	r := api.Group("/admin/jobs", middleware.AuthJWT(d.JWT), middleware.RestrictTo(constants.AdminRoles...))
	r.Post("/courses/:id/refresh-rating", validators.ID(), d.AdminJobs.TriggerRatingRefresh)
}
