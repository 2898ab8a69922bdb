package controllers

import (
	"context"

	"learnhub-backend/src/authz"
	"learnhub-backend/src/middleware"
	"learnhub-backend/src/models"
	"learnhub-backend/src/utils"
	"learnhub-backend/src/validators"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CourseService is the course behaviour the HTTP layer depends on.
type CourseService interface {
	CreateCourse(ctx context.Context, req *models.CreateCourseRequest, mentorID string) (*models.Course, error)
	GetCourses(ctx context.Context, q models.CourseQuery) (*models.PaginatedResponse[models.CourseSummary], error)
	GetCourseByID(ctx context.Context, id string) (*models.CourseDetail, error)
	UpdateCourse(ctx context.Context, id string, req *models.UpdateCourseRequest, requesterID, role string) (*models.Course, error)
	DeleteCourse(ctx context.Context, id, requesterID, role string) error
	EnrollInCourse(ctx context.Context, courseID, userID string) (string, error)
	RateCourse(ctx context.Context, courseID, userID string, req *models.RatingRequest) (string, error)
	GetMentorCourses(ctx context.Context, mentorID string, q models.CourseQuery) ([]models.CourseSummary, error)
	GetEnrolledCourses(ctx context.Context, userID string) ([]models.CourseSummary, error)
	PublishCourse(ctx context.Context, id, requesterID, role string) (*models.Course, error)
	UnpublishCourse(ctx context.Context, id, requesterID, role string) (*models.Course, error)
}

type CourseController struct {
	svc CourseService
	log *zap.Logger
}

func NewCourseController(svc CourseService, log *zap.Logger) *CourseController {
	if log == nil {
		log = zap.NewNop()
	}
	return &CourseController{svc: svc, log: log}
}

func (h *CourseController) fail(c *fiber.Ctx, err error) error {
	if utils.StatusOf(err) >= fiber.StatusInternalServerError {
		h.log.Error("course request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return utils.HandleServiceError(c, err)
}

func success(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(models.SuccessResponse{Status: "success", Data: data})
}

func successMessage(c *fiber.Ctx, message string) error {
	return c.JSON(models.SuccessResponse{Status: "success", Message: message})
}

// CreateCourse godoc
// @Summary      Create a new course
// @Description  The requester becomes the mentor. Admin-tier roles may name another mentor.
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body models.CreateCourseRequest true "Course"
// @Success      201  {object}  models.SuccessResponse{data=models.Course}
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /courses [post]
func (h *CourseController) CreateCourse(c *fiber.Ctx) error {
	req := validators.Data[models.CreateCourseRequest](c)
	mentorID := middleware.UserID(c)
	if req.Mentor != "" && authz.IsAdminTier(middleware.Role(c)) {
		mentorID = req.Mentor
	}
	course, err := h.svc.CreateCourse(c.UserContext(), req, mentorID)
	if err != nil {
		return h.fail(c, err)
	}
	return success(c, fiber.StatusCreated, course)
}

// GetCourses godoc
// @Summary      List published courses
// @Tags         courses
// @Produce      json
// @Param        category  query  string  false  "Category ID"
// @Param        level     query  string  false  "Level"  Enums(beginner, intermediate, advanced)
// @Param        search    query  string  false  "Text search, at least 3 characters"
// @Param        minPrice  query  number  false  "Minimum price"
// @Param        maxPrice  query  number  false  "Maximum price"
// @Param        sort      query  string  false  "Sort key"  Enums(-createdAt, createdAt, price, -price, -averageRating, title)
// @Param        page      query  int     false  "Page"  default(1)
// @Param        limit     query  int     false  "Page size"  default(10)
// @Success      200  {object}  models.SuccessResponse{data=models.PaginatedResponse[models.CourseSummary]}
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /courses [get]
func (h *CourseController) GetCourses(c *fiber.Ctx) error {
	q := validators.Data[models.CourseQuery](c)
	page, err := h.svc.GetCourses(c.UserContext(), *q)
	if err != nil {
		return h.fail(c, err)
	}
	return success(c, fiber.StatusOK, page)
}

// GetCourseByID godoc
// @Summary      Get a course with mentor, category, students and ratings populated
// @Tags         courses
// @Produce      json
// @Param        id   path  string  true  "Course ID"
// @Success      200  {object}  models.SuccessResponse{data=models.CourseDetail}
// @Failure      404  {object}  models.ErrorResponse
// @Router       /courses/{id} [get]
func (h *CourseController) GetCourseByID(c *fiber.Ctx) error {
	course, err := h.svc.GetCourseByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return success(c, fiber.StatusOK, course)
}

// UpdateCourse godoc
// @Summary      Update a course
// @Description  Owner or admin-tier only. Mentor, students and ratings cannot be changed here.
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  string                      true  "Course ID"
// @Param        body   body  models.UpdateCourseRequest  true  "Fields to change"
// @Success      200  {object}  models.SuccessResponse{data=models.Course}
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /courses/{id} [patch]
func (h *CourseController) UpdateCourse(c *fiber.Ctx) error {
	req := validators.Data[models.UpdateCourseRequest](c)
	course, err := h.svc.UpdateCourse(c.UserContext(), c.Params("id"), req, middleware.UserID(c), middleware.Role(c))
	if err != nil {
		return h.fail(c, err)
	}
	return success(c, fiber.StatusOK, course)
}

// DeleteCourse godoc
// @Summary      Delete a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Course ID"
// @Success      200  {object}  models.SuccessResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /courses/{id} [delete]
func (h *CourseController) DeleteCourse(c *fiber.Ctx) error {
	if err := h.svc.DeleteCourse(c.UserContext(), c.Params("id"), middleware.UserID(c), middleware.Role(c)); err != nil {
		return h.fail(c, err)
	}
	return successMessage(c, "Course deleted successfully")
}

// EnrollInCourse godoc
// @Summary      Enroll the requester in a published course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Course ID"
// @Success      200  {object}  models.SuccessResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Failure      429  {object}  models.ErrorResponse
// @Router       /courses/{id}/enroll [post]
func (h *CourseController) EnrollInCourse(c *fiber.Ctx) error {
	msg, err := h.svc.EnrollInCourse(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return successMessage(c, msg)
}

// RateCourse godoc
// @Summary      Rate a course the requester is enrolled in
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  string               true  "Course ID"
// @Param        body   body  models.RatingRequest  true  "Rating"
// @Success      200  {object}  models.SuccessResponse
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /courses/{id}/rate [post]
func (h *CourseController) RateCourse(c *fiber.Ctx) error {
	req := validators.Data[models.RatingRequest](c)
	msg, err := h.svc.RateCourse(c.UserContext(), c.Params("id"), middleware.UserID(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return successMessage(c, msg)
}

// GetMentorCourses godoc
// @Summary      List the requester's own courses
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        isPublished  query  bool    false  "Published flag"
// @Param        sort         query  string  false  "Sort key"
// @Success      200  {object}  models.SuccessResponse{data=[]models.CourseSummary}
// @Router       /courses/mentor/courses [get]
func (h *CourseController) GetMentorCourses(c *fiber.Ctx) error {
	q := validators.Data[models.CourseQuery](c)
	list, err := h.svc.GetMentorCourses(c.UserContext(), middleware.UserID(c), *q)
	if err != nil {
		return h.fail(c, err)
	}
	return success(c, fiber.StatusOK, list)
}

// GetEnrolledCourses godoc
// @Summary      List courses the requester is enrolled in
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.SuccessResponse{data=[]models.CourseSummary}
// @Router       /courses/enrolled [get]
func (h *CourseController) GetEnrolledCourses(c *fiber.Ctx) error {
	list, err := h.svc.GetEnrolledCourses(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return success(c, fiber.StatusOK, list)
}

// PublishCourse godoc
// @Summary      Publish a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Course ID"
// @Success      200  {object}  models.SuccessResponse{data=models.Course}
// @Failure      403  {object}  models.ErrorResponse
// @Router       /courses/{id}/publish [patch]
func (h *CourseController) PublishCourse(c *fiber.Ctx) error {
	course, err := h.svc.PublishCourse(c.UserContext(), c.Params("id"), middleware.UserID(c), middleware.Role(c))
	if err != nil {
		return h.fail(c, err)
	}
	return success(c, fiber.StatusOK, course)
}

// UnpublishCourse godoc
// @Summary      Unpublish a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Course ID"
// @Success      200  {object}  models.SuccessResponse{data=models.Course}
// @Failure      403  {object}  models.ErrorResponse
// @Router       /courses/{id}/unpublish [patch]
func (h *CourseController) UnpublishCourse(c *fiber.Ctx) error {
	course, err := h.svc.UnpublishCourse(c.UserContext(), c.Params("id"), middleware.UserID(c), middleware.Role(c))
	if err != nil {
		return h.fail(c, err)
	}
	return success(c, fiber.StatusOK, course)
}
