package controllers

import (
	"context"
	"strconv"
	"time"

	"learnhub-backend/src/models"
	"learnhub-backend/src/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RatingScheduler submits background rating refreshes.
type RatingScheduler interface {
	Enabled() bool
	EnqueueRatingRefreshIn(ctx context.Context, courseID string, delay time.Duration) error
}

type AdminJobsController struct {
	jobs RatingScheduler
	log  *zap.Logger
}

func NewAdminJobsController(jobs RatingScheduler, log *zap.Logger) *AdminJobsController {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminJobsController{jobs: jobs, log: log}
}

// TriggerRatingRefresh godoc
// @Summary      Enqueue a rating refresh for a course
// @Description  Recomputes averageRating and ratingCount from the stored ratings after delaySec seconds. Requires Redis.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id        path   string  true   "Course ID"
// @Param        delaySec  query  int     false  "Delay in seconds"  default(0)
// @Success      202  {object}  models.SuccessResponse
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      503  {object}  models.ErrorResponse
// @Router       /admin/jobs/courses/{id}/refresh-rating [post]
func (h *AdminJobsController) TriggerRatingRefresh(c *fiber.Ctx) error {
	if h.jobs == nil || !h.jobs.Enabled() {
		return utils.HandleError(c, fiber.StatusServiceUnavailable, "Background jobs are not configured")
	}

	delaySec := 0
	if q := c.Query("delaySec"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 0 {
			return utils.HandleValidationError(c, []models.FieldError{{Field: "delaySec", Message: "delaySec must be a non-negative integer"}})
		}
		delaySec = v
	}

	id := c.Params("id")
	if err := h.jobs.EnqueueRatingRefreshIn(c.UserContext(), id, time.Duration(delaySec)*time.Second); err != nil {
		h.log.Error("enqueue rating refresh", zap.String("courseId", id), zap.Error(err))
		return utils.HandleError(c, fiber.StatusInternalServerError, "Could not schedule rating refresh")
	}
	return c.Status(fiber.StatusAccepted).JSON(models.SuccessResponse{
		Status:  "success",
		Message: "Rating refresh scheduled",
		Data:    fiber.Map{"courseId": id, "delaySec": delaySec},
	})
}
