package controllers

import (
	"context"
	"time"

	"learnhub-backend/src/models"
	"learnhub-backend/src/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Health godoc
// @Summary      Liveness and database reachability
// @Tags         health
// @Produce      json
// @Success      200  {object}  models.SuccessResponse
// @Failure      503  {object}  models.ErrorResponse
// @Router       /health [get]
func Health(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx, readpref.Primary()); err != nil {
			return utils.HandleError(c, fiber.StatusServiceUnavailable, "Database unavailable")
		}
		return c.JSON(models.SuccessResponse{Status: "success", Message: "ok"})
	}
}
