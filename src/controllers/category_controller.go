package controllers

import (
	"context"

	"learnhub-backend/src/models"
	"learnhub-backend/src/utils"
	"learnhub-backend/src/validators"

	"github.com/gofiber/fiber/v2"
)

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
}

type CategoryController struct {
	svc CategoryService
}

func NewCategoryController(svc CategoryService) *CategoryController {
	return &CategoryController{svc: svc}
}

// GetCategories godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  models.SuccessResponse{data=[]models.Category}
// @Router       /categories [get]
func (h *CategoryController) GetCategories(c *fiber.Ctx) error {
	list, err := h.svc.List(c.UserContext())
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return success(c, fiber.StatusOK, list)
}

// GetCategoryByID godoc
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        id   path  string  true  "Category ID"
// @Success      200  {object}  models.SuccessResponse{data=models.Category}
// @Failure      404  {object}  models.ErrorResponse
// @Router       /categories/{id} [get]
func (h *CategoryController) GetCategoryByID(c *fiber.Ctx) error {
	cat, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return success(c, fiber.StatusOK, cat)
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body models.CreateCategoryRequest true "Category"
// @Success      201  {object}  models.SuccessResponse{data=models.Category}
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /categories [post]
func (h *CategoryController) CreateCategory(c *fiber.Ctx) error {
	req := validators.Data[models.CreateCategoryRequest](c)
	cat, err := h.svc.Create(c.UserContext(), req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}
	return success(c, fiber.StatusCreated, cat)
}
