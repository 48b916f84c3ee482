package handlers

import (
	"strconv"

	"finman/internal/dto"
	"finman/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SubCategoryHandler struct {
	subCategories *service.SubCategoryService
	logger        *zap.Logger
}

func NewSubCategoryHandler(subCategories *service.SubCategoryService, logger *zap.Logger) *SubCategoryHandler {
	return &SubCategoryHandler{subCategories: subCategories, logger: logger}
}

// Create handles POST /api/v1/subcategories.
func (h *SubCategoryHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SubCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	sub, err := h.subCategories.Create(c.Context(), userID, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSubCategoryResponse(sub))
}

// List handles GET /api/v1/subcategories.
func (h *SubCategoryHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	subs, err := h.subCategories.List(c.Context(), userID)
	if err != nil {
		h.logger.Error("Subcategory listing failed", zap.Error(err))
		return serviceError(c, err)
	}

	responses := make([]*dto.SubCategoryResponse, 0, len(subs))
	for _, sub := range subs {
		responses = append(responses, dto.NewSubCategoryResponse(sub))
	}
	return c.JSON(responses)
}

// Delete handles DELETE /api/v1/subcategories/:id.
func (h *SubCategoryHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subcategory ID",
		})
	}

	if err := h.subCategories.Delete(c.Context(), userID, id); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
