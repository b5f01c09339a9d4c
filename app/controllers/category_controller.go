package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kurasimap/KurasiMap/internal/pkg/access"
	"github.com/kurasimap/KurasiMap/internal/pkg/gateway"
	"github.com/kurasimap/KurasiMap/internal/pkg/usercontext"
)

// CategoryController serves the category reference data, filtered per caller
// tier.
type CategoryController struct {
	gw *gateway.Gateway
}

func NewCategoryController(gw *gateway.Gateway) *CategoryController {
	return &CategoryController{gw: gw}
}

// HandleListCategories lists the categories visible to the caller. Premium
// callers see everything; free and anonymous callers only see categories
// that are not premium-only.
func (cc *CategoryController) HandleListCategories(c *fiber.Ctx) error {
	categories := cc.gw.GetCategories()
	categories = access.FilterCategories(categories, usercontext.IsPremium(c))

	return c.JSON(fiber.Map{
		"categories": categories,
		"count":      len(categories),
	})
}

// HandleGetCategory returns a single category by slug.
func (cc *CategoryController) HandleGetCategory(c *fiber.Ctx) error {
	category := cc.gw.GetCategory(c.Params("id"))
	if category == nil {
		return respondError(c, fiber.StatusNotFound, "not_found", "Category not found")
	}
	if category.PremiumOnly && !usercontext.IsPremium(c) {
		return respondError(c, fiber.StatusForbidden, "premium_required", "This category requires a premium subscription")
	}
	return c.JSON(category)
}
