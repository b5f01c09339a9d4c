package controllers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kurasimap/KurasiMap/app/models"
	"github.com/kurasimap/KurasiMap/app/repository"
	"github.com/kurasimap/KurasiMap/internal/pkg/access"
	"github.com/kurasimap/KurasiMap/internal/pkg/gateway"
	"github.com/kurasimap/KurasiMap/internal/pkg/metrics/counter"
	"github.com/kurasimap/KurasiMap/internal/pkg/usercontext"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// LocationController serves the curated map points. Reads are tier-gated;
// writes are admin-only.
type LocationController struct {
	gw       *gateway.Gateway
	policy   *access.Policy
	validate *validator.Validate
}

func NewLocationController(gw *gateway.Gateway, policy *access.Policy) *LocationController {
	return &LocationController{
		gw:       gw,
		policy:   policy,
		validate: validator.New(),
	}
}

type locationRequest struct {
	Name            string            `json:"name" validate:"required,min=2,max=200"`
	Description     string            `json:"description"`
	CategoryID      string            `json:"category_id" validate:"required"`
	Latitude        float64           `json:"latitude" validate:"min=-90,max=90"`
	Longitude       float64           `json:"longitude" validate:"min=-180,max=180"`
	Address         string            `json:"address"`
	OperatingHours  map[string]string `json:"operating_hours"`
	Instagram       string            `json:"instagram"`
	Phone           string            `json:"phone"`
	Website         string            `json:"website"`
	TypicalSpending string            `json:"typical_spending"`
	Images          []string          `json:"images"`
	PremiumOnly     bool              `json:"premium_only"`
}

func (r *locationRequest) apply(location *models.Location) error {
	location.Name = r.Name
	location.Description = r.Description
	location.CategoryID = r.CategoryID
	location.Latitude = r.Latitude
	location.Longitude = r.Longitude
	location.Address = r.Address
	location.Instagram = r.Instagram
	location.Phone = r.Phone
	location.Website = r.Website
	location.TypicalSpending = r.TypicalSpending
	location.PremiumOnly = r.PremiumOnly
	if err := location.SetOperatingHours(r.OperatingHours); err != nil {
		return err
	}
	return location.SetImages(r.Images)
}

// HandleListLocations lists locations, paginated. An explicit category_id
// the caller's tier may not browse is a 403; without one the result is
// simply filtered down to what the tier may see.
func (lc *LocationController) HandleListLocations(c *fiber.Ctx) error {
	premium := usercontext.IsPremium(c)

	categoryID := c.Query("category_id")
	if categoryID != "" && !premium && !lc.policy.IsFreeCategory(categoryID) {
		return respondError(c, fiber.StatusForbidden, "premium_required", "This category requires a premium subscription")
	}

	limit := c.QueryInt("limit", defaultPageSize)
	if limit < 1 {
		limit = 1
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	locations := lc.gw.GetLocations(repository.LocationFilter{
		CategoryID: categoryID,
		Search:     c.Query("search"),
		Limit:      limit,
		Offset:     offset,
	})

	if !premium {
		locations = lc.visibleToFree(locations)
	}

	return c.JSON(fiber.Map{
		"locations": locations,
		"count":     len(locations),
		"limit":     limit,
		"offset":    offset,
	})
}

// visibleToFree drops premium-only locations and locations in categories
// outside the free allow-list. Both gates apply independently.
func (lc *LocationController) visibleToFree(locations []models.Location) []models.Location {
	locations = access.FilterLocations(locations, false)
	visible := make([]models.Location, 0, len(locations))
	for _, location := range locations {
		if !lc.policy.IsFreeCategory(location.CategoryID) {
			continue
		}
		visible = append(visible, location)
	}
	return visible
}

// HandleGetLocation returns a single location and counts the view.
func (lc *LocationController) HandleGetLocation(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "bad_request", "Invalid location id")
	}

	location := lc.gw.GetLocation(uint(id))
	if location == nil {
		return respondError(c, fiber.StatusNotFound, "not_found", "Location not found")
	}

	premium := usercontext.IsPremium(c)
	if !premium && !lc.policy.IsFreeCategory(location.CategoryID) {
		return respondError(c, fiber.StatusForbidden, "premium_required", "This category requires a premium subscription")
	}
	if location.PremiumOnly && !premium {
		return respondError(c, fiber.StatusForbidden, "premium_required", "This location requires a premium subscription")
	}

	// View counting is best-effort and never blocks the response.
	_ = counter.AddLocationView(location.ID)

	return c.JSON(location)
}

// HandleCreateLocation creates a location. Admin only.
func (lc *LocationController) HandleCreateLocation(c *fiber.Ctx) error {
	if decision := lc.policy.CanManageLocations(usercontext.GetIdentity(c)); !decision.Allowed {
		return respondError(c, fiber.StatusForbidden, "forbidden", decision.Reason)
	}

	var req locationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := lc.validate.Struct(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	location := &models.Location{}
	if err := req.apply(location); err != nil {
		return respondError(c, fiber.StatusBadRequest, "bad_request", "Invalid operating hours or images")
	}

	created := lc.gw.CreateLocation(location)
	if created == nil {
		return respondError(c, fiber.StatusInternalServerError, "internal_server_error", "Location could not be saved")
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdateLocation replaces a location's editable fields. Admin only.
func (lc *LocationController) HandleUpdateLocation(c *fiber.Ctx) error {
	if decision := lc.policy.CanManageLocations(usercontext.GetIdentity(c)); !decision.Allowed {
		return respondError(c, fiber.StatusForbidden, "forbidden", decision.Reason)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "bad_request", "Invalid location id")
	}

	location := lc.gw.GetLocation(uint(id))
	if location == nil {
		return respondError(c, fiber.StatusNotFound, "not_found", "Location not found")
	}

	var req locationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}
	if err := lc.validate.Struct(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := req.apply(location); err != nil {
		return respondError(c, fiber.StatusBadRequest, "bad_request", "Invalid operating hours or images")
	}

	updated := lc.gw.UpdateLocation(location)
	if updated == nil {
		return respondError(c, fiber.StatusInternalServerError, "internal_server_error", "Location could not be saved")
	}

	return c.JSON(updated)
}

// HandleDeleteLocation removes a location. Admin only.
func (lc *LocationController) HandleDeleteLocation(c *fiber.Ctx) error {
	if decision := lc.policy.CanManageLocations(usercontext.GetIdentity(c)); !decision.Allowed {
		return respondError(c, fiber.StatusForbidden, "forbidden", decision.Reason)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "bad_request", "Invalid location id")
	}

	if location := lc.gw.GetLocation(uint(id)); location == nil {
		return respondError(c, fiber.StatusNotFound, "not_found", "Location not found")
	}

	if !lc.gw.DeleteLocation(uint(id)) {
		return respondError(c, fiber.StatusInternalServerError, "internal_server_error", "Location could not be deleted")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
