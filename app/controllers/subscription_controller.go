package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/kurasimap/KurasiMap/app/models"
	"github.com/kurasimap/KurasiMap/internal/pkg/gateway"
	"github.com/kurasimap/KurasiMap/internal/pkg/usercontext"
)

// SubscriptionController serves the plan catalog and the caller's own
// subscription state.
type SubscriptionController struct {
	gw *gateway.Gateway
}

func NewSubscriptionController(gw *gateway.Gateway) *SubscriptionController {
	return &SubscriptionController{gw: gw}
}

// HandleListPlans returns the public plan catalog.
func (sc *SubscriptionController) HandleListPlans(c *fiber.Ctx) error {
	plans := sc.gw.GetSubscriptionPlans()
	return c.JSON(fiber.Map{
		"plans": plans,
		"count": len(plans),
	})
}

// HandleGetUserSubscription returns the caller's subscription. Users without
// an active row, and lookups the store could not answer, both resolve to the
// implicit free plan.
func (sc *SubscriptionController) HandleGetUserSubscription(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == "" {
		return respondError(c, fiber.StatusUnauthorized, "unauthorized", "Not authenticated")
	}

	sub, err := sc.gw.GetUserSubscription(userID)
	if err != nil {
		if !errors.Is(err, gateway.ErrUnavailable) {
			log.Printf("subscription: lookup failed for %s: %v", userID, err)
		}
		return c.JSON(freePlanResponse())
	}
	if sub == nil {
		return c.JSON(freePlanResponse())
	}

	response := fiber.Map{
		"plan_id":      sub.PlanID,
		"subscription": sub,
	}
	for _, plan := range sc.gw.GetSubscriptionPlans() {
		if plan.ID == sub.PlanID {
			response["plan"] = plan
			break
		}
	}
	return c.JSON(response)
}

func freePlanResponse() fiber.Map {
	return fiber.Map{
		"plan_id": models.PLAN_FREE,
		"plan": fiber.Map{
			"id":   models.PLAN_FREE,
			"name": "Free Plan",
		},
	}
}
