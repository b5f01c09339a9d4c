package access

import (
	"log"
	"strings"

	"github.com/kurasimap/KurasiMap/app/models"
	"github.com/kurasimap/KurasiMap/internal/pkg/env"
	"github.com/kurasimap/KurasiMap/internal/pkg/gateway"
	"github.com/kurasimap/KurasiMap/internal/pkg/identity"
)

// Decision is a typed authorization outcome. Reason is only set on deny and
// is safe to surface to the caller.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a permissive decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a restrictive decision with a caller-facing reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Policy decides what a resolved identity may see. Decisions are computed
// fresh from current subscription state on every call; nothing is cached
// across requests.
type Policy struct {
	gw             *gateway.Gateway
	freeCategories map[string]struct{}
}

// NewPolicy creates a policy over the given gateway and free-category
// allow-list.
func NewPolicy(gw *gateway.Gateway, freeCategories []string) *Policy {
	allowed := make(map[string]struct{}, len(freeCategories))
	for _, id := range freeCategories {
		id = strings.TrimSpace(strings.ToLower(id))
		if id != "" {
			allowed[id] = struct{}{}
		}
	}
	return &Policy{gw: gw, freeCategories: allowed}
}

// FreeCategoriesFromEnv reads the allow-list from FREE_CATEGORIES
// (comma-separated), defaulting to the launch set.
func FreeCategoriesFromEnv() []string {
	raw := env.GetEnv("FREE_CATEGORIES", "restaurants,cafes")
	return strings.Split(raw, ",")
}

// IsPremium reports whether the identity holds an active premium
// subscription. Anonymous callers are never premium, and a store lookup
// failure resolves to false: premium is the more powerful capability, so
// errors land on the restrictive side.
func (p *Policy) IsPremium(user *identity.User) bool {
	if user == nil {
		return false
	}
	sub, err := p.gw.GetUserSubscription(user.ID)
	if err != nil {
		log.Printf("access: subscription lookup failed for %s, treating as free: %v", user.ID, err)
		return false
	}
	if sub == nil {
		return false
	}
	return sub.PlanID == models.PLAN_PREMIUM
}

// IsFreeCategory reports membership in the configured allow-list. Unknown
// category ids are simply not in the list; existence checks belong to the
// caller.
func (p *Policy) IsFreeCategory(categoryID string) bool {
	_, ok := p.freeCategories[strings.ToLower(strings.TrimSpace(categoryID))]
	return ok
}

// CanAccessCategory is true for premium callers, and otherwise only for
// categories on the free allow-list.
func (p *Policy) CanAccessCategory(user *identity.User, categoryID string) bool {
	if p.IsPremium(user) {
		return true
	}
	return p.IsFreeCategory(categoryID)
}

// CanManageLocations gates the admin write surface.
func (p *Policy) CanManageLocations(user *identity.User) Decision {
	if user == nil {
		return Deny("authentication required")
	}
	if !user.IsAdmin() {
		return Deny("only admins can manage locations")
	}
	return Allow()
}

// FilterCategories drops premium-only categories for non-premium callers.
// This record-level gate stacks on top of the per-category allow-list.
func FilterCategories(categories []models.Category, premium bool) []models.Category {
	if premium {
		return categories
	}
	visible := make([]models.Category, 0, len(categories))
	for _, category := range categories {
		if category.PremiumOnly {
			continue
		}
		visible = append(visible, category)
	}
	return visible
}

// FilterLocations drops premium-only locations for non-premium callers,
// independent of the category gate: a location can be individually premium
// inside an otherwise free category.
func FilterLocations(locations []models.Location, premium bool) []models.Location {
	if premium {
		return locations
	}
	visible := make([]models.Location, 0, len(locations))
	for _, location := range locations {
		if location.PremiumOnly {
			continue
		}
		visible = append(visible, location)
	}
	return visible
}
