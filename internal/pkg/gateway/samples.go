package gateway

import (
	"time"

	"github.com/kurasimap/KurasiMap/app/models"
)

// SampleData is the fixed dataset served in degraded mode. It is immutable
// after construction and shared read-only across requests.
type SampleData struct {
	Categories []models.Category
	Locations  []models.Location
	Plans      []models.SubscriptionPlan
}

// DefaultSampleData returns the embedded Jakarta dataset used whenever the
// remote store is unconfigured or unreachable.
func DefaultSampleData() *SampleData {
	seeded := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	locations := []models.Location{
		{
			ID:              1,
			Name:            "Seribu Rasa Menteng",
			Description:     "Indonesian seafood and classic archipelago dishes in a garden setting.",
			CategoryID:      "restaurants",
			Latitude:        -6.1957,
			Longitude:       106.8320,
			Address:         "Jl. H. Agus Salim No.128, Menteng, Jakarta Pusat",
			Phone:           "+62-21-3192-8892",
			TypicalSpending: "Rp150.000 - Rp300.000",
			CreatedAt:       seeded,
			UpdatedAt:       seeded,
		},
		{
			ID:              2,
			Name:            "Djournal Coffee",
			Description:     "Specialty coffee bar known for its single-origin brews and quiet workspace.",
			CategoryID:      "cafes",
			Latitude:        -6.2249,
			Longitude:       106.8096,
			Address:         "Jl. Kebon Kacang Raya No.1, Tanah Abang, Jakarta Pusat",
			Instagram:       "@djournalcoffee",
			TypicalSpending: "Rp50.000 - Rp120.000",
			CreatedAt:       seeded,
			UpdatedAt:       seeded,
		},
		{
			ID:              3,
			Name:            "Skye Bar & Restaurant",
			Description:     "Rooftop dining on the 56th floor with a skyline view of the city.",
			CategoryID:      "hidden-gems",
			Latitude:        -6.1965,
			Longitude:       106.8227,
			Address:         "BCA Tower Lt. 56, Jl. M.H. Thamrin No.1, Jakarta Pusat",
			Website:         "https://skye.co.id",
			TypicalSpending: "Rp400.000 - Rp800.000",
			PremiumOnly:     true,
			CreatedAt:       seeded,
			UpdatedAt:       seeded,
		},
	}
	for i := range locations {
		_ = locations[i].SetOperatingHours(map[string]string{
			"monday":    "10:00 - 22:00",
			"tuesday":   "10:00 - 22:00",
			"wednesday": "10:00 - 22:00",
			"thursday":  "10:00 - 22:00",
			"friday":    "10:00 - 23:00",
			"saturday":  "10:00 - 23:00",
			"sunday":    "10:00 - 22:00",
		})
	}

	freePlan := models.SubscriptionPlan{
		ID:          models.PLAN_FREE,
		Name:        "Free Plan",
		Description: "Browse the free categories of the curated map.",
		Price:       0,
	}
	_ = freePlan.SetFeatures([]string{
		"Access to restaurants and cafes",
		"Basic map browsing",
	})

	premiumPlan := models.SubscriptionPlan{
		ID:          models.PLAN_PREMIUM,
		Name:        "Premium Plan",
		Description: "Unlock every category and premium-only spots.",
		Price:       49000,
	}
	_ = premiumPlan.SetFeatures([]string{
		"Access to all categories",
		"Premium-only hidden gems",
		"Curated weekly picks",
	})

	return &SampleData{
		Categories: []models.Category{
			{ID: "restaurants", Name: "Restaurants", Description: "Curated places to eat", Icon: "utensils"},
			{ID: "cafes", Name: "Cafes", Description: "Coffee and workspaces", Icon: "coffee"},
			{ID: "hidden-gems", Name: "Hidden Gems", Description: "Members-only discoveries", Icon: "gem", PremiumOnly: true},
		},
		Locations: locations,
		Plans:     []models.SubscriptionPlan{freePlan, premiumPlan},
	}
}
