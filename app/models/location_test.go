package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationJSONExposesDecodedColumns(t *testing.T) {
	t.Parallel()

	location := Location{
		ID:         1,
		Name:       "Djournal Coffee",
		CategoryID: "cafes",
	}
	require.NoError(t, location.SetOperatingHours(map[string]string{"monday": "08:00 - 22:00"}))
	require.NoError(t, location.SetImages([]string{"https://cdn.example.com/djournal.jpg"}))

	raw, err := json.Marshal(location)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	hours, ok := decoded["operating_hours"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "08:00 - 22:00", hours["monday"])

	images, ok := decoded["images"].([]interface{})
	require.True(t, ok)
	assert.Len(t, images, 1)

	// Raw column strings never leak into responses.
	_, hasRawHours := decoded["OperatingHours"]
	assert.False(t, hasRawHours)
}

func TestLocationHoursAccessorsTolerateBadData(t *testing.T) {
	t.Parallel()

	location := Location{OperatingHours: "{broken", Images: "[broken"}
	assert.Empty(t, location.GetOperatingHours())
	assert.Nil(t, location.GetImages())

	require.NoError(t, location.SetOperatingHours(nil))
	assert.Empty(t, location.OperatingHours)
}

func TestLocationValidate(t *testing.T) {
	t.Parallel()

	valid := Location{Name: "Spot", CategoryID: "cafes", Latitude: -6.2, Longitude: 106.8}
	assert.NoError(t, valid.Validate())

	invalid := Location{Name: "x", CategoryID: "", Latitude: 95}
	assert.Error(t, invalid.Validate())
}

func TestSubscriptionPlanFeatures(t *testing.T) {
	t.Parallel()

	plan := SubscriptionPlan{ID: PLAN_PREMIUM, Name: "Premium"}
	require.NoError(t, plan.SetFeatures([]string{"Access to all categories"}))

	raw, err := json.Marshal(plan)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	features, ok := decoded["features"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, "Access to all categories", features[0])
}
