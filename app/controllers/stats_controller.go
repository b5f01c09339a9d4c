package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kurasimap/KurasiMap/internal/pkg/gateway"
	"github.com/kurasimap/KurasiMap/internal/pkg/statistics"
)

// StatsController exposes the public aggregate counters and the gateway mode.
type StatsController struct {
	gw    *gateway.Gateway
	stats *statistics.Service
}

func NewStatsController(gw *gateway.Gateway, stats *statistics.Service) *StatsController {
	return &StatsController{gw: gw, stats: stats}
}

func (sc *StatsController) HandleGetStats(c *fiber.Ctx) error {
	data := sc.stats.GetStatisticsData()
	return c.JSON(fiber.Map{
		"mode":             sc.gw.Mode().String(),
		"total_locations":  data.TotalLocations,
		"total_categories": data.TotalCategories,
		"today_logins":     data.TodayLogins,
	})
}
