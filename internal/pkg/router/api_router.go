package router

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/kurasimap/KurasiMap/app/controllers"
	"github.com/kurasimap/KurasiMap/internal/pkg/constants"
	"github.com/kurasimap/KurasiMap/internal/pkg/env"
	"github.com/kurasimap/KurasiMap/internal/pkg/middleware"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App, deps Deps) {
	// Identity resolution runs for every request so handlers can rely on a
	// populated user context, anonymous or not.
	app.Use(middleware.UserContext(deps.Resolver, deps.Policy))

	api := app.Group(constants.APIRoute, limiter.New(limiter.Config{
		Max:     120,
		Storage: limiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "KurasiMap API",
			"mode":    deps.Gateway.Mode().String(),
		})
	})

	v1 := api.Group(constants.APIv1Route)

	authController := controllers.NewAuthController(deps.Provider, deps.Gateway)
	auth := v1.Group("/auth")
	auth.Post("/login", authController.HandleLogin)
	auth.Post("/signup", authController.HandleSignup)
	auth.Post("/logout", authController.HandleLogout)
	auth.Post("/refresh", authController.HandleRefresh)
	auth.Post("/reset-password", authController.HandleResetPassword)
	auth.Get("/user", middleware.RequireAuth, authController.HandleGetUser)

	categoryController := controllers.NewCategoryController(deps.Gateway)
	v1.Get("/categories", categoryController.HandleListCategories)
	v1.Get("/categories/:id", categoryController.HandleGetCategory)

	locationController := controllers.NewLocationController(deps.Gateway, deps.Policy)
	v1.Get("/locations", locationController.HandleListLocations)
	v1.Get("/locations/:id", locationController.HandleGetLocation)
	v1.Post("/locations", locationController.HandleCreateLocation)
	v1.Put("/locations/:id", locationController.HandleUpdateLocation)
	v1.Delete("/locations/:id", locationController.HandleDeleteLocation)

	subscriptionController := controllers.NewSubscriptionController(deps.Gateway)
	v1.Get("/subscription-plans", subscriptionController.HandleListPlans)
	v1.Get("/user/subscription", middleware.RequireAuth, subscriptionController.HandleGetUserSubscription)

	statsController := controllers.NewStatsController(deps.Gateway, deps.Stats)
	v1.Get("/stats", statsController.HandleGetStats)
}

// limiterStorage backs the rate limiter with Redis when a cache host is
// configured, so limits hold across instances. Falls back to the in-memory
// store otherwise.
func limiterStorage() fiber.Storage {
	host := env.GetEnv("CACHE_HOST", "")
	if host == "" {
		return nil
	}
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		Database: 1,
	})
}
