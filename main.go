package main

import (
	"fmt"
	"log"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/kurasimap/KurasiMap/internal/pkg/access"
	"github.com/kurasimap/KurasiMap/internal/pkg/cache"
	"github.com/kurasimap/KurasiMap/internal/pkg/database"
	"github.com/kurasimap/KurasiMap/internal/pkg/env"
	"github.com/kurasimap/KurasiMap/internal/pkg/gateway"
	"github.com/kurasimap/KurasiMap/internal/pkg/identity"
	"github.com/kurasimap/KurasiMap/internal/pkg/router"
	"github.com/kurasimap/KurasiMap/internal/pkg/session"
	"github.com/kurasimap/KurasiMap/internal/pkg/statistics"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	cache.SetupCache()

	provider := identity.NewClientFromEnv()
	if !provider.IsConfigured() {
		log.Println("identity provider not configured, auth endpoints will return 503")
	}

	// Without store credentials, or when the store refuses the connection,
	// the app still serves the embedded sample dataset.
	var gw *gateway.Gateway
	db, err := database.Connect()
	if err != nil {
		log.Printf("running in degraded mode: %v", err)
		gw = gateway.NewDegraded()
	} else {
		gw = gateway.NewConnected(db)
	}

	policy := access.NewPolicy(gw, access.FreeCategoriesFromEnv())
	resolver := session.NewResolver(provider)
	stats := statistics.NewService(gw)

	app := fiber.New(fiber.Config{
		AppName: "KurasiMap",
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app, router.Deps{
		Provider: provider,
		Gateway:  gw,
		Policy:   policy,
		Resolver: resolver,
		Stats:    stats,
	})

	return app
}
