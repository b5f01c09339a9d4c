package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	"github.com/kurasimap/KurasiMap/internal/pkg/metrics/counter"
	"github.com/kurasimap/KurasiMap/internal/pkg/router"
	"github.com/kurasimap/KurasiMap/internal/pkg/session"
	"github.com/kurasimap/KurasiMap/internal/pkg/statistics"
)

const viewFlushInterval = 60 * time.Second

func main() {
	env.SetupEnvFile()
	cache.SetupCache()

	provider := identity.NewClientFromEnv()
	if !provider.IsConfigured() {
		log.Println("identity provider not configured, auth endpoints will return 503")
	}

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

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/kurasimap to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}
	if basePath == "" {
		basePath = "./"
	}

	app := fiber.New(fiber.Config{
		AppName: "KurasiMap",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
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

	// Periodically drain pending view counters into the store. Pointless in
	// degraded mode, where increments are dropped anyway.
	stopFlush := make(chan struct{})
	if gw.Mode() == gateway.ModeConnected {
		go flushViewCounters(gw, stopFlush)
	}

	// graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("shutting down...")
		close(stopFlush)
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
	if err := app.Listen(addr); err != nil {
		log.Fatal(err)
	}

	// Final drain so counted views survive a restart.
	if gw.Mode() == gateway.ModeConnected {
		if err := counter.FlushLocationViews(gw); err != nil {
			log.Printf("final view counter flush failed: %v", err)
		}
	}
}

func flushViewCounters(gw *gateway.Gateway, stop <-chan struct{}) {
	ticker := time.NewTicker(viewFlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := counter.FlushLocationViews(gw); err != nil {
				log.Printf("view counter flush failed: %v", err)
			}
		case <-stop:
			return
		}
	}
}
