package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/monowartv/iptv-backend/app/controllers"
	"github.com/monowartv/iptv-backend/app/repository"
	"github.com/monowartv/iptv-backend/internal/pkg/accessgate"
	"github.com/monowartv/iptv-backend/internal/pkg/cache"
	"github.com/monowartv/iptv-backend/internal/pkg/database"
	"github.com/monowartv/iptv-backend/internal/pkg/env"
	metrics "github.com/monowartv/iptv-backend/internal/pkg/metrics/counter"
	"github.com/monowartv/iptv-backend/internal/pkg/router"
	"github.com/monowartv/iptv-backend/internal/pkg/security"
	"github.com/monowartv/iptv-backend/internal/pkg/worker"
)

func main() {
	app := NewApplication()

	// stop background workers on SIGINT/SIGTERM before the server exits
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		worker.GetManager().Stop()
		_ = app.Shutdown()
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "0.0.0.0"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	// access gate: entitlement checks, playback tokens, best-effort counters
	repos := repository.GetGlobalRepositories()
	issuer := security.NewStreamTokenIssuer([]byte(env.GetEnv("STREAM_TOKEN_SECRET", env.GetEnv("JWT_SECRET", ""))))
	gate := accessgate.New(repos.Channel, repos.Subscription, repos.WatchHistory,
		metrics.ChannelViewerAdder{}, issuer, "/api/v1/channel")
	controllers.SetStreamGate(gate)

	worker.GetManager().Start()

	app := fiber.New(fiber.Config{
		AppName: "iptv-backend",
	})
	app.Use(recover.New(), logger.New(), cors.New())
	app.Get("/metrics", monitor.New())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ROUTER
	router.InstallRouter(app)

	return app
}
