package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"filament-sync/core/loader"
	"filament-sync/core/logger"
	"filament-sync/core/metrics"
	"filament-sync/core/middleware/auth"
	"filament-sync/core/middleware/rayid"
	"filament-sync/feature/integrity"
	"filament-sync/feature/matcher"
	"filament-sync/feature/swatch"
	"filament-sync/feature/swatch/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "filament-sync/docs/swagger"
)

// @title Filament Sync API
// @version 1.0
// @description Read-only API over the mirrored filament swatch catalog.
// @host localhost:8080
// @BasePath /api

const shutdownTimeout = 10 * time.Second

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the API server and the sync scheduler",
	Long:  `Starts the HTTP server, loads all features and, unless disabled, runs a sync pass now and then on every interval.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Configuration, logger, database
		rt, err := bootstrap()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := models.Migrate(rt.db); err != nil {
			logg.Fatal("Failed to migrate schema", zap.Error(err))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 2. Services
		rec := metrics.New()
		matcherSvc := matcher.NewService(rt.db, rt.cfg.Matcher, logg)

		var scheduler *swatch.Scheduler
		if rt.cfg.Sync.Enabled {
			syncSvc := buildSyncService(ctx, rt, rec, rt.cfg.Sync.DryRun)
			syncSvc.AddInvalidator(matcherSvc)
			scheduler = swatch.NewScheduler(syncSvc, rt.cfg.Sync.Interval(), logg)
		} else {
			logg.Info("Sync scheduler disabled")
		}

		// 3. Fiber app
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// RayID first so every log line can be traced.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			err := c.Next()
			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("took", time.Since(start)),
			}
			if err != nil {
				l.Error("Request error", append(fields, zap.Error(err))...)
			} else {
				l.Info("Request handled", fields...)
			}
			return err
		})

		// Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", rec.Handler())
		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})

		// 4. Features under /api, behind the optional API key
		api := app.Group("/api", auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

		mgr := loader.NewManager()
		mgr.Register(swatch.NewFeature(rt.db, rt.cfg.Server.MaxPageSize, scheduler, logg))
		mgr.Register(matcher.NewFeature(matcherSvc))
		mgr.Register(integrity.NewFeature(buildIntegrity(rt)))

		if err := mgr.LoadAll(api); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Scheduler
		var wg sync.WaitGroup
		if scheduler != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				scheduler.Run(ctx)
			}()
		}

		// 6. Server
		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
				logg.Error("Server stopped", zap.Error(err))
				stop()
			}
		}()

		// 7. Graceful shutdown
		<-ctx.Done()
		logg.Info("Shutting down server...")
		_ = app.ShutdownWithTimeout(shutdownTimeout)
		wg.Wait()
		logg.Info("Shutdown complete")
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
