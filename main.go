package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"go.uber.org/zap"

	"labtrack_backend/internals/configs"
	database "labtrack_backend/internals/databases"
	kitRepo "labtrack_backend/internals/features/kits/repository"
	kitScheduler "labtrack_backend/internals/features/kits/scheduler"
	kitService "labtrack_backend/internals/features/kits/service"
	authRepo "labtrack_backend/internals/features/users/auth/repository"
	authScheduler "labtrack_backend/internals/features/users/auth/scheduler"
	authService "labtrack_backend/internals/features/users/auth/service"
	middlewares "labtrack_backend/internals/middlewares"
	"labtrack_backend/internals/middlewares/logger"
	routes "labtrack_backend/internals/route"
	"labtrack_backend/internals/scheduler"
	"labtrack_backend/internals/seeds"
)

func main() {
	cfg, envNote := configs.LoadEnv()

	log, err := configs.NewLogger(cfg.LogLevel, cfg.LogFormat, cfg.Service)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)
	log.Info(envNote)
	cfg.LogSummary(log)

	// 🔌 DB connect + migrate + pool + warm-up
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	if cfg.MigrateOnStart {
		if err := database.Migrate(db, log); err != nil {
			log.Fatal("migrate", zap.Error(err))
		}
	}
	if cfg.SeedOnStart {
		if err := seeds.RunAllSeeds(db, log); err != nil {
			log.Error("seeding gagal", zap.Error(err))
		}
	}
	database.TunePool(db, log)
	database.WarmUp(db, log)

	// Redis opsional: counter rate limiter dibagi antar instance
	if rdb := database.ConnectRedis(cfg, log); rdb != nil {
		storage := middlewares.NewRedisStorage(rdb)
		middlewares.UseLimiterStorage(storage)
		defer func() { _ = storage.Close() }()
	}

	// ⏱ scheduler setelah DB siap
	ledger := kitService.NewLedger(kitRepo.NewKitRepository(db))
	authSvc := authService.NewService(authRepo.NewAuthRepository(db), cfg.JWTSecret, cfg.JWTTTL())
	cron, err := scheduler.Start(log,
		scheduler.Job{Name: "kit-expiry", Spec: cfg.KitExpiryCron, Run: kitScheduler.ExpiryJob(ledger, time.Now, log)},
		scheduler.Job{Name: "blacklist-cleanup", Spec: "@daily", Run: authScheduler.BlacklistCleanupJob(authSvc, cfg.BlacklistTTLDays, log)},
	)
	if err != nil {
		log.Fatal("scheduler", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		BodyLimit:             4 * 1024 * 1024,
	})

	// ⚙️ middleware dasar + performa
	app.Use(middlewares.RecoveryMiddleware(log))
	app.Use(logger.RequestID())
	app.Use(logger.LoggerMiddleware(log, 10*time.Second))
	app.Use(middlewares.MetricsMiddleware())
	app.Use(middlewares.CorsMiddleware(cfg.CORSOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// ✅ Routes
	routes.SetupRoutes(app, db, log)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Info("✅ Listening", zap.String("port", cfg.Port))
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown: HTTP → cron → pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	select {
	case <-cron.Stop().Done():
	case <-ctx.Done():
		log.Warn("cron jobs masih berjalan saat shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
