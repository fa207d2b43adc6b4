package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/resumatch/internal/config"
	"github.com/Abraxas-365/resumatch/internal/httpserver"
	"github.com/Abraxas-365/resumatch/matching/analysis/analysisapi"
	"github.com/Abraxas-365/resumatch/matching/ingestion/ingestionapi"
	"github.com/Abraxas-365/resumatch/matching/user/userauth"
	"github.com/Abraxas-365/resumatch/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

func main() {
	// 1. Configuration and logger
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}
	logx.SetOutput(os.Stderr, cfg.LogJSON)
	logx.SetLevel(logx.ParseLevel(cfg.LogLevel))
	logx.Info("Starting resumatch API server...")

	// 2. Dependency container
	container := NewContainer(cfg)
	defer container.Close()

	// 3. Fiber app with the shared error handler and middleware
	app := httpserver.New(httpserver.Options{
		AppName:     "resumatch API",
		BodyLimit:   cfg.Server.BodyLimit,
		CORSOrigins: cfg.Server.CORSOrigins,
		AccessLog:   true,
	})

	// 4. Health
	app.Get("/", func(c *fiber.Ctx) error {
		status := "disconnected"
		if container.DatabaseConnected(c.UserContext()) {
			status = "connected"
		}
		return c.JSON(fiber.Map{"database": status})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		resp := fiber.Map{
			"status": "ok",
			"db":     container.DatabaseConnected(c.UserContext()),
			"model":  container.Model.Name(),
		}
		if container.Redis != nil {
			resp["redis"] = container.Redis.Ping(c.UserContext()).Err() == nil
		}
		return c.JSON(resp)
	})

	// 5. Routes

	// /SignUp, /login, /me
	userauth.RegisterRoutes(app, container.AuthHandlers, container.AuthMiddleware)

	// /api/upload/extract-text, /api/upload/extract-text-only
	ingestionapi.RegisterRoutes(app, container.IngestionHandlers, container.AuthMiddleware)

	// /api/upload/analyses, /api/upload/save-analysis, /api/analysis/*
	analysisapi.RegisterRoutes(app, container.AnalysisHandlers, container.AuthMiddleware)

	// 6. Start server with graceful shutdown
	go func() {
		logx.Infof("Server listening on port %s", cfg.Server.Port)
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c
	logx.Info("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("Server exited")
}
