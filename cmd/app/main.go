package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"custody/cmd"
	httpin "custody/internal/adapters/in/http"
	"custody/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gommonlog "github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

func main() {
	configs, err := cmd.LoadConfig(".")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logs, err := logger.New(configs.Environment, configs.LogLevel)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logs.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, *configs, logs); err != nil {
		logs.Fatal("Custody service stopped", zap.Error(err))
	}
}

func run(ctx context.Context, configs cmd.Config, logs *zap.Logger) error {
	app, err := cmd.NewCompositionRoot(ctx, configs, logs)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logs.Error("Failed to release resources", zap.Error(err))
		}
	}()

	jobManager := app.JobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	return startWebServer(ctx, app, configs, logs)
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, logs *zap.Logger) error {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(echoLogLevel(configs.LogLevel))
	e.Use(middleware.Recover())
	e.Use(httpin.RequestLogger(logs))

	httpin.NewServer(app.Handlers(), logs).RegisterRoutes(e)

	errCh := make(chan error, 1)
	go func() {
		logs.Info("HTTP server listening", zap.Int("port", configs.HTTPPort))
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%d", configs.HTTPPort))
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logs.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func echoLogLevel(level string) gommonlog.Lvl {
	switch level {
	case "debug":
		return gommonlog.DEBUG
	case "warn":
		return gommonlog.WARN
	case "error":
		return gommonlog.ERROR
	default:
		return gommonlog.INFO
	}
}
