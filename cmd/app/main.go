package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"

	"github.com/louwis-alfred/Backend-Commerce/cmd"
	httpin "github.com/louwis-alfred/Backend-Commerce/internal/adapters/in/http"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/tracing"
)

const serviceName = "commerce"

func main() {
	config, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.InitTracerProvider(serviceName, config.JaegerEndpoint)
	if err != nil {
		log.Fatalf("init tracing: %v", err)
	}

	app, err := cmd.NewCompositionRoot(ctx, config, logger)
	if err != nil {
		log.Fatalf("init application: %v", err)
	}

	e, err := newWebServer(ctx, app)
	if err != nil {
		log.Fatalf("init web server: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("start jobs: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server starting", "port", config.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		jobManager.StopAll()
		return errors.Join(
			e.Shutdown(shutdownCtx),
			tp.Shutdown(shutdownCtx),
			app.Close(),
		)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func newWebServer(ctx context.Context, app *cmd.CompositionRoot) (*echo.Echo, error) {
	doc, err := httpin.LoadSpec(ctx)
	if err != nil {
		return nil, err
	}
	validator, err := httpin.RequestValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(tracing.Middleware(serviceName))
	e.Use(app.Metrics.Middleware())
	e.Use(validator)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(app.Metrics.Handler()))

	httpin.RegisterHandlers(e, app.CreateServer())
	return e, nil
}
