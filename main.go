// Package main boots the membership site.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/members/config"
	"github.com/ncobase/members/data"
	"github.com/ncobase/members/handler"
	"github.com/ncobase/members/middleware"
	"github.com/ncobase/members/service"
	"github.com/ncobase/ncore/logging/logger"
	"github.com/ncobase/ncore/net/resp"
)

// App represents the main application.
type App struct {
	config  *config.Config
	logger  *logger.Logger
	data    *data.Data
	service *service.Service
	handler *handler.Handler
	server  *http.Server
}

// NewApp creates a new application instance with manual dependency injection.
func NewApp(configPath string) (*App, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	cleanup1, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	log := logger.StdLogger()

	dataLayer, err := data.New(cfg.Data.MongoDB, log)
	if err != nil {
		cleanup1()
		return nil, nil, fmt.Errorf("failed to create data layer: %w", err)
	}

	svc := service.NewService(dataLayer, cfg.Session, log)
	h := handler.NewHandler(svc, log)

	app := &App{
		config:  cfg,
		logger:  log,
		data:    dataLayer,
		service: svc,
		handler: h,
	}

	config.Watch(func(*config.Config) {
		log.Info(context.Background(), "configuration reloaded")
	})

	cleanup := func() {
		if err := dataLayer.Close(); err != nil {
			log.Error(context.Background(), "failed to close data layer", "error", err)
		}
		cleanup1()
	}

	return app, cleanup, nil
}

// Run starts the application server.
func (a *App) Run() error {
	if a.config.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(a.loggerMiddleware())
	router.Use(middleware.Session(a.service.Auth, a.logger))

	router.LoadHTMLGlob("templates/*.html")
	router.Static("/static", "./static")

	a.handler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		if err := a.data.Health(c.Request.Context()); err != nil {
			resp.Fail(c.Writer, resp.InternalServer("unhealthy"))
			return
		}
		resp.Success(c.Writer, map[string]string{"status": "healthy"})
	})

	addr := a.config.Addr()
	a.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		a.logger.Info(context.Background(), "Starting server", "addr", addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(context.Background(), "Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info(context.Background(), "Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error(ctx, "Server forced to shutdown", "error", err)
		return err
	}

	a.logger.Info(context.Background(), "Server exited")
	return nil
}

// loggerMiddleware creates a Gin middleware for request logging.
func (a *App) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		a.logger.Info(c.Request.Context(), "HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}

func main() {
	configPath := flag.String("conf", "config.yaml", "path to the configuration file")
	flag.Parse()

	app, cleanup, err := NewApp(*configPath)
	if err != nil {
		fmt.Printf("Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		fmt.Printf("Failed to run app: %v\n", err)
		os.Exit(1)
	}
}
