package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladimiradmaev/fitscan-coach/internal/config"
	"github.com/vladimiradmaev/fitscan-coach/internal/logger"
	"github.com/vladimiradmaev/fitscan-coach/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// NewRouter builds the gin engine with every route of the API.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(&config.Config{})
	}
	h := NewHandler(deps)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), metrics.Middleware(deps.Metrics))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	v1.POST("/auth/login", h.Login)
	v1.POST("/analyses", OptionalAuthMiddleware(deps.Tokens), h.Analyze)

	authed := v1.Group("")
	authed.Use(AuthMiddleware(deps.Tokens))
	{
		authed.POST("/auth/logout", h.Logout)
		authed.GET("/profile", h.GetProfile)
		authed.PUT("/profile/name", h.Rename)
		authed.POST("/profile/onboarding", h.CompleteOnboarding)
		authed.POST("/log", h.LogFood)
		authed.GET("/dashboard", h.Dashboard)
		authed.POST("/devices/toggle", h.ToggleDevice)
		authed.POST("/recipes", h.GenerateRecipe)
		authed.GET("/chat", h.ChatHistory)
		authed.POST("/chat", h.SendChat)
	}
	return router
}

func requestLogger() gin.HandlerFunc {
	log := logger.With("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

type Server struct {
	srv *http.Server
}

func NewServer(cfg config.HTTPConfig, deps Dependencies) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           NewRouter(deps),
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Listening HTTP clients", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("HTTP server shutting down")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
