// Package server is the HTTP layer: Echo routes, JWT session auth, and the
// JSON handlers over the core services.
package server

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/sewasangat/attendance/internal/config"
	"github.com/sewasangat/attendance/pkg/core/importer"
	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/db"
)

// Server wires the Echo engine to the stores and services
type Server struct {
	echo     *echo.Echo
	cfg      *config.Config
	store    db.Database
	jobs     importer.JobStore
	logger   *zap.Logger
	validate *validator.Validate
}

// New builds the server with all routes registered
func New(cfg *config.Config, store db.Database, jobs importer.JobStore, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:     e,
		cfg:      cfg,
		store:    store,
		jobs:     jobs,
		logger:   logger,
		validate: validator.New(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.POST("/auth/login", s.handleLogin)
	s.echo.POST("/auth/logout", s.handleLogout)

	api := s.echo.Group("/api", s.requireAuth)

	api.GET("/me", s.handleMe)
	api.GET("/dashboard", s.handleDashboard)

	api.GET("/areas", s.handleListAreas)
	api.PUT("/areas/:code", s.handleUpsertArea, s.requireRole(model.RoleAdmin))
	api.GET("/centers", s.handleListCenters)
	api.PUT("/centers/:code", s.handleUpsertCenter, s.requireRole(model.RoleAdmin))

	api.GET("/sewadars", s.handleListSewadars)
	api.GET("/sewadars/:id", s.handleGetSewadar)
	api.POST("/sewadars", s.handleCreateSewadar)
	api.PUT("/sewadars/:id", s.handleUpdateSewadar)
	api.DELETE("/sewadars/:id", s.handleDeleteSewadar, s.requireRole(model.RoleAdmin))

	api.GET("/events", s.handleListEvents)
	api.GET("/events/occurrences", s.handleListEventOccurrences)
	api.POST("/events", s.handleCreateEvent, s.requireRole(model.RoleAdmin))

	api.POST("/attendance", s.handleSubmitAttendance)
	api.GET("/attendance", s.handleListAttendance)

	api.POST("/imports", s.handleStartImport, s.requireRole(model.RoleAdmin))
	api.GET("/imports/:id", s.handleImportResult, s.requireRole(model.RoleAdmin))
	api.GET("/imports/:id/progress", s.handleImportProgress, s.requireRole(model.RoleAdmin))
}

// Start begins serving on the configured address, blocking until shutdown
func (s *Server) Start() error {
	s.logger.Info("Server listening", zap.String("addr", s.cfg.ListenAddr))
	return s.echo.Start(s.cfg.ListenAddr)
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
