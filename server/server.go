package server

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/existflow/daygrid/internal/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

// Server is the daygrid backend: owner-scoped category and todo storage
// behind token-authenticated replace/load endpoints.
type Server struct {
	db    *sql.DB
	echo  *echo.Echo
	cron  *cron.Cron
	oauth oauthProviders
}

// New creates a new server
func New(dbURL string) (*Server, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Server{
		db:    db,
		oauth: defaultOAuthProviders(),
	}

	// Run migrations
	if err := s.migrate(); err != nil {
		return nil, err
	}

	s.setupEcho()
	s.startCleanup()

	return s, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	// Custom logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			res := c.Response()
			logger.Info("HTTP",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("duration", time.Since(start).String()))

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// API v1
	api := e.Group("/api/v1")

	// Auth endpoints (public)
	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)
	api.POST("/oauth/:provider", s.handleOAuthExchange)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.GET("/me", s.handleMe)
	protected.POST("/logout", s.handleLogout)
	protected.GET("/categories", s.handleLoadCategories)
	protected.PUT("/categories", s.handleReplaceCategories)
	protected.GET("/todos", s.handleLoadTodos)
	protected.PUT("/todos/:dayKey", s.handleReplaceTodosForDay)

	s.echo = e
}

// Close stops the cleanup job and closes the database connection
func (s *Server) Close() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	return s.db.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
