package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nventive-labs/todosync/internal/api/handler"
	"github.com/nventive-labs/todosync/internal/api/middleware"
	"github.com/nventive-labs/todosync/internal/core/ports"
	"github.com/nventive-labs/todosync/internal/realtime"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// db and rdb are only used by the readiness probe and may be nil.
func NewRouter(
	authService ports.AuthService,
	todoService ports.TodoService,
	ws *realtime.Handler,
	db *sql.DB,
	rdb *redis.Client,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("todosync"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(authService)
	todoHandler := handler.NewTodoHandler(todoService)
	authMiddleware := middleware.Auth(authService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Event channel (authenticates itself during the handshake) ---
	e.GET("/ws", ws.Serve)

	// --- REST mirror of the event channel ---
	todos := e.Group("/todos", authMiddleware)
	todos.GET("", todoHandler.List)
	todos.POST("", todoHandler.Add)
	todos.DELETE("/:id", todoHandler.Delete)
	todos.GET("/:id/comments", todoHandler.ListComments)
	todos.POST("/:id/comments", todoHandler.AddComment)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
