package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ebhcs/bulletin-board/internal/api/handler"
	"github.com/ebhcs/bulletin-board/internal/api/middleware"
	"github.com/ebhcs/bulletin-board/internal/core/domain"
	"github.com/ebhcs/bulletin-board/internal/core/ports"
	"github.com/ebhcs/bulletin-board/internal/imaging"
)

// Deps carries the wired services the router exposes. Mongo, Redis and
// Attachments may be nil when the server runs on its local fallbacks.
type Deps struct {
	Log             zerolog.Logger
	JWTSecret       string
	PublicBaseURL   string
	BulletinService ports.BulletinService
	AuthService     ports.AuthService
	Optimizer       *imaging.Optimizer
	Snapshots       ports.SnapshotSource
	Attachments     handler.AttachmentStore
	Mongo           *mongo.Database
	Redis           *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("bulletin"))

	requireAuth := middleware.Auth(deps.JWTSecret)
	optionalAuth := middleware.OptionalAuth(deps.JWTSecret)
	advisorOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleAdvisor)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	bulletinHandler := handler.NewBulletinHandler(deps.BulletinService)
	viewHandler := handler.NewViewHandler(deps.BulletinService)
	imageHandler := handler.NewImageHandler(deps.Optimizer)
	streamHandler := handler.NewStreamHandler(deps.Snapshots)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/reset-request", authHandler.RequestReset)
	e.PUT("/auth/password", authHandler.ChangePassword, requireAuth)

	// --- Bulletin API: reads are public, writes require a signed-in advisor ---
	v1 := e.Group("/v1")
	v1.GET("/bulletins", bulletinHandler.List)
	v1.GET("/bulletins/:id", bulletinHandler.Get)
	v1.POST("/bulletins", bulletinHandler.Create, requireAuth, advisorOnly)
	v1.PUT("/bulletins/:id", bulletinHandler.Update, requireAuth, advisorOnly)
	v1.DELETE("/bulletins/:id", bulletinHandler.Delete, requireAuth, advisorOnly)

	// --- Rendered views: public, manage controls appear when signed in ---
	v1.GET("/views/:view", viewHandler.Board, optionalAuth)
	v1.GET("/views/bulletin/:id", viewHandler.Detail, optionalAuth)
	v1.GET("/views/calendar/:date", viewHandler.Day, optionalAuth)

	// --- Live snapshot stream ---
	v1.GET("/stream", streamHandler.Stream)

	// --- Uploads ---
	v1.POST("/images/optimize", imageHandler.Optimize, requireAuth, advisorOnly)
	if deps.Attachments != nil {
		attachmentHandler := handler.NewAttachmentHandler(deps.Attachments, deps.PublicBaseURL)
		v1.POST("/attachments", attachmentHandler.Upload, requireAuth, advisorOnly)
		e.GET("/files/:id", attachmentHandler.Download)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
