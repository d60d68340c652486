package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/batagalla/mushmind-detector/internal/api/handler"
	"github.com/batagalla/mushmind-detector/internal/api/middleware"
	"github.com/batagalla/mushmind-detector/internal/core/domain"
	"github.com/batagalla/mushmind-detector/internal/core/ports"
	"github.com/batagalla/mushmind-detector/internal/infrastructure/http/handlers"
)

// Dependencies is everything the HTTP layer needs, already constructed.
type Dependencies struct {
	Tokens middleware.TokenValidator
	Users  middleware.IdentityLoader
	Admins middleware.AdminProfileLoader

	Auth     ports.AuthService
	Images   ports.ImageService
	Feedback ports.FeedbackService
	Admin    ports.AdminService

	// LoginLimiter is optional; nil disables login throttling.
	LoginLimiter handler.LoginLimiter
	HealthChecks map[string]handlers.Check
	// Registry is optional; when set, request metrics and /metrics are enabled.
	Registry *prometheus.Registry

	Logger         zerolog.Logger
	Production     bool
	MaxUploadBytes int64
	CORSOrigins    []string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger, deps.Production)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	if len(deps.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{AllowOrigins: deps.CORSOrigins}))
	}
	if deps.MaxUploadBytes > 0 {
		// multipart framing needs some room above the raw file size
		e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dK", deps.MaxUploadBytes/1024+64)))
	}
	if deps.Registry != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "mushmind",
			Registerer: deps.Registry,
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Registry}))
	}

	// --- Health probes and docs (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(deps.HealthChecks).Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	auth := middleware.Auth(deps.Tokens, deps.Users)
	api := e.Group("/api")

	// --- Users ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.LoginLimiter, deps.Logger)
	api.POST("/users/register", authHandler.Register)
	api.POST("/users/login", authHandler.Login)
	api.GET("/users/profile", authHandler.Profile, auth)
	api.PUT("/users/profile", authHandler.UpdateProfile, auth)

	// --- Images ---
	imageHandler := handler.NewImageHandler(deps.Images, deps.MaxUploadBytes)
	images := api.Group("/images", auth)
	images.POST("/upload", imageHandler.Upload)
	images.GET("/user", imageHandler.ListOwn)
	images.GET("/search-history", imageHandler.History)
	images.GET("/recent", imageHandler.History)
	images.GET("/:id", imageHandler.Get)
	images.POST("/:id/classify", imageHandler.Classify)
	images.DELETE("/:id", imageHandler.Delete)

	// --- Feedback ---
	feedbackHandler := handler.NewFeedbackHandler(deps.Feedback)
	feedback := api.Group("/feedback", auth)
	feedback.POST("", feedbackHandler.Create)
	feedback.GET("/user", feedbackHandler.ListOwn)
	feedback.GET("/image/:imageId", feedbackHandler.ListForImage)
	feedback.GET("/:id", feedbackHandler.Get)
	feedback.PUT("/:id", feedbackHandler.Update)
	feedback.DELETE("/:id", feedbackHandler.Delete)

	// --- Admin ---
	adminHandler := handler.NewAdminHandler(deps.Admin, deps.Feedback)
	requireAdmin := func(perms ...domain.Permission) echo.MiddlewareFunc {
		return middleware.RequireAdmin(deps.Admins, perms...)
	}
	admin := api.Group("/admin", auth)
	admin.GET("/stats", adminHandler.Stats, requireAdmin())
	admin.GET("/users", adminHandler.ListUsers, requireAdmin(domain.PermManageUsers))
	admin.PUT("/users/:id/role", adminHandler.UpdateRole, requireAdmin(domain.PermManageUsers))
	admin.PUT("/users/:id/permissions", adminHandler.UpdatePermissions, requireAdmin(domain.PermSystemSettings))
	admin.GET("/feedback", adminHandler.ListFeedback, requireAdmin(domain.PermReviewFeedback))
	admin.PUT("/feedback/:id/review", adminHandler.ReviewFeedback, requireAdmin(domain.PermReviewFeedback))
	admin.DELETE("/feedback/:id", adminHandler.DeleteFeedback, requireAdmin(domain.PermReviewFeedback))
	admin.GET("/settings/system", adminHandler.SystemSettings, requireAdmin())
	admin.PUT("/settings/system", adminHandler.UpdateSystemSettings, requireAdmin(domain.PermSystemSettings))
	admin.GET("/settings/model", adminHandler.ModelSettings, requireAdmin())
	admin.PUT("/settings/model", adminHandler.UpdateModelSettings, requireAdmin(domain.PermSystemSettings))

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			if u, ok := middleware.IdentityFrom(c); ok {
				ev = ev.Str("user_id", u.ID)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
