package http

import (
	"context"
	stdhttp "net/http"

	"booth-service/internal/auth"
	"booth-service/internal/config"
	"booth-service/internal/http/handler"
	"booth-service/internal/http/middleware"
	"booth-service/pkg/metrics"
	"booth-service/pkg/profiling"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	jsonKeyStatus = "status"
	statusOK      = "ok"
	// Multipart uploads carry several photos; JSON bodies are capped again by
	// the strict binder.
	requestBodyLimit = "64M"
)

type ServerDependencies struct {
	Config         *config.Config
	AuthMiddleware *auth.Middleware
	Resolver       handler.ScopeResolver
	Events         handler.EventManager
	Photos         handler.PhotoService
	Deliveries     handler.DeliveryService
	Production     handler.ProductionStore
	Selections     handler.SelectionService
	Checkins       handler.CheckinStore
	Notifications  handler.NotificationStore
	Audit          handler.AuditLog
	HealthCheck    func(ctx context.Context) error
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID first so every log line carries it.
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	requestMetrics := metrics.New()
	e.Use(requestMetrics.Middleware())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())
	strictRateLimiter := middleware.NewStrictRateLimiter()

	maxUpload := deps.Config.App.MaxUploadSize
	eventHandler := handler.NewEventHandler(deps.Events, deps.Resolver, maxUpload)
	photoHandler := handler.NewPhotoHandler(deps.Photos, deps.Resolver, maxUpload)
	deliveryHandler := handler.NewDeliveryHandler(deps.Deliveries, deps.Production, deps.Resolver, maxUpload)
	selectionHandler := handler.NewSelectionHandler(deps.Selections, deps.Resolver)
	checkinHandler := handler.NewCheckinHandler(deps.Checkins, deps.Notifications, deps.Resolver)
	adminHandler := handler.NewAdminHandler(deps.Deliveries, deps.Production, deps.Resolver, deps.Audit)
	webhookHandler := handler.NewWebhookHandler(deps.Events, deps.Resolver, deps.Audit)

	e.GET("/health", healthCheck(deps.HealthCheck))

	// Public token endpoints
	e.GET("/deliveries/:owner_id/:event_id/production/:id/:filename", deliveryHandler.Download, strictRateLimiter.Middleware())
	e.GET("/selections/:owner_id/:event_id/:token", selectionHandler.Describe, strictRateLimiter.Middleware())
	e.POST("/selections/:owner_id/:event_id/:token", selectionHandler.Submit, strictRateLimiter.Middleware())
	e.POST("/webhooks/payments", webhookHandler.Payment, strictRateLimiter.Middleware(), deps.AuthMiddleware.RequireWebhookSecret())

	api := e.Group("/api")
	api.Use(deps.AuthMiddleware.RequireJWT())

	api.GET("/events", eventHandler.ListEvents)
	api.POST("/events", eventHandler.CreateEvent)
	api.GET("/events/:slug", eventHandler.GetEvent)
	api.DELETE("/events/:slug", eventHandler.DeleteEvent)
	api.PATCH("/events/:slug/status", eventHandler.UpdateStatus)
	api.PUT("/events/:slug/plan", eventHandler.UpdatePlan)
	api.POST("/events/:slug/collaborators", eventHandler.AddCollaborator)
	api.DELETE("/events/:slug/collaborators/:user_id", eventHandler.RemoveCollaborator)
	api.GET("/events/:slug/usage", eventHandler.GetUsage)
	api.POST("/events/:slug/backgrounds", eventHandler.UploadBackground)

	api.POST("/events/:slug/photos", photoHandler.UploadPhoto)
	api.GET("/events/:slug/photos", photoHandler.ListPhotos)
	api.POST("/events/:slug/photos/:photo_id/process", photoHandler.ProcessPhoto)

	api.POST("/events/:slug/deliveries", deliveryHandler.CreateDelivery)
	api.GET("/events/:slug/production", deliveryHandler.ListProduction)
	api.DELETE("/events/:slug/production/:id", deliveryHandler.DeleteProduction)
	api.GET("/shared/:owner_id/events/:slug/production", deliveryHandler.ListSharedProduction)

	api.POST("/events/:slug/selections", selectionHandler.Invite)
	api.POST("/shared/:owner_id/events/:slug/selections", selectionHandler.InviteShared)

	api.POST("/events/:slug/checkins", checkinHandler.Register)
	api.GET("/events/:slug/checkins", checkinHandler.List)
	api.DELETE("/events/:slug/checkins/:id", checkinHandler.Delete)
	api.POST("/events/:slug/notifications", checkinHandler.Ping)
	api.GET("/events/:slug/notifications", checkinHandler.ListNotifications)
	api.DELETE("/events/:slug/notifications/:id", checkinHandler.ClearNotification)

	ops := e.Group("/admin/ops", strictRateLimiter.Middleware(), deps.AuthMiddleware.RequireAdminKey())
	ops.GET("/metrics", requestMetrics.Handler)
	ops.POST("/metrics/reset", requestMetrics.ResetHandler)
	if deps.Config.Server.EnableProfiling {
		profiling.RegisterPprofRoutes(ops.Group("/debug/pprof"))
	}

	admin := e.Group("/admin/owners/:owner_id/events/:event_id", strictRateLimiter.Middleware(), deps.AuthMiddleware.RequireAdminKey())
	admin.GET("/production", adminHandler.ListProduction)
	admin.DELETE("/production", adminHandler.DeleteAllProduction)
	admin.DELETE("/production/:id", adminHandler.DeleteProduction)
	admin.POST("/production/:id/resend", adminHandler.ResendDelivery)
	admin.GET("/audit", adminHandler.ListAudit)

	return &Server{
		echo: e,
		deps: deps,
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() stdhttp.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(check func(ctx context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if check != nil {
			if err := check(c.Request().Context()); err != nil {
				return c.JSON(stdhttp.StatusServiceUnavailable, map[string]string{
					jsonKeyStatus: "unavailable",
				})
			}
		}
		return c.JSON(stdhttp.StatusOK, map[string]string{
			jsonKeyStatus: statusOK,
		})
	}
}
