// Package http provides the HTTP server assembly for leadhub.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/imoveisai/leadhub/internal/config"
	"github.com/imoveisai/leadhub/internal/service"
	authmw "github.com/imoveisai/leadhub/internal/transport/http/middleware"
	"github.com/imoveisai/leadhub/internal/transport/http/v1"
	"github.com/imoveisai/leadhub/internal/transport/http/webhook"
)

// NewPublicServer creates and configures the seller-facing HTTP server.
// It handles lead reads, message sends, hand-off transitions and the
// per-lead SSE stream.
func NewPublicServer(svc *service.Service, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)
	v1Handler.RegisterRoutes(e, authmw.SellerAuth(cfg.JWTSecret))

	return e
}

// NewWebhookServer creates and configures the provider-facing HTTP server.
// It receives inbound lead messages and delivery receipts.
func NewWebhookServer(svc *service.Service, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Handlers
	webhookHandler := webhook.NewHandler(svc)
	webhookHandler.RegisterRoutes(e, authmw.WebhookAuth(cfg.WebhookSecret))

	return e
}
