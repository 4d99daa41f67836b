// Package server exposes the translation engine over HTTP. Inbound clinical
// resources arrive as JSON, outbound documents leave as canonical XML headed
// for the national backbone.
package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eprescribe/coordinator/internal/config"
	"github.com/eprescribe/coordinator/internal/platform/middleware"
	"github.com/eprescribe/coordinator/internal/platform/spine"
	"github.com/eprescribe/coordinator/internal/translation"
)

// New builds the echo application with the route table and global
// middleware.
func New(cfg *config.Config, logger zerolog.Logger, client spine.Client) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M", "10M"))
	e.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
	// Longer than the backbone client timeout so slow submissions surface
	// the client error, not a blanket 504.
	e.Use(middleware.RequestTimeout(60 * time.Second))

	handler := NewHandler(cfg, logger, client)
	handler.RegisterRoutes(e)

	return e
}

// Handler holds the collaborators shared by every route.
type Handler struct {
	cfg     *config.Config
	logger  zerolog.Logger
	factory *translation.PayloadFactory
	spine   spine.Client
}

func NewHandler(cfg *config.Config, logger zerolog.Logger, client spine.Client) *Handler {
	return &Handler{
		cfg:     cfg,
		logger:  logger,
		factory: translation.NewPayloadFactory(logger, cfg.SenderASID, cfg.ReceiverASID),
		spine:   client,
	}
}

// RegisterRoutes binds the operation endpoints.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/$prepare", h.Prepare)
	e.POST("/$process-message", h.ProcessMessage)
	e.POST("/Task", h.SubmitTask)
	e.POST("/Claim", h.SubmitClaim)
	e.POST("/$convert", h.Convert)
	e.POST("/$dose-to-text", h.DoseToText)
	e.GET("/_poll/:id", h.Poll)
	e.GET("/_status", h.Status)
}

// Status reports readiness and the configured submission mode.
func (h *Handler) Status(c echo.Context) error {
	mode := "live"
	if h.cfg.SandboxMode {
		mode = "sandbox"
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "pass",
		"mode":   mode,
	})
}
