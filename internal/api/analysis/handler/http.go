package analysisHandler

import (
	analysisService "TrattoriaGolang/internal/api/analysis/service"
	"TrattoriaGolang/internal/middleware"
	websocketPkg "TrattoriaGolang/pkg/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type AnalysisHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	analysisService analysisService.IAnalysisService
	eventHub        websocketPkg.IEventHub
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as analysisService.IAnalysisService,
	eventHub websocketPkg.IEventHub,
) *AnalysisHandler {
	return &AnalysisHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		analysisService: as,
		eventHub:        eventHub,
	}
}

func (h *AnalysisHandler) Start(srv fiber.Router) {
	srv.Post("/analyses", h.middleware.NewRateLimiter, h.Analyze)
	srv.Get("/analyses/:conversation_id", h.GetAnalysis)
	srv.Get("/analyses/:conversation_id/status", h.GetAnalysisStatus)

	analytics := srv.Group("/analytics")
	analytics.Get("/products", h.GetProductSummaries)
	analytics.Get("/reservations", h.GetReservationsByDay)

	srv.Use("/conversations/:conversation_id/events", h.UpgradeConversationEvents)
	srv.Get("/conversations/:conversation_id/events", websocket.New(h.ConversationEvents))
}
