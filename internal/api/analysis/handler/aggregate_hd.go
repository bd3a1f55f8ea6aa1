package analysisHandler

import (
	contextPkg "TrattoriaGolang/pkg/context"
	"TrattoriaGolang/pkg/handlerUtil"
	"TrattoriaGolang/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *AnalysisHandler) GetProductSummaries(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing product summaries request")

	summaries, err := h.analysisService.ProductSummaries(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_product_summaries")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"products": summaries,
		})
	}
}

func (h *AnalysisHandler) GetReservationsByDay(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing reservations by day request")

	days, err := h.analysisService.ReservationsByDay(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_reservations_by_day")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"days": days,
		})
	}
}
