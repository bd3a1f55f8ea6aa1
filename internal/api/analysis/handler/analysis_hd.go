package analysisHandler

import (
	"TrattoriaGolang/internal/api/analysis"
	contextPkg "TrattoriaGolang/pkg/context"
	"TrattoriaGolang/pkg/handlerUtil"
	"TrattoriaGolang/pkg/log"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *AnalysisHandler) Analyze(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing analyze request")

	var req analysis.AnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if req.ConversationID != "" && req.SampleID != "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("conversation_id and sample_id are mutually exclusive"), ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	record, err := h.analysisService.Analyze(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_conversation")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, record)
	}
}

func (h *AnalysisHandler) GetAnalysis(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	conversationID := ctx.Params("conversation_id")
	if conversationID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("conversation_id is required"), ctx.Path())
	}

	record, err := h.analysisService.GetAnalysis(c, conversationID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_analysis")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, record)
	}
}

func (h *AnalysisHandler) GetAnalysisStatus(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	conversationID := ctx.Params("conversation_id")
	if conversationID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("conversation_id is required"), ctx.Path())
	}

	status, err := h.analysisService.GetAnalysisStatus(c, conversationID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_analysis_status")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, status)
	}
}
