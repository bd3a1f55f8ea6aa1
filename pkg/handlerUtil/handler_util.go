package handlerUtil

import (
	"TrattoriaGolang/internal/api/analysis"
	"TrattoriaGolang/pkg/log"
	"TrattoriaGolang/pkg/response"
	"errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(fiber.Map{"error": err.Error()})
	}

	// Analysis domain errors
	if errors.Is(err, analysis.ErrExtractionTransport) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Extraction service unreachable")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Extraction service unreachable",
			"code":  "EXTRACTION_TRANSPORT",
		})
	}

	if errors.Is(err, analysis.ErrExtractionFormat) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Extraction payload unusable")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Extraction service returned an unusable payload",
			"code":  "EXTRACTION_FORMAT",
		})
	}

	if errors.Is(err, analysis.ErrAnalysisNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Analysis not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Analysis not found",
			"code":  "ANALYSIS_NOT_FOUND",
		})
	}

	if errors.Is(err, analysis.ErrSampleNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Sample conversation not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Sample conversation not found",
			"code":  "SAMPLE_NOT_FOUND",
		})
	}

	if errors.Is(err, analysis.ErrEmptyTranscript) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Empty transcript")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Transcript is empty",
			"code":  "EMPTY_TRANSCRIPT",
		})
	}

	if errors.Is(err, analysis.ErrMissingTarget) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Missing analysis target")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Either conversation_id or sample_id is required",
			"code":  "MISSING_TARGET",
		})
	}

	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}).Error("Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "An unexpected error occurred",
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
