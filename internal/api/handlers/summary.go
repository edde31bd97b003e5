package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/models"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/services"
)

type SummaryHandler struct {
	summaryService *services.SummaryService
	logger         *logrus.Logger
}

func NewSummaryHandler(summaryService *services.SummaryService, logger *logrus.Logger) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
		logger:         logger,
	}
}

// StartSession handles POST /api/start-session
func (h *SummaryHandler) StartSession(c *fiber.Ctx) error {
	var req models.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.summaryService.StartSession(c.UserContext(), req.Transcript, req.UserInstruction)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to start summarization session")
	}

	return c.JSON(resp)
}

// Summarize handles POST /api/summarize
func (h *SummaryHandler) Summarize(c *fiber.Ctx) error {
	var req models.SummarizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.summaryService.Refine(c.UserContext(), req.SessionID, req.Prompt)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to generate summary")
	}

	return c.JSON(resp)
}
