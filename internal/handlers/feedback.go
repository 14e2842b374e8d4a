package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/speakbetter/persona-coach/internal/cache"
	"github.com/speakbetter/persona-coach/internal/types"
)

// Synthesizer turns coaching text into an audio URL.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, personaID string) (string, error)
}

// FeedbackHandler narrates cached coaching text on confirmation
type FeedbackHandler struct {
	attempts *cache.AttemptCache
	tts      Synthesizer
	log      *logrus.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(attempts *cache.AttemptCache, tts Synthesizer, log *logrus.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		attempts: attempts,
		tts:      tts,
		log:      log,
	}
}

// Handle processes a confirm-feedback request. The endpoint never fails:
// missing attempts and TTS errors both resolve to a text fallback.
func (h *FeedbackHandler) Handle(c *fiber.Ctx) error {
	var req types.ConfirmFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "ERR_INVALID_BODY",
		})
	}

	attempt, ok := h.attempts.Get(req.AttemptID)
	if !ok {
		return c.JSON(fallbackResponse("No coaching text found for this attemptId."))
	}
	if attempt.CoachingText == "" {
		return c.JSON(fallbackResponse("No coaching text available for this attemptId."))
	}

	audioURL, err := h.tts.Synthesize(c.UserContext(), attempt.CoachingText, attempt.PersonaID)
	if err != nil {
		h.log.Warnf("TTS synthesis failed for attempt %s: %v", req.AttemptID, err)
		return c.JSON(fallbackResponse(attempt.CoachingText))
	}

	return c.JSON(types.ConfirmFeedbackResponse{
		AudioURL:     &audioURL,
		FallbackText: nil,
	})
}

func fallbackResponse(text string) types.ConfirmFeedbackResponse {
	return types.ConfirmFeedbackResponse{
		AudioURL:     nil,
		FallbackText: &text,
	}
}
