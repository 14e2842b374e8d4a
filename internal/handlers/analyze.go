// Package handlers wires the HTTP API: persona catalog, speech analysis,
// feedback confirmation and the live metrics websocket.
package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/speakbetter/persona-coach/internal/analysis"
	"github.com/speakbetter/persona-coach/internal/cache"
	"github.com/speakbetter/persona-coach/internal/persona"
	"github.com/speakbetter/persona-coach/internal/storage"
	"github.com/speakbetter/persona-coach/internal/telemetry"
	"github.com/speakbetter/persona-coach/internal/types"
)

// CoachingGenerator produces coaching feedback for an analyzed attempt.
// Implementations never fail; provider errors resolve to fallback coaching.
type CoachingGenerator interface {
	Generate(ctx context.Context, transcript string, p types.Persona, m types.Metrics, score types.PersonaScore) types.Coaching
}

// AnalyzeHandler runs the full analysis pipeline for one speech attempt
type AnalyzeHandler struct {
	catalog    *persona.Catalog
	coach      CoachingGenerator
	attempts   *cache.AttemptCache
	sessions   *storage.SessionStore
	sessionLog *storage.SessionLog
	log        *logrus.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(
	catalog *persona.Catalog,
	coach CoachingGenerator,
	attempts *cache.AttemptCache,
	sessions *storage.SessionStore,
	sessionLog *storage.SessionLog,
	log *logrus.Logger,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		catalog:    catalog,
		coach:      coach,
		attempts:   attempts,
		sessions:   sessions,
		sessionLog: sessionLog,
		log:        log,
	}
}

// Handle processes an analyze-speech request
func (h *AnalyzeHandler) Handle(c *fiber.Ctx) error {
	start := time.Now()

	var req types.AnalyzeSpeechRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
			"code":  "ERR_INVALID_BODY",
		})
	}

	// Persona lookup. The label is a constant here: client-supplied ids
	// must not mint new time series.
	p, ok := h.catalog.Get(req.PersonaID)
	if !ok {
		telemetry.AnalyzeRequestsTotal.WithLabelValues("unknown", "unknown_persona").Inc()
		return c.Status(400).JSON(fiber.Map{
			"error": "Unknown personaId",
			"code":  "ERR_UNKNOWN_PERSONA",
		})
	}

	// Metrics and scoring are pure; everything below is glue around them.
	metrics := analysis.Compute(req.Transcript, req.DurationSeconds)
	score := persona.Score(metrics, p)

	coaching := h.coach.Generate(c.UserContext(), req.Transcript, p, metrics, score)
	highlights := analysis.Highlights(req.Transcript, nil)

	coachingText := coachingTextForTTS(coaching)

	attemptID := uuid.New().String()
	h.attempts.Put(attemptID, p.ID, coachingText)

	h.logSession(attemptID, p.ID, metrics, score)

	perSentenceEmotions := coaching.PerSentenceEmotions
	if perSentenceEmotions == nil {
		perSentenceEmotions = []string{}
	}
	if highlights == nil {
		highlights = []types.Highlight{}
	}
	coaching.PerSentenceEmotions = nil

	telemetry.AnalyzeRequestsTotal.WithLabelValues(p.ID, "ok").Inc()
	telemetry.AnalyzeDuration.Observe(time.Since(start).Seconds())

	return c.JSON(types.AnalyzeSpeechResponse{
		Metrics:             metrics,
		PersonaScore:        score,
		Coaching:            coaching,
		Highlights:          highlights,
		PerSentenceEmotions: perSentenceEmotions,
		AttemptID:           attemptID,
		NeedsConfirmation:   true,
		CoachingTextForTTS:  coachingText,
	})
}

// coachingTextForTTS joins the summary and tips into the narration text.
func coachingTextForTTS(coaching types.Coaching) string {
	text := coaching.Summary
	if tips := strings.Join(coaching.Tips, " "); tips != "" {
		text += " - " + tips
	}
	return strings.TrimSpace(text)
}

// logSession records the attempt in the session store and JSONL log.
// Both are best-effort: failures are logged and the request proceeds.
func (h *AnalyzeHandler) logSession(attemptID, personaID string, metrics types.Metrics, score types.PersonaScore) {
	now := time.Now().UTC()

	if h.sessions != nil {
		err := h.sessions.Save(types.Session{
			AttemptID:     attemptID,
			PersonaID:     personaID,
			WPM:           metrics.WPM,
			TotalWords:    metrics.TotalWords,
			TotalFillers:  metrics.TotalFillers,
			FillersPerMin: metrics.FillersPerMin,
			Overall:       score.Overall,
			CreatedAt:     now,
		})
		if err != nil {
			h.log.Warnf("Failed to save session %s: %v", attemptID, err)
		}
	}

	if h.sessionLog != nil {
		err := h.sessionLog.Append(map[string]interface{}{
			"attemptId":    attemptID,
			"personaId":    personaID,
			"metrics":      metrics,
			"personaScore": score,
			"timestamp":    now.Format(time.RFC3339),
		})
		if err != nil {
			h.log.Warnf("Failed to append session log for %s: %v", attemptID, err)
		}
	}
}
