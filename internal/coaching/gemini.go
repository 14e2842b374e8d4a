// Package coaching turns an analyzed attempt into coaching feedback using the
// Gemini generateContent API, with a deterministic local fallback so the
// analyze pipeline never fails on provider errors.
package coaching

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/speakbetter/persona-coach/internal/telemetry"
	"github.com/speakbetter/persona-coach/internal/types"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// jsonObject extracts the first {...} block from a model reply, which may be
// wrapped in prose or a markdown fence.
var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// Generator produces coaching feedback for an analyzed speech attempt.
type Generator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

// NewGenerator creates a Gemini-backed coaching generator. An empty apiKey is
// allowed; every call will then use the local fallback.
func NewGenerator(apiKey, model string, timeout time.Duration, log *logrus.Logger) *Generator {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Generator{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// NewGeneratorWithBaseURL is for tests that point the generator at a stub server.
func NewGeneratorWithBaseURL(apiKey, model, baseURL string, timeout time.Duration, log *logrus.Logger) *Generator {
	g := NewGenerator(apiKey, model, timeout, log)
	g.baseURL = baseURL
	return g
}

// generateContent request/response shapes, trimmed to the fields we use.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate returns coaching feedback for the attempt. It never returns an
// error: any provider failure (missing key, transport error, malformed JSON,
// missing keys) falls back to Fallback().
func (g *Generator) Generate(ctx context.Context, transcript string, p types.Persona, m types.Metrics, score types.PersonaScore) types.Coaching {
	if g.apiKey == "" {
		g.log.Debug("No coaching API key configured, using fallback coaching")
		telemetry.CoachingFallbacks.Inc()
		return Fallback()
	}

	coaching, err := g.generate(ctx, transcript, p, m, score)
	if err != nil {
		g.log.Warnf("Coaching generation failed, using fallback: %v", err)
		telemetry.CoachingFallbacks.Inc()
		return Fallback()
	}
	return coaching
}

func (g *Generator) generate(ctx context.Context, transcript string, p types.Persona, m types.Metrics, score types.PersonaScore) (types.Coaching, error) {
	prompt, err := buildPrompt(transcript, p, m, score)
	if err != nil {
		return types.Coaching{}, err
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return types.Coaching{}, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return types.Coaching{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return types.Coaching{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return types.Coaching{}, fmt.Errorf("coaching API %s: %s", resp.Status, string(respBody))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.Coaching{}, fmt.Errorf("failed to decode coaching response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return types.Coaching{}, fmt.Errorf("coaching response contained no candidates")
	}

	return parseCoachingText(out.Candidates[0].Content.Parts[0].Text)
}

// parseCoachingText pulls the first JSON object out of the raw model reply and
// validates that the required coaching fields are present.
func parseCoachingText(raw string) (types.Coaching, error) {
	match := jsonObject.FindString(raw)
	if match == "" {
		return types.Coaching{}, fmt.Errorf("no JSON object in coaching reply")
	}

	// Decode into a generic map first so missing keys are detectable:
	// a struct decode would silently zero-fill them.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(match), &fields); err != nil {
		return types.Coaching{}, fmt.Errorf("invalid coaching JSON: %w", err)
	}
	for _, key := range []string{"summary", "tips", "exercise", "personaScores10", "perSentenceEmotions"} {
		if _, ok := fields[key]; !ok {
			return types.Coaching{}, fmt.Errorf("coaching JSON missing %q", key)
		}
	}

	var coaching types.Coaching
	if err := json.Unmarshal([]byte(match), &coaching); err != nil {
		return types.Coaching{}, fmt.Errorf("invalid coaching JSON: %w", err)
	}
	return coaching, nil
}

// buildPrompt renders the coaching prompt, demanding a strict-JSON reply.
func buildPrompt(transcript string, p types.Persona, m types.Metrics, score types.PersonaScore) (string, error) {
	dims, err := json.Marshal(score.Dimensions)
	if err != nil {
		return "", fmt.Errorf("failed to encode dimension scores: %w", err)
	}

	return fmt.Sprintf(`You are a speaking coach helping a persona '%s'.
Persona description: %s

Metrics:
- WPM: %g
- Total words: %d
- Total fillers: %d
- Fillers per minute: %g

Persona scores (0..1): %s

User transcript:
"""%s"""

Respond ONLY with JSON in this exact structure:
{
  "summary": str,
  "tips": [str, str, str],
  "exercise": str,
  "personaScores10": {
    "confidence": float,
    "clarity": float,
    "energy": float,
    "structure": float
  },
  "perSentenceEmotions": [str, ...]
}
`, p.Name, p.Description, m.WPM, m.TotalWords, m.TotalFillers, m.FillersPerMin, dims, transcript), nil
}

// Fallback is the deterministic coaching payload used whenever the provider
// is unavailable or replies with something unusable.
func Fallback() types.Coaching {
	return types.Coaching{
		Summary: "Coaching service unavailable - showing standard guidance.",
		Tips: []string{
			"Pause instead of reaching for filler words.",
			"Record yourself and listen for pacing drift.",
			"End sentences cleanly before starting the next thought.",
		},
		Exercise: "Repeat your introduction while consciously avoiding filler words like 'um' and 'uh'.",
		PersonaScores10: map[string]float64{
			"confidence": 5.0,
			"clarity":    5.0,
			"energy":     5.0,
			"structure":  5.0,
		},
		PerSentenceEmotions: []string{"neutral"},
	}
}
